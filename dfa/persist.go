package dfa

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/coregx/dfalex/internal/conv"
)

// formatVersion guards the on-disk layout. Bump it whenever the encoding
// below changes shape.
const formatVersion = 1

// Encode serializes a packed automaton into a self-contained byte stream:
// a version tag, state count, start list, and per-state (internal nodes,
// targets, accept) triples. encodeAccept is called once per accepting
// state (HasAccept states only); its output is stored with a length
// prefix, so encodings of different lengths are fine.
func Encode[M comparable](p *Packed[M], encodeAccept func(M) []byte) []byte {
	var buf bytes.Buffer
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], formatVersion)
	buf.Write(hdr[:])

	writeUint32(&buf, conv.IntToUint32(len(p.States)))
	writeUint32(&buf, conv.IntToUint32(len(p.Starts)))
	for _, s := range p.Starts {
		writeUint32(&buf, conv.IntToUint32(s))
	}

	for _, st := range p.States {
		writeUint32(&buf, conv.IntToUint32(len(st.InternalNodes)))
		for _, c := range st.InternalNodes {
			writeUint16(&buf, c)
		}
		writeUint32(&buf, conv.IntToUint32(len(st.Targets)))
		for _, t := range st.Targets {
			writeInt32(&buf, t)
		}
		if st.HasAccept {
			buf.WriteByte(1)
			payload := encodeAccept(st.Accept)
			writeUint32(&buf, conv.IntToUint32(len(payload)))
			buf.Write(payload)
		} else {
			buf.WriteByte(0)
		}
	}

	return buf.Bytes()
}

// Decode reverses Encode. decodeAccept must be the exact inverse of the
// encodeAccept passed when the stream was produced.
func Decode[M comparable](data []byte, decodeAccept func([]byte) (M, error)) (*Packed[M], error) {
	r := bytes.NewReader(data)
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, &SerializationError{Reason: "truncated header"}
	}
	if binary.LittleEndian.Uint32(hdr[:]) != formatVersion {
		return nil, &SerializationError{Reason: "unsupported format version"}
	}

	numStates, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	numStarts, err := readUint32(r)
	if err != nil {
		return nil, err
	}

	p := &Packed[M]{
		States: make([]PackedState[M], numStates),
		Starts: make([]int, numStarts),
	}
	for i := range p.Starts {
		v, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		p.Starts[i] = int(v)
	}

	for i := range p.States {
		numInternal, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		internal := make([]uint16, numInternal)
		for j := range internal {
			v, err := readUint16(r)
			if err != nil {
				return nil, err
			}
			internal[j] = v
		}

		numTargets, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		targets := make([]int32, numTargets)
		for j := range targets {
			v, err := readInt32(r)
			if err != nil {
				return nil, err
			}
			targets[j] = v
		}

		hasAcceptByte, err := r.ReadByte()
		if err != nil {
			return nil, &SerializationError{Reason: "truncated accept flag"}
		}

		st := PackedState[M]{InternalNodes: internal, Targets: targets}
		_, st.leafSlot = buildTree(internal)
		if hasAcceptByte == 1 {
			n, err := readUint32(r)
			if err != nil {
				return nil, err
			}
			payload := make([]byte, n)
			if _, err := io.ReadFull(r, payload); err != nil {
				return nil, &SerializationError{Reason: "truncated accept payload"}
			}
			v, err := decodeAccept(payload)
			if err != nil {
				return nil, &SerializationError{Reason: fmt.Sprintf("accept decode: %v", err)}
			}
			st.Accept = v
			st.HasAccept = true
		}
		p.States[i] = st
	}

	return p, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeInt32(buf *bytes.Buffer, v int32) {
	writeUint32(buf, uint32(v))
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, &SerializationError{Reason: "truncated uint32"}
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readUint16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, &SerializationError{Reason: "truncated uint16"}
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func readInt32(r *bytes.Reader) (int32, error) {
	v, err := readUint32(r)
	return int32(v), err
}
