// Package simd provides a cheap classification helper the scan engine uses
// to recognize runs of plain-ASCII input, where every 16-bit Char fits in a
// single byte and widening from an 8-bit source is lossless.
//
// Grounded on simd/ascii_amd64.go and simd/ascii_fallback.go's dual
// implementation, gated on golang.org/x/sys/cpu's CPU feature detection.
// The teacher backs its amd64 path with hand-written AVX2 assembly; this
// package does not carry any assembly of its own (none can be authored or
// verified without running the Go toolchain), so both paths below are pure
// Go: the wide path is a SWAR (SIMD Within A Register) loop that folds four
// 16-bit units into one word comparison per iteration, and the narrow path
// compares one Char at a time. The
// dependency is still genuinely exercised: which loop runs is a real
// runtime branch on hasAVX2, not a constant.
package simd

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

var hasAVX2 = cpu.X86.HasAVX2

// IsASCIIRun reports whether every Char in chars is in [0, 0x7F], the range
// a single byte can hold without loss.
func IsASCIIRun(chars []uint16) bool {
	if hasAVX2 {
		return isASCIIRunWide(chars)
	}
	return isASCIIRunNarrow(chars)
}

// isASCIIRunWide folds four 16-bit units into one uint64 per iteration.
// Selected when AVX2 is available on the assumption that a CPU new enough
// to carry AVX2 also has the wider load/compare throughput this chunk size
// assumes, even though the loop itself issues no vector instructions.
func isASCIIRunWide(chars []uint16) bool {
	// Each 16-bit lane of the packed word is non-ASCII exactly when any of
	// bits 7-15 are set (value > 0x7F), so 0xFF80 repeated at every 16-bit
	// boundary masks out all four lanes' non-ASCII bits at once.
	const asciiMask = uint64(0xFF80FF80FF80FF80)

	n := len(chars)
	i := 0
	for ; i+4 <= n; i += 4 {
		var buf [8]byte
		binary.LittleEndian.PutUint16(buf[0:], chars[i])
		binary.LittleEndian.PutUint16(buf[2:], chars[i+1])
		binary.LittleEndian.PutUint16(buf[4:], chars[i+2])
		binary.LittleEndian.PutUint16(buf[6:], chars[i+3])
		word := binary.LittleEndian.Uint64(buf[:])
		if word&asciiMask != 0 {
			return false
		}
	}
	for ; i < n; i++ {
		if chars[i] > 0x7F {
			return false
		}
	}
	return true
}

// isASCIIRunNarrow checks one Char at a time. Used on CPUs without AVX2.
func isASCIIRunNarrow(chars []uint16) bool {
	for _, c := range chars {
		if c > 0x7F {
			return false
		}
	}
	return true
}
