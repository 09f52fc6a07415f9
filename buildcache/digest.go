package buildcache

import (
	"crypto/sha256"
	"encoding/base32"
	"encoding/binary"
	"hash"

	"github.com/coregx/dfalex/pattern"
)

// base32 is stdlib-only deliberately: spec.md §4.8 calls for "a base-32
// encoding of a cryptographic hash", and no ecosystem hashing or base-N
// library appears anywhere in the retrieved corpus. The teacher's own
// FNV-1a state-key hash (dfa.stateSetKey's lineage) is explicitly
// non-cryptographic and serves a different purpose (in-process dedup, not
// a cross-process cache key), so it is not reused here.
var digestEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// PatternGroup is one build request's unit of digesting: the patterns that
// make up a language, which languages (by index) share this exact group,
// and the accept value attached to it.
type PatternGroup[M comparable] struct {
	Patterns   []pattern.Pattern
	Membership []bool
	Accept     M
}

// Digest computes a stable, order-sensitive digest over a build request:
// language count, then each pattern group in the order given (callers are
// responsible for iterating their own map in a fixed order before calling
// this, since Go map iteration order is not stable), writing the group's
// size, its language-membership bitmap, its serialized patterns and its
// accept key; finally the ambiguity resolver's identity. acceptKey must
// produce a stable, distinct string per distinct M value actually used.
func Digest[M comparable](languageCount int, groups []PatternGroup[M], acceptKey func(M) string, resolverIdentity string) string {
	h := sha256.New()
	writeUint64(h, uint64(languageCount))
	writeUint64(h, uint64(len(groups)))

	for _, g := range groups {
		writeUint64(h, uint64(len(g.Patterns)))
		writeBitmap(h, g.Membership)
		for _, p := range g.Patterns {
			writeString(h, p.String())
		}
		writeString(h, acceptKey(g.Accept))
	}

	writeString(h, resolverIdentity)
	return digestEncoding.EncodeToString(h.Sum(nil))
}

func writeUint64(h hash.Hash, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	h.Write(b[:])
}

func writeString(h hash.Hash, s string) {
	writeUint64(h, uint64(len(s)))
	h.Write([]byte(s))
}

func writeBitmap(h hash.Hash, bits []bool) {
	writeUint64(h, uint64(len(bits)))
	packed := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			packed[i/8] |= 1 << uint(i%8)
		}
	}
	h.Write(packed)
}
