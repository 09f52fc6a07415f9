// Package prefilter wraps github.com/coregx/ahocorasick as an accelerant
// for pure-literal pattern sets: scanning can ask it where the next
// possible match could begin and skip everything before that, without the
// accelerant ever being treated as the source of truth for whether a match
// actually occurs there (that remains the packed DFA's job).
//
// Grounded on meta/compile.go's UseAhoCorasick strategy branch: the same
// NewBuilder/AddPattern/Build sequence, generalized from byte-string
// literals to 16-bit Char literals via a fixed big-endian byte encoding
// (each Char becomes exactly two bytes, so every literal's encoded length
// is even; a match the byte automaton reports can still start at an odd
// byte offset when its bytes straddle two Chars).
package prefilter

import (
	"encoding/binary"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/dfalex/nfa"
)

// Filter answers "where could the next match possibly start" for a set of
// literal Char sequences.
type Filter struct {
	auto *ahocorasick.Automaton
}

// Build constructs a Filter over literals. It fails only if the underlying
// automaton construction fails (for example, an empty pattern set).
func Build(literals [][]nfa.Char) (*Filter, error) {
	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(encodeChars(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Filter{auto: auto}, nil
}

// NextCandidate reports the first position at or after from where one of
// the filter's literals could begin matching, satisfying scan.Prefilter.
func (f *Filter) NextCandidate(src []nfa.Char, from int) (int, bool) {
	if from >= len(src) {
		return 0, false
	}
	encoded := encodeChars(src[from:])
	m := f.auto.Find(encoded, 0)
	if m == nil {
		return 0, false
	}
	// m.Start is a byte offset into encoded. An odd m.Start is a byte match
	// straddling two Chars; halving rounds it down to the Char holding its
	// first byte, and the DFA check at that position rejects it.
	return from + m.Start/2, true
}

// IsCandidate reports whether any literal occurs anywhere in src.
func (f *Filter) IsCandidate(src []nfa.Char) bool {
	return f.auto.IsMatch(encodeChars(src))
}

func encodeChars(chars []nfa.Char) []byte {
	buf := make([]byte, len(chars)*2)
	for i, c := range chars {
		binary.BigEndian.PutUint16(buf[i*2:], c)
	}
	return buf
}
