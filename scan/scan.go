// Package scan implements the longest-match scanning engine: given a
// compiled, packed DFA and a source string, it locates the longest
// accepting match beginning at a position (MatchAt) and the first match at
// or after a position (FindNext), optionally accelerated by a literal
// Prefilter.
package scan

import (
	"github.com/coregx/dfalex/dfa"
	"github.com/coregx/dfalex/internal/simd"
)

// Prefilter narrows the region a scan needs to examine. NextCandidate
// reports the first position at or after from where a match could possibly
// begin, or ok=false if no further candidate exists in src. It is strictly
// an accelerant: the packed DFA remains the source of truth for whether a
// match actually occurs there, exactly as SPEC_FULL.md's prefilter wiring
// describes. A nil Prefilter disables this fast path.
type Prefilter interface {
	NextCandidate(src []uint16, from int) (pos int, ok bool)
}

// Scanner is the per-scan scratch structure driving one or more MatchAt /
// FindNext calls over a shared, immutable *dfa.Packed[M]. Distinct Scanners
// are independent and share no mutable state, matching the teacher's
// "compiled state is immutable, scratch is per-scan" split.
type Scanner[M comparable] struct {
	packed    *dfa.Packed[M]
	prefilter Prefilter
	nmm       *nonMatchMemo
}

// New returns a Scanner over packed. When enableNMM is true, match_at steps
// consult a capacity-128 non-matching memo to short-circuit repeated
// unproductive (position, state) reaches.
func New[M comparable](packed *dfa.Packed[M], enableNMM bool) *Scanner[M] {
	s := &Scanner[M]{packed: packed}
	if enableNMM {
		s.nmm = newNonMatchMemo()
	}
	return s
}

// WithPrefilter attaches a literal prefilter and returns the same Scanner
// for chaining.
func (s *Scanner[M]) WithPrefilter(p Prefilter) *Scanner[M] {
	s.prefilter = p
	return s
}

// MatchAt returns the accept value of the longest accepting prefix of src
// beginning at pos under the language rooted at startIdx (an index into the
// Packed.Starts list), and the position one past its last accepted
// character. ok is false if no prefix at pos accepts, including an empty
// one.
func (s *Scanner[M]) MatchAt(src []uint16, startIdx int, pos int) (accept M, end int, ok bool) {
	if s.nmm != nil {
		s.nmm.prune(pos)
	}

	cur := s.packed.Starts[startIdx]
	st := &s.packed.States[cur]

	var currentMatch M
	haveMatch := false
	currentEnd := pos
	if st.HasAccept {
		currentMatch = st.Accept
		currentEnd = pos
		haveMatch = true
	}

	// A plain-ASCII lookahead window means the DFA is about to walk cheap,
	// single-byte-wide transitions for a while, so the NMM can afford to
	// write less often: start from a wider initial gap.
	gap := 2
	if s.nmm != nil {
		window := pos + 64
		if window > len(src) {
			window = len(src)
		}
		if simd.IsASCIIRun(src[pos:window]) {
			gap = 4
		}
	}
	nextWrite := pos + gap
	var staged []nmEntry
	p := pos
	for p < len(src) {
		if s.nmm != nil && !haveMatch && s.nmm.contains(p, int32(cur)) {
			break
		}

		next := st.Next(src[p])
		if next < 0 {
			break
		}
		cur = int(next)
		st = &s.packed.States[cur]
		p++

		if st.HasAccept {
			currentMatch = st.Accept
			currentEnd = p
			haveMatch = true
		}

		if s.nmm != nil && p >= nextWrite {
			staged = append(staged, nmEntry{pos: p, state: int32(cur)})
			gap += gap / 2
			nextWrite = p + gap
		}
	}

	if s.nmm != nil {
		s.nmm.commit(currentEnd, staged)
	}

	if !haveMatch {
		var zero M
		return zero, pos, false
	}
	return currentMatch, currentEnd, true
}

// FindNext scans forward from from, returning the first position at which
// MatchAt succeeds (the match's start, end, and accept value). ok is false
// if no match begins anywhere in [from, len(src)].
func (s *Scanner[M]) FindNext(src []uint16, startIdx int, from int) (start, end int, accept M, ok bool) {
	pos := from
	for pos <= len(src) {
		if s.prefilter != nil {
			next, found := s.prefilter.NextCandidate(src, pos)
			if !found {
				var zero M
				return 0, 0, zero, false
			}
			pos = next
		}

		a, e, matched := s.MatchAt(src, startIdx, pos)
		if matched {
			return pos, e, a, true
		}
		pos++
	}
	var zero M
	return 0, 0, zero, false
}
