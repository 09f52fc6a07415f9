package dfa

import (
	"fmt"

	"github.com/coregx/dfalex/nfa"
)

// State is a handle onto one state of a Packed[M] automaton: an index
// paired with the Packed it indexes into, giving callers the state.next(c),
// state.match() and state.enumerate_transitions(visitor) surface spec.md
// §6 calls for, without exposing PackedState's internal tree layout.
type State[M comparable] struct {
	packed *Packed[M]
	idx    int
}

// StateAt returns a handle onto packed's state idx.
func StateAt[M comparable](packed *Packed[M], idx int) State[M] {
	return State[M]{packed: packed, idx: idx}
}

// Start returns a handle onto the start state for the language'th entry in
// packed.Starts.
func Start[M comparable](packed *Packed[M], language int) State[M] {
	return StateAt(packed, packed.Starts[language])
}

// Next steps on c, returning the successor state and true, or the zero
// State and false if c falls in a dead region (no transition).
func (s State[M]) Next(c nfa.Char) (State[M], bool) {
	next := s.packed.States[s.idx].Next(c)
	if next < 0 {
		return State[M]{}, false
	}
	return State[M]{packed: s.packed, idx: int(next)}, true
}

// Match returns this state's accept value, if any.
func (s State[M]) Match() (M, bool) {
	ps := &s.packed.States[s.idx]
	return ps.Accept, ps.HasAccept
}

// EnumerateTransitions returns an iterator over this state's disjoint
// outgoing ranges, for diagnostics.
func (s State[M]) EnumerateTransitions() *TransitionIter {
	return s.packed.States[s.idx].EnumerateTransitions()
}

// Index reports this state's position in the serialized order, answering
// spec.md §9's open question about getStateNumber: the minimized state's
// index in the serialized order, dense and stable across a given build (not
// stable across separate builds of a changed pattern set).
func (s State[M]) Index() int { return s.idx }

func (s State[M]) String() string {
	accept, ok := s.Match()
	if ok {
		return fmt.Sprintf("State(%d, accept=%v)", s.idx, accept)
	}
	return fmt.Sprintf("State(%d)", s.idx)
}
