package dfa

import (
	"fmt"

	"github.com/coregx/dfalex/nfa"
)

// PackedState is the runtime-efficient form of one minimized DFA state: a
// heap-indexed complete binary search tree over InternalNodes boundary
// chars, with Targets holding one successor slot per gap between (and
// around) those boundaries. InternalNodes has length L; Targets has length
// L+1, exactly as spec.md §3 describes. A Target of -1 means no transition
// (the char falls in a dead region).
//
// Leaf resolution: InternalNodes[i]'s two children sit at heap indices
// 2i+1 and 2i+2; the search steps left (c < InternalNodes[i]) or right
// until it falls off the internal-node array. The closed-form
// "targets[heapIndex-L]" shortcut only gives the correct slot when L+1 is a
// power of two (a perfectly balanced tree, every leaf at the same depth);
// for a general L the heap indices of unevenly-deep leaves do not come out
// in left-to-right order. leafSlot is a small parallel remap table, built
// by the same in-order recursion that assigns InternalNodes, that resolves
// the terminal heap index to the correct slot in all cases while keeping
// lookup O(log L) and leaving the two documented array shapes untouched.
type PackedState[M comparable] struct {
	InternalNodes []nfa.Char
	Targets       []int32
	Accept        M
	HasAccept     bool

	leafSlot []int32
}

// Next returns the successor state index for c, or -1 if c falls in a dead
// region.
func (ps *PackedState[M]) Next(c nfa.Char) int32 {
	l := len(ps.InternalNodes)
	if l == 0 {
		return ps.Targets[0]
	}
	i := 0
	for i < l {
		if c < ps.InternalNodes[i] {
			i = 2*i + 1
		} else {
			i = 2*i + 2
		}
	}
	return ps.Targets[ps.leafSlot[i]]
}

// TransitionRange is one disjoint outgoing edge of a PackedState, as
// reported by diagnostics: every Char in [First, Last] steps to Target.
type TransitionRange struct {
	First, Last nfa.Char
	Target      int32
}

// TransitionIter walks a PackedState's disjoint transition ranges in
// ascending order, including the dead (Target == -1) gaps, mirroring
// nfa.NFA's own Iter/StateIter idiom (an iterator type rather than a
// callback-only visitor) rather than materializing the whole list in a
// slice up front.
type TransitionIter struct {
	bounds  []nfa.Char
	targets []int32
	lo      nfa.Char
	i       int
}

// EnumerateTransitions returns an iterator over ps's disjoint transition
// ranges, reconstructed from the heap-indexed tree by an in-order walk (the
// same traversal buildTree used to assign InternalNodes, run in reverse).
func (ps *PackedState[M]) EnumerateTransitions() *TransitionIter {
	l := len(ps.InternalNodes)
	if l == 0 {
		return &TransitionIter{bounds: nil, targets: ps.Targets}
	}

	bounds := make([]nfa.Char, 0, l)
	targets := make([]int32, 0, l+1)
	var visit func(node int)
	visit = func(node int) {
		if node >= l {
			targets = append(targets, ps.Targets[ps.leafSlot[node]])
			return
		}
		visit(2*node + 1)
		bounds = append(bounds, ps.InternalNodes[node])
		visit(2*node + 2)
	}
	visit(0)

	return &TransitionIter{bounds: bounds, targets: targets}
}

// HasNext reports whether another range remains.
func (it *TransitionIter) HasNext() bool {
	return it.i <= len(it.bounds)
}

// Next returns the next disjoint range (possibly dead, Target == -1), or
// ok=false once the state's whole [0, 0xFFFF] domain has been covered.
func (it *TransitionIter) Next() (rng TransitionRange, ok bool) {
	if it.i > len(it.bounds) {
		return TransitionRange{}, false
	}
	var last nfa.Char
	if it.i == len(it.bounds) {
		last = 0xFFFF
	} else {
		last = it.bounds[it.i] - 1
	}
	rng = TransitionRange{First: it.lo, Last: last, Target: it.targets[it.i]}
	if it.i < len(it.bounds) {
		it.lo = it.bounds[it.i]
	}
	it.i++
	return rng, true
}

// Packed is a compiled multi-language automaton: one PackedState per
// minimized DFA state, plus one start index per input language.
type Packed[M comparable] struct {
	States []PackedState[M]
	Starts []int
}

func (p *Packed[M]) String() string {
	return fmt.Sprintf("Packed{states: %d, starts: %d}", len(p.States), len(p.Starts))
}

// BuildPacked converts a minimized Raw DFA into its packed run-time form.
func BuildPacked[M comparable](min *Raw[M]) *Packed[M] {
	p := &Packed[M]{
		States: make([]PackedState[M], len(min.States)),
		Starts: make([]int, len(min.Starts)),
	}
	for i, s := range min.Starts {
		p.Starts[i] = int(s)
	}
	for i, st := range min.States {
		p.States[i] = buildPackedState(min, st)
	}
	return p
}

func buildPackedState[M comparable](min *Raw[M], st RawState) PackedState[M] {
	var accept M
	hasAccept := st.AcceptIdx >= 0
	if hasAccept {
		accept = min.AcceptValues[st.AcceptIdx]
	}

	bounds, slots := boundsAndSlots(st.Transitions)
	internal, leafSlot := buildTree(bounds)

	return PackedState[M]{
		InternalNodes: internal,
		Targets:       slots,
		Accept:        accept,
		HasAccept:     hasAccept,
		leafSlot:      leafSlot,
	}
}

// boundsAndSlots walks a state's sorted, disjoint transition list and
// produces the boundary-char list and the parallel per-slot successor
// list (-1 for "no transition") described in spec.md §4.5.
func boundsAndSlots(trans []Transition) ([]nfa.Char, []int32) {
	if len(trans) == 0 {
		return nil, []int32{-1}
	}

	var bounds []nfa.Char
	var slots []int32

	if trans[0].First > 0 {
		bounds = append(bounds, trans[0].First)
		slots = append(slots, -1)
	}
	slots = append(slots, int32(trans[0].Target))

	for i := 1; i < len(trans); i++ {
		prev, cur := trans[i-1], trans[i]
		if int(cur.First) > int(prev.Last)+1 {
			bounds = append(bounds, prev.Last+1)
			slots = append(slots, -1)
			bounds = append(bounds, cur.First)
			slots = append(slots, int32(cur.Target))
		} else if prev.Target != cur.Target {
			bounds = append(bounds, cur.First)
			slots = append(slots, int32(cur.Target))
		}
		// else: adjacent range with the same target, already covered by
		// the previous slot (raw transitions are pre-merged by BuildRaw
		// and Minimize, so this branch is mostly a defensive no-op).
	}

	last := trans[len(trans)-1]
	if last.Last < 0xFFFF {
		bounds = append(bounds, last.Last+1)
		slots = append(slots, -1)
	}

	return bounds, slots
}

// buildTree lays bounds out as a heap-indexed complete binary search tree
// via the classic in-order-assignment recursion, and simultaneously
// records, for every heap index a search can terminate at, which sorted
// slot rank that leaf represents.
func buildTree(bounds []nfa.Char) ([]nfa.Char, []int32) {
	l := len(bounds)
	if l == 0 {
		return nil, nil
	}
	internal := make([]nfa.Char, l)
	leafSlot := make([]int32, 2*l+1)

	boundPtr := 0
	slotRank := int32(0)
	var visit func(node int)
	visit = func(node int) {
		if node >= l {
			leafSlot[node] = slotRank
			slotRank++
			return
		}
		visit(2*node + 1)
		internal[node] = bounds[boundPtr]
		boundPtr++
		visit(2*node + 2)
	}
	visit(0)
	return internal, leafSlot
}
