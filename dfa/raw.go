// Package dfa builds deterministic automata from an nfa.NFA[M]: subset
// construction into a Raw[M] (one state per distinct reachable NFA
// configuration, ambiguity resolved as they merge), Hopcroft-style
// minimization down to the Myhill-Nerode-minimal equivalent, and packing
// each minimized state into a heap-indexed boundary-char binary search tree
// for O(log k) transition lookup at scan time.
package dfa

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/coregx/dfalex/internal/conv"
	"github.com/coregx/dfalex/nfa"
)

// StateID identifies a state within a Raw or minimized DFA. Like
// nfa.StateID it is an alias for uint32, so the two are the same type to
// the compiler; the separate name only marks which automaton an id indexes.
type StateID = uint32

// InvalidState never names a real DFA state.
const InvalidState StateID = 1<<32 - 1

// Transition is a disjoint, sorted range-labeled edge in a Raw DFA.
type Transition struct {
	First, Last nfa.Char
	Target      StateID
}

// RawState is one subset-construction state: its outgoing transitions
// (sorted, pairwise disjoint) and an index into the owning Raw's
// AcceptValues table, or -1 if the state does not accept.
type RawState struct {
	Transitions []Transition
	AcceptIdx   int
}

// AmbiguityResolver decides what a DFA state should accept when two or more
// NFA states in its configuration carry different accept values. Returning
// ok=false means the conflict cannot be resolved and BuildRaw fails with
// AmbiguousMatchError.
type AmbiguityResolver[M any] func(conflicts []M) (M, bool)

// Raw is the unminimized subset-construction DFA: every state corresponds
// to one distinct (deduplicated) NFA state set. Starts holds one entry per
// input language, assigned ids 0..len(Starts)-1 without deduplication, even
// when two languages happen to produce identical configurations: each
// language keeps its own addressable start state going into minimization.
type Raw[M comparable] struct {
	States      []RawState
	Starts      []StateID
	AcceptValues []M
}

// BuildRaw runs subset construction over n starting from one NFA state per
// language in starts. Each starts[i] becomes Raw.Starts[i].
//
// Grounded on nfa/composite_dfa.go's buildDFASubsetConstruction: a
// map-keyed work queue over epsilon-closed configurations, generalized from
// a single composite start to a list of per-language starts and from byte
// ranges to 16-bit Char ranges.
func BuildRaw[M comparable](n *nfa.NFA[M], starts []nfa.StateID, resolve AmbiguityResolver[M]) (*Raw[M], error) {
	r := &Raw[M]{}
	acceptIndex := map[M]int{}
	configKey := map[string]StateID{}

	internKey := func(key string) (StateID, bool) {
		id, ok := configKey[key]
		return id, ok
	}

	type pending struct {
		id     StateID
		config []nfa.StateID
	}
	var queue []pending

	newState := func(config []nfa.StateID) StateID {
		id := conv.IntToUint32(len(r.States))
		r.States = append(r.States, RawState{AcceptIdx: -1})
		configKey[stateSetKey(config)] = id
		queue = append(queue, pending{id: id, config: config})
		return id
	}

	r.Starts = make([]StateID, len(starts))
	for i, s := range starts {
		config := n.EpsilonClosure([]nfa.StateID{s})
		id := conv.IntToUint32(len(r.States))
		r.States = append(r.States, RawState{AcceptIdx: -1})
		// Deliberately NOT deduplicated against configKey: distinct
		// languages always get distinct start ids, even if their closures
		// coincide, so each language keeps its own addressable start going
		// into minimization (Minimize merges them only where their behavior
		// agrees). The first start with a given closure still seeds
		// configKey, so later states reaching that closure reuse it.
		key := stateSetKey(config)
		if _, seen := configKey[key]; !seen {
			configKey[key] = id
		}
		queue = append(queue, pending{id: id, config: config})
		r.Starts[i] = id
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		acceptIdx, err := resolveAccept(n, cur.config, resolve, acceptIndex, r)
		if err != nil {
			return nil, err
		}
		r.States[cur.id].AcceptIdx = acceptIdx

		trans, err := stepTransitions(n, cur.config, func(target []nfa.StateID) (StateID, error) {
			key := stateSetKey(target)
			if id, ok := internKey(key); ok {
				return id, nil
			}
			return newState(target), nil
		})
		if err != nil {
			return nil, err
		}
		r.States[cur.id].Transitions = trans
	}

	return r, nil
}

func resolveAccept[M comparable](n *nfa.NFA[M], config []nfa.StateID, resolve AmbiguityResolver[M], acceptIndex map[M]int, r *Raw[M]) (int, error) {
	var values []M
	seen := map[M]bool{}
	for _, s := range config {
		if v, ok := n.AcceptOf(s); ok {
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
	}
	switch len(values) {
	case 0:
		return -1, nil
	case 1:
		return internAccept(values[0], acceptIndex, r), nil
	default:
		winner, ok := resolve(values)
		if !ok {
			return 0, &nfa.AmbiguousMatchError[M]{Conflicts: values}
		}
		return internAccept(winner, acceptIndex, r), nil
	}
}

func internAccept[M comparable](v M, acceptIndex map[M]int, r *Raw[M]) int {
	if idx, ok := acceptIndex[v]; ok {
		return idx
	}
	idx := len(r.AcceptValues)
	r.AcceptValues = append(r.AcceptValues, v)
	acceptIndex[v] = idx
	return idx
}

type intervalTarget struct {
	first, last int
	target      nfa.StateID
}

// stepTransitions computes the disjoint, sorted outgoing transitions for
// one DFA state whose configuration is config, calling resolveTarget once
// per emitted sub-range to turn an epsilon-closed NFA target set into a DFA
// state id.
func stepTransitions[M any](n *nfa.NFA[M], config []nfa.StateID, resolveTarget func([]nfa.StateID) (StateID, error)) ([]Transition, error) {
	var raw []intervalTarget
	for _, s := range config {
		for _, t := range n.Transitions(s) {
			raw = append(raw, intervalTarget{int(t.First), int(t.Last), t.Target})
		}
	}
	if len(raw) == 0 {
		return nil, nil
	}

	boundsSet := map[int]bool{}
	for _, t := range raw {
		boundsSet[t.first] = true
		boundsSet[t.last+1] = true
	}
	bounds := make([]int, 0, len(boundsSet))
	for b := range boundsSet {
		bounds = append(bounds, b)
	}
	sort.Ints(bounds)

	var out []Transition
	for i := 0; i+1 < len(bounds); i++ {
		lo, hi := bounds[i], bounds[i+1]-1
		if lo > hi {
			continue
		}
		var targets []nfa.StateID
		for _, t := range raw {
			if t.first <= lo && t.last >= hi {
				targets = append(targets, t.target)
			}
		}
		if len(targets) == 0 {
			continue
		}
		closure := n.EpsilonClosure(targets)
		target, err := resolveTarget(closure)
		if err != nil {
			return nil, err
		}
		first := conv.IntToUint16(lo)
		last := conv.IntToUint16(hi)
		if len(out) > 0 && out[len(out)-1].Target == target && int(out[len(out)-1].Last)+1 == lo {
			out[len(out)-1].Last = last
			continue
		}
		out = append(out, Transition{First: first, Last: last, Target: target})
	}
	return out, nil
}

// stateSetKey canonically fingerprints a sorted, deduplicated NFA state set
// for use as a subset-construction dedup key. Grounded on
// dfa/lazy/state.go's ComputeStateKey/sortStateIDs, swapped from a
// hash-over-bytes key to a direct string key since this runs once at
// compile time rather than on a lazy per-step hot path.
func stateSetKey(config []nfa.StateID) string {
	var b strings.Builder
	for i, id := range config {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}

// String returns a human-readable summary, grounded on nfa.NFA.String's
// size-summary style rather than dumping every transition.
func (r *Raw[M]) String() string {
	return fmt.Sprintf("Raw{states: %d, starts: %d, accepts: %d}", len(r.States), len(r.Starts), len(r.AcceptValues))
}
