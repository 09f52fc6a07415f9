package dfa

import (
	"fmt"
	"strings"
)

// Minimize reduces r to its Myhill-Nerode-minimal equivalent via signature-
// based partition refinement, matching the equivalent formulation spec.md
// §4.4 gives directly: states are grouped by (accept value, [(range,
// target class)...]) and regrouped by signature until the partition stops
// changing.
//
// The initial partition groups purely by accept index, the coarsest sound
// starting point: two states with different AcceptIdx can never be
// equivalent, but same-AcceptIdx states (start states of distinct languages
// included) start out in the same class and only split apart if refinement
// actually proves their reachable behavior differs. A start state of one
// language is free to rejoin a start (or any ordinary state) of another
// language once their signatures agree; distinctness across languages is
// earned by behavior, never assumed from start-role alone.
func Minimize[M comparable](r *Raw[M]) *Raw[M] {
	n := len(r.States)
	classOf := initialPartition(r)

	for {
		newClassOf, numClasses := refine(r, classOf)
		if numClasses == countClasses(classOf) {
			classOf = newClassOf
			break
		}
		classOf = newClassOf
	}

	return buildMinimized(r, classOf, n)
}

func initialPartition[M comparable](r *Raw[M]) []int {
	n := len(r.States)
	classOf := make([]int, n)

	acceptClass := map[int]int{}
	next := 0
	for s := 0; s < n; s++ {
		a := r.States[s].AcceptIdx
		c, ok := acceptClass[a]
		if !ok {
			c = next
			next++
			acceptClass[a] = c
		}
		classOf[s] = c
	}
	return classOf
}

func countClasses(classOf []int) int {
	seen := map[int]bool{}
	for _, c := range classOf {
		seen[c] = true
	}
	return len(seen)
}

func refine[M comparable](r *Raw[M], classOf []int) ([]int, int) {
	n := len(r.States)
	newClassOf := make([]int, n)
	keyToClass := map[string]int{}
	next := 0
	for s := 0; s < n; s++ {
		key := signatureKey(r, s, classOf)
		c, ok := keyToClass[key]
		if !ok {
			c = next
			next++
			keyToClass[key] = c
		}
		newClassOf[s] = c
	}
	return newClassOf, next
}

// signatureKey embeds the state's current class as a prefix, which is what
// guarantees each round only ever splits the previous round's classes. That
// monotonic splitting starting from the sound accept-index-only initial
// partition is what makes the fixed point exact: nothing is pinned apart
// that true equivalence would later want to rejoin.
func signatureKey[M comparable](r *Raw[M], s int, classOf []int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%d", classOf[s], r.States[s].AcceptIdx)
	var lastClass = -1
	var lastEnd = -2
	for _, t := range r.States[s].Transitions {
		c := classOf[t.Target]
		if c == lastClass && int(t.First) == lastEnd+1 {
			lastEnd = int(t.Last)
			continue
		}
		if lastClass != -1 {
			fmt.Fprintf(&b, ";%d", lastClass)
		}
		fmt.Fprintf(&b, "|%d-%d", t.First, t.Last)
		lastClass = c
		lastEnd = int(t.Last)
	}
	if lastClass != -1 {
		fmt.Fprintf(&b, ";%d", lastClass)
	}
	return b.String()
}

func buildMinimized[M comparable](r *Raw[M], classOf []int, n int) *Raw[M] {
	// Canonicalize class ids to a dense 0..k-1 range in first-seen order so
	// output is deterministic regardless of map iteration order upstream.
	remap := map[int]StateID{}
	var order []int
	for s := 0; s < n; s++ {
		c := classOf[s]
		if _, ok := remap[c]; !ok {
			remap[c] = StateID(len(order))
			order = append(order, c)
		}
	}

	representative := make(map[int]int, len(order))
	for s := 0; s < n; s++ {
		c := classOf[s]
		if _, ok := representative[c]; !ok {
			representative[c] = s
		}
	}

	out := &Raw[M]{
		States:       make([]RawState, len(order)),
		AcceptValues: r.AcceptValues,
	}
	for _, c := range order {
		rep := representative[c]
		out.States[remap[c]] = RawState{
			AcceptIdx:   r.States[rep].AcceptIdx,
			Transitions: mapTransitions(r.States[rep].Transitions, classOf, remap),
		}
	}

	out.Starts = make([]StateID, len(r.Starts))
	for i, s := range r.Starts {
		out.Starts[i] = remap[classOf[s]]
	}
	return out
}

func mapTransitions(trans []Transition, classOf []int, remap map[int]StateID) []Transition {
	var out []Transition
	for _, t := range trans {
		target := remap[classOf[t.Target]]
		if len(out) > 0 && out[len(out)-1].Target == target && int(out[len(out)-1].Last)+1 == int(t.First) {
			out[len(out)-1].Last = t.Last
			continue
		}
		out = append(out, Transition{First: t.First, Last: t.Last, Target: target})
	}
	return out
}
