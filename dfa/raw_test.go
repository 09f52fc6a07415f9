package dfa

import (
	"testing"

	"github.com/coregx/dfalex/nfa"
)

func acceptResolver[M any](conflicts []M) (M, bool) {
	return conflicts[0], true
}

func buildSingleLiteralNFA(t *testing.T, lit string, accept string) (*nfa.NFA[string], nfa.StateID) {
	t.Helper()
	n := nfa.New[string]()
	end := n.AddStateWithAccept(accept)
	cur := end
	for i := len(lit) - 1; i >= 0; i-- {
		s := n.AddState()
		n.AddTransition(s, cur, uint16(lit[i]), uint16(lit[i]))
		cur = s
	}
	return n, cur
}

func TestBuildRawSingleLiteral(t *testing.T) {
	n, start := buildSingleLiteralNFA(t, "ab", "MATCH")
	raw, err := BuildRaw[string](n, []nfa.StateID{start}, acceptResolver[string])
	if err != nil {
		t.Fatal(err)
	}
	if len(raw.Starts) != 1 {
		t.Fatalf("Starts = %v, want 1 entry", raw.Starts)
	}

	// walk 'a' then 'b' from the raw start and expect an accept.
	s := raw.Starts[0]
	s = stepRaw(t, raw, s, 'a')
	s = stepRaw(t, raw, s, 'b')
	if raw.States[s].AcceptIdx < 0 {
		t.Fatal("expected accept after consuming \"ab\"")
	}
	if got := raw.AcceptValues[raw.States[s].AcceptIdx]; got != "MATCH" {
		t.Fatalf("accept value = %q, want MATCH", got)
	}
}

func stepRaw(t *testing.T, raw *Raw[string], s StateID, c uint16) StateID {
	t.Helper()
	for _, tr := range raw.States[s].Transitions {
		if c >= tr.First && c <= tr.Last {
			return tr.Target
		}
	}
	t.Fatalf("no transition for %q from state %d", rune(c), s)
	return InvalidState
}

func TestBuildRawMultipleLanguagesKeepDistinctStarts(t *testing.T) {
	n := nfa.New[string]()
	idEnd := n.AddStateWithAccept("ID")
	idStart := n.AddState()
	n.AddTransition(idStart, idEnd, 'x', 'x')

	kwEnd := n.AddStateWithAccept("KW")
	kwStart := n.AddState()
	n.AddTransition(kwStart, kwEnd, 'x', 'x')

	raw, err := BuildRaw[string](n, []nfa.StateID{idStart, kwStart}, acceptResolver[string])
	if err != nil {
		t.Fatal(err)
	}
	if len(raw.Starts) != 2 || raw.Starts[0] == raw.Starts[1] {
		t.Fatalf("expected two distinct raw start ids, got %v", raw.Starts)
	}
}

func TestBuildRawAmbiguityResolved(t *testing.T) {
	n := nfa.New[string]()
	target := n.AddState()
	accept1 := n.AddStateWithAccept("A")
	accept2 := n.AddStateWithAccept("B")
	n.AddEpsilon(target, accept1)
	n.AddEpsilon(target, accept2)

	calls := 0
	resolver := func(conflicts []string) (string, bool) {
		calls++
		return "A", true
	}
	raw, err := BuildRaw[string](n, []nfa.StateID{target}, resolver)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("resolver called %d times, want 1", calls)
	}
	start := raw.Starts[0]
	if raw.States[start].AcceptIdx < 0 {
		t.Fatal("expected the merged start state to accept")
	}
	if got := raw.AcceptValues[raw.States[start].AcceptIdx]; got != "A" {
		t.Fatalf("accept = %q, want A", got)
	}
}

func TestBuildRawAmbiguityUnresolved(t *testing.T) {
	n := nfa.New[string]()
	target := n.AddState()
	accept1 := n.AddStateWithAccept("A")
	accept2 := n.AddStateWithAccept("B")
	n.AddEpsilon(target, accept1)
	n.AddEpsilon(target, accept2)

	reject := func(conflicts []string) (string, bool) { return "", false }
	_, err := BuildRaw[string](n, []nfa.StateID{target}, reject)
	if err == nil {
		t.Fatal("expected an ambiguity error")
	}
	var ambErr *nfa.AmbiguousMatchError[string]
	if !errorsAs(err, &ambErr) {
		t.Fatalf("error = %v, want *AmbiguousMatchError[string]", err)
	}
}

func errorsAs(err error, target **nfa.AmbiguousMatchError[string]) bool {
	e, ok := err.(*nfa.AmbiguousMatchError[string])
	if !ok {
		return false
	}
	*target = e
	return true
}
