package pattern

import (
	"strings"
	"testing"

	"github.com/coregx/dfalex/nfa"
)

// acceptsExact emits p into a fresh NFA and simulates it on s, following
// every matching transition and every epsilon edge, and reports whether the
// whole of s is accepted.
func acceptsExact(t *testing.T, p Pattern, s string) bool {
	t.Helper()
	n := nfa.New[bool]()
	target := n.AddStateWithAccept(true)
	entry := p.EmitIntoNFA(n, target)

	current := n.EpsilonClosure([]nfa.StateID{entry})
	for _, r := range s {
		var next []nfa.StateID
		for _, st := range current {
			for _, tr := range n.Transitions(st) {
				if nfa.Char(r) >= tr.First && nfa.Char(r) <= tr.Last {
					next = append(next, tr.Target)
				}
			}
		}
		if len(next) == 0 {
			return false
		}
		current = n.EpsilonClosure(next)
	}
	for _, st := range current {
		if _, ok := n.AcceptOf(st); ok {
			return true
		}
	}
	return false
}

func TestLiteralMatchesExactly(t *testing.T) {
	p := Literal("cat")
	if !acceptsExact(t, p, "cat") {
		t.Error(`Literal("cat") should accept "cat"`)
	}
	if acceptsExact(t, p, "car") {
		t.Error(`Literal("cat") should not accept "car"`)
	}
	if acceptsExact(t, p, "ca") {
		t.Error(`Literal("cat") should not accept a prefix`)
	}
}

func TestLiteralIgnoringCase(t *testing.T) {
	p := LiteralIgnoringCase("Go")
	for _, s := range []string{"Go", "go", "GO", "gO"} {
		if !acceptsExact(t, p, s) {
			t.Errorf("LiteralIgnoringCase(%q) should accept %q", "Go", s)
		}
	}
}

func TestEmptyPatternMatchesEmptyOnly(t *testing.T) {
	p := EmptyPattern()
	if !p.MatchesEmpty() {
		t.Error("EmptyPattern().MatchesEmpty() = false, want true")
	}
	if !acceptsExact(t, p, "") {
		t.Error("EmptyPattern() should accept the empty string")
	}
	if acceptsExact(t, p, "x") {
		t.Error("EmptyPattern() should not accept non-empty input")
	}
}

func TestRangeRejectsInvertedBounds(t *testing.T) {
	if _, err := Range('z', 'a'); err == nil {
		t.Error("Range('z','a') should return an error")
	}
	if _, ok := isRangeError(Range('z', 'a')); !ok {
		t.Error("Range('z','a') error should be a *RangeError")
	}
}

func isRangeError(p Pattern, err error) (*RangeError, bool) {
	re, ok := err.(*RangeError)
	return re, ok
}

func TestAnyCharInIncludesFirstArgument(t *testing.T) {
	p := AnyCharIn('a', 'b', 'c')
	for _, s := range []string{"a", "b", "c"} {
		if !acceptsExact(t, p, s) {
			t.Errorf("AnyCharIn('a','b','c') should accept %q (regression: first vararg must not be skipped)", s)
		}
	}
	if acceptsExact(t, p, "d") {
		t.Error(`AnyCharIn('a','b','c') should not accept "d"`)
	}
}

func TestAnyOfIncludesFirstArgument(t *testing.T) {
	p := AnyOf(Literal("cat"), Literal("dog"))
	if !acceptsExact(t, p, "cat") {
		t.Error("AnyOf should accept its first alternative")
	}
	if !acceptsExact(t, p, "dog") {
		t.Error("AnyOf should accept its second alternative")
	}
}

func TestRepeatRequiresAtLeastOne(t *testing.T) {
	p := Repeat(Literal("ab"))
	if acceptsExact(t, p, "") {
		t.Error("Repeat(...) should not accept the empty string")
	}
	if !acceptsExact(t, p, "ab") {
		t.Error("Repeat(...) should accept one repetition")
	}
	if !acceptsExact(t, p, "abab") {
		t.Error("Repeat(...) should accept multiple repetitions")
	}
	if p.MatchesEmpty() {
		t.Error("Repeat(...).MatchesEmpty() should be false")
	}
}

func TestMaybeRepeatAcceptsEmpty(t *testing.T) {
	p := MaybeRepeat(Literal("ab"))
	if !acceptsExact(t, p, "") {
		t.Error("MaybeRepeat(...) should accept the empty string")
	}
	if !acceptsExact(t, p, "ababab") {
		t.Error("MaybeRepeat(...) should accept many repetitions")
	}
	if !p.MatchesEmpty() {
		t.Error("MaybeRepeat(...).MatchesEmpty() should be true")
	}
}

func TestMaybe(t *testing.T) {
	p := Literal("a").Then(Maybe(Literal("b")))
	if !acceptsExact(t, p, "a") {
		t.Error(`"a" then Maybe("b") should accept "a"`)
	}
	if !acceptsExact(t, p, "ab") {
		t.Error(`"a" then Maybe("b") should accept "ab"`)
	}
	if acceptsExact(t, p, "ac") {
		t.Error(`"a" then Maybe("b") should not accept "ac"`)
	}
}

func TestLiteralsOfPureLiteralUnion(t *testing.T) {
	p := AnyOfStrings("cat", "dog").Then(Literal("!"))
	lits, ok := Literals(p)
	if !ok {
		t.Fatal("expected a pure-literal decomposition")
	}
	got := map[string]bool{}
	for _, l := range lits {
		var b strings.Builder
		for _, c := range l {
			b.WriteRune(rune(c))
		}
		got[b.String()] = true
	}
	want := map[string]bool{"cat!": true, "dog!": true}
	if len(got) != len(want) {
		t.Fatalf("Literals = %v, want %v", got, want)
	}
	for k := range want {
		if !got[k] {
			t.Errorf("missing literal %q in %v", k, got)
		}
	}
}

func TestLiteralsRejectsNonLiteralConstructs(t *testing.T) {
	r := MustRange('a', 'z')
	if _, ok := Literals(Literal("x").Then(r)); ok {
		t.Error("Literals should reject a tree containing a Range node")
	}
	if _, ok := Literals(Repeat(Literal("ab"))); ok {
		t.Error("Literals should reject a tree containing a Repeat node")
	}
	if _, ok := Literals(Maybe(Literal("ab"))); ok {
		t.Error("Literals should reject a tree containing an Optional node")
	}
	if _, ok := Literals(LiteralIgnoringCase("go")); ok {
		t.Error("Literals should reject a case-folded literal")
	}
}

func TestThenCombinators(t *testing.T) {
	p := Literal("foo").ThenString("bar")
	if !acceptsExact(t, p, "foobar") {
		t.Error("ThenString should concatenate")
	}

	q, err := Range('0', '9')
	if err != nil {
		t.Fatal(err)
	}
	digits := Literal("v").ThenRepeat(q)
	if !acceptsExact(t, digits, "v1") || !acceptsExact(t, digits, "v123") {
		t.Error("ThenRepeat should accept one or more digits after the literal")
	}
	if acceptsExact(t, digits, "v") {
		t.Error("ThenRepeat should require at least one repetition")
	}
}
