// Package pattern implements the pattern algebra: a small tagged-variant
// tree of literal, range, concatenation, union, repetition and optional
// nodes, each able to emit itself into an nfa.Emitter. Pattern trees never
// see the accept-value type a caller eventually attaches to a match; they
// only allocate states and wire transitions.
//
// Example:
//
//	id := pattern.AnyCharIn(letters...).ThenMaybeRepeat(pattern.AnyCharIn(alnum...))
//	kw := pattern.Literal("while")
package pattern

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/coregx/dfalex/nfa"
)

// Node is the minimal trait every pattern tree node implements: whether it
// can match the empty string, and how to extend an nfa.Emitter with the
// states and transitions that recognize it.
type Node interface {
	// MatchesEmpty reports whether this node accepts the empty string.
	MatchesEmpty() bool

	// EmitIntoNFA extends e with the states needed to recognize this node,
	// wiring the node's accepting paths to flow into target, and returns
	// the entry state a caller should transition into to start matching
	// this node.
	EmitIntoNFA(e nfa.Emitter, target nfa.StateID) nfa.StateID

	String() string
}

// Pattern wraps a Node and adds the combinator surface (Then, ThenRepeat,
// ...) that lets callers build trees fluently without naming every
// intermediate node type.
type Pattern struct {
	Node Node
}

// MatchesEmpty reports whether p accepts the empty string.
func (p Pattern) MatchesEmpty() bool { return p.Node.MatchesEmpty() }

// EmitIntoNFA extends e per Node.EmitIntoNFA.
func (p Pattern) EmitIntoNFA(e nfa.Emitter, target nfa.StateID) nfa.StateID {
	return p.Node.EmitIntoNFA(e, target)
}

func (p Pattern) String() string { return p.Node.String() }

// ---- node types ----

type emptyNode struct{}

func (emptyNode) MatchesEmpty() bool { return true }
func (emptyNode) EmitIntoNFA(_ nfa.Emitter, target nfa.StateID) nfa.StateID {
	return target
}
func (emptyNode) String() string { return "ε" }

type literalNode struct {
	chars    []nfa.Char
	foldCase bool
}

func (l literalNode) MatchesEmpty() bool { return len(l.chars) == 0 }

func (l literalNode) EmitIntoNFA(e nfa.Emitter, target nfa.StateID) nfa.StateID {
	if len(l.chars) == 0 {
		return target
	}
	states := make([]nfa.StateID, len(l.chars))
	for i := range states {
		states[i] = e.AddState()
	}
	for i, c := range l.chars {
		next := target
		if i+1 < len(states) {
			next = states[i+1]
		}
		emitChar(e, states[i], next, c, l.foldCase)
	}
	return states[0]
}

func emitChar(e nfa.Emitter, from, to nfa.StateID, c nfa.Char, foldCase bool) {
	if !foldCase {
		e.AddTransition(from, to, c, c)
		return
	}
	seen := map[nfa.Char]bool{c: true}
	e.AddTransition(from, to, c, c)
	if up := nfa.Char(unicode.ToUpper(rune(c))); !seen[up] {
		seen[up] = true
		e.AddTransition(from, to, up, up)
	}
	if lo := nfa.Char(unicode.ToLower(rune(c))); !seen[lo] {
		seen[lo] = true
		e.AddTransition(from, to, lo, lo)
	}
}

func (l literalNode) String() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range l.chars {
		fmt.Fprintf(&b, "%c", rune(c))
	}
	b.WriteByte('"')
	if l.foldCase {
		b.WriteString("/i")
	}
	return b.String()
}

type rangeNode struct {
	first, last nfa.Char
}

func (rangeNode) MatchesEmpty() bool { return false }

func (r rangeNode) EmitIntoNFA(e nfa.Emitter, target nfa.StateID) nfa.StateID {
	s := e.AddState()
	e.AddTransition(s, target, r.first, r.last)
	return s
}

func (r rangeNode) String() string {
	if r.first == r.last {
		return fmt.Sprintf("[%c]", rune(r.first))
	}
	return fmt.Sprintf("[%c-%c]", rune(r.first), rune(r.last))
}

type concatNode struct {
	a, b Node
}

func (c concatNode) MatchesEmpty() bool { return c.a.MatchesEmpty() && c.b.MatchesEmpty() }

func (c concatNode) EmitIntoNFA(e nfa.Emitter, target nfa.StateID) nfa.StateID {
	mid := c.b.EmitIntoNFA(e, target)
	return c.a.EmitIntoNFA(e, mid)
}

func (c concatNode) String() string { return c.a.String() + c.b.String() }

type unionNode struct {
	alts []Node
}

func (u unionNode) MatchesEmpty() bool {
	for _, a := range u.alts {
		if a.MatchesEmpty() {
			return true
		}
	}
	return false
}

func (u unionNode) EmitIntoNFA(e nfa.Emitter, target nfa.StateID) nfa.StateID {
	s := e.AddState()
	for _, alt := range u.alts {
		e.AddEpsilon(s, alt.EmitIntoNFA(e, target))
	}
	return s
}

func (u unionNode) String() string {
	parts := make([]string, len(u.alts))
	for i, a := range u.alts {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, "|") + ")"
}

type repeatNode struct {
	inner      Node
	atLeastOne bool
}

func (r repeatNode) MatchesEmpty() bool {
	return !r.atLeastOne || r.inner.MatchesEmpty()
}

func (r repeatNode) EmitIntoNFA(e nfa.Emitter, target nfa.StateID) nfa.StateID {
	rep := e.AddState()
	e.AddEpsilon(rep, target)
	start := r.inner.EmitIntoNFA(e, rep)
	e.AddEpsilon(rep, start)
	if r.atLeastOne {
		return start
	}
	skip := e.AddState()
	e.AddEpsilon(skip, target)
	e.AddEpsilon(skip, start)
	return skip
}

func (r repeatNode) String() string {
	if r.atLeastOne {
		return r.inner.String() + "+"
	}
	return r.inner.String() + "*"
}

type optionalNode struct {
	inner Node
}

func (o optionalNode) MatchesEmpty() bool { return true }

func (o optionalNode) EmitIntoNFA(e nfa.Emitter, target nfa.StateID) nfa.StateID {
	start := o.inner.EmitIntoNFA(e, target)
	if o.inner.MatchesEmpty() {
		return start
	}
	skip := e.AddState()
	e.AddEpsilon(skip, target)
	e.AddEpsilon(skip, start)
	return skip
}

func (o optionalNode) String() string { return o.inner.String() + "?" }

// ---- constructors ----

// Literal matches the given string exactly, one Char per rune. Runes
// outside the 16-bit range are rejected at construction with a panic (they
// would need a surrogate pair, which this engine treats as two independent
// code units, not as a single logical character).
func Literal(s string) Pattern {
	return Pattern{literalNode{chars: toChars(s)}}
}

// LiteralIgnoringCase matches s case-insensitively: each position accepts
// the original char plus its upper- and lower-case folds.
func LiteralIgnoringCase(s string) Pattern {
	return Pattern{literalNode{chars: toChars(s), foldCase: true}}
}

func toChars(s string) []nfa.Char {
	chars := make([]nfa.Char, 0, len(s))
	for _, r := range s {
		if r > 0xFFFF {
			panic(fmt.Sprintf("pattern: rune %U is outside the 16-bit Char range", r))
		}
		chars = append(chars, nfa.Char(r))
	}
	return chars
}

// Range matches any single Char in [lo, hi] inclusive. Returns
// RangeError if lo > hi.
func Range(lo, hi nfa.Char) (Pattern, error) {
	if lo > hi {
		return Pattern{}, &RangeError{Low: lo, High: hi}
	}
	return Pattern{rangeNode{lo, hi}}, nil
}

// MustRange is Range, panicking on an invalid bound order. Intended for
// call sites building patterns from constants known at compile time.
func MustRange(lo, hi nfa.Char) Pattern {
	p, err := Range(lo, hi)
	if err != nil {
		panic(err)
	}
	return p
}

// AnyCharIn matches any single one of the given chars. Every argument
// participates, including the first: a prior implementation that skipped
// index 0 when building this union is a defect this one does not
// reproduce.
func AnyCharIn(chars ...nfa.Char) Pattern {
	alts := make([]Node, len(chars))
	for i, c := range chars {
		alts[i] = rangeNode{c, c}
	}
	return Pattern{unionNode{alts: alts}}
}

// AnyOf matches whichever of the given patterns matches. Every argument
// participates, including the first.
func AnyOf(patterns ...Pattern) Pattern {
	alts := make([]Node, len(patterns))
	for i, p := range patterns {
		alts[i] = p.Node
	}
	return Pattern{unionNode{alts: alts}}
}

// AnyOfStrings matches any one of the given literal strings. Every
// argument participates, including the first.
func AnyOfStrings(strs ...string) Pattern {
	alts := make([]Node, len(strs))
	for i, s := range strs {
		alts[i] = literalNode{chars: toChars(s)}
	}
	return Pattern{unionNode{alts: alts}}
}

// Repeat matches one or more repetitions of p (Kleene plus).
func Repeat(p Pattern) Pattern {
	return Pattern{repeatNode{inner: p.Node, atLeastOne: true}}
}

// MaybeRepeat matches zero or more repetitions of p (Kleene star).
func MaybeRepeat(p Pattern) Pattern {
	return Pattern{repeatNode{inner: p.Node, atLeastOne: false}}
}

// Maybe matches p or the empty string.
func Maybe(p Pattern) Pattern {
	return Pattern{optionalNode{inner: p.Node}}
}

// EmptyPattern matches only the empty string.
func EmptyPattern() Pattern {
	return Pattern{emptyNode{}}
}

// Literals returns the finite set of exact char sequences p can match,
// along with true, when p is built entirely from Literal, AnyOf,
// AnyOfStrings, Then and EmptyPattern nodes — no Range, Repeat, Optional or
// case-folded Literal anywhere in the tree. Used by the prefilter to decide
// whether a pattern set reduces to plain multi-literal matching that an
// Aho-Corasick automaton can accelerate ahead of the DFA scan.
func Literals(p Pattern) ([][]nfa.Char, bool) {
	return literalsOf(p.Node)
}

func literalsOf(n Node) ([][]nfa.Char, bool) {
	switch v := n.(type) {
	case emptyNode:
		return [][]nfa.Char{{}}, true
	case literalNode:
		if v.foldCase {
			return nil, false
		}
		return [][]nfa.Char{append([]nfa.Char(nil), v.chars...)}, true
	case concatNode:
		as, ok := literalsOf(v.a)
		if !ok {
			return nil, false
		}
		bs, ok := literalsOf(v.b)
		if !ok {
			return nil, false
		}
		out := make([][]nfa.Char, 0, len(as)*len(bs))
		for _, a := range as {
			for _, b := range bs {
				combined := make([]nfa.Char, 0, len(a)+len(b))
				combined = append(combined, a...)
				combined = append(combined, b...)
				out = append(out, combined)
			}
		}
		return out, true
	case unionNode:
		var out [][]nfa.Char
		for _, alt := range v.alts {
			lits, ok := literalsOf(alt)
			if !ok {
				return nil, false
			}
			out = append(out, lits...)
		}
		return out, true
	default:
		return nil, false
	}
}

// ---- combinators ----

// Then matches p immediately followed by q.
func (p Pattern) Then(q Pattern) Pattern {
	return Pattern{concatNode{a: p.Node, b: q.Node}}
}

// ThenString matches p immediately followed by the literal s.
func (p Pattern) ThenString(s string) Pattern {
	return p.Then(Literal(s))
}

// ThenStringIgnoringCase matches p immediately followed by s, matched
// case-insensitively.
func (p Pattern) ThenStringIgnoringCase(s string) Pattern {
	return p.Then(LiteralIgnoringCase(s))
}

// ThenRepeat matches p followed by one or more repetitions of q.
func (p Pattern) ThenRepeat(q Pattern) Pattern {
	return p.Then(Repeat(q))
}

// ThenMaybe matches p optionally followed by q.
func (p Pattern) ThenMaybe(q Pattern) Pattern {
	return p.Then(Maybe(q))
}

// ThenMaybeRepeat matches p followed by zero or more repetitions of q.
func (p Pattern) ThenMaybeRepeat(q Pattern) Pattern {
	return p.Then(MaybeRepeat(q))
}
