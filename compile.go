package dfalex

import (
	"fmt"

	"github.com/coregx/dfalex/dfa"
	"github.com/coregx/dfalex/internal/prefilter"
	"github.com/coregx/dfalex/nfa"
	"github.com/coregx/dfalex/pattern"
)

// BuildError reports a build-time resource limit violation: too many
// patterns, or a raw DFA that grew past Config.MaxStates.
type BuildError struct {
	Message string
}

func (e *BuildError) Error() string { return "dfalex: " + e.Message }

// PatternEntry is one add_pattern call: a pattern and the accept value
// reported when it matches. Multiple entries may share an accept value.
type PatternEntry[M comparable] struct {
	Pattern pattern.Pattern
	Accept  M
}

// Builder accumulates PatternEntry values and compiles subsets of them
// (selected by accept value) into a jointly minimized packed automaton,
// implementing spec.md §6's Builder API: add_pattern, build, build_many.
type Builder[M comparable] struct {
	config  Config[M]
	entries []PatternEntry[M]
}

// NewBuilder returns an empty Builder governed by config.
func NewBuilder[M comparable](config Config[M]) *Builder[M] {
	return &Builder[M]{config: config}
}

// AddPattern appends p under accept and returns b for chaining.
func (b *Builder[M]) AddPattern(p pattern.Pattern, accept M) *Builder[M] {
	b.entries = append(b.entries, PatternEntry[M]{Pattern: p, Accept: accept})
	return b
}

// Build compiles the single language selected by accepts: every added
// pattern whose accept value appears in accepts participates, joined under
// one start state. Equivalent to BuildMany with a single language, taking
// packed.Starts[0] as the result's start.
//
// The returned *prefilter.Filter is non-nil only when every participating
// pattern reduces to a literal sequence (see pattern.Literals); pass it to
// scan.Scanner.WithPrefilter to skip ahead to candidate match positions.
// It is nil whenever any participating pattern isn't a pure literal, in
// which case a scanner should run without a prefilter.
func (b *Builder[M]) Build(accepts []M) (*dfa.Packed[M], *prefilter.Filter, error) {
	return b.BuildMany([][]M{accepts})
}

// BuildMany compiles one start state per entry in languages (each a set of
// accept values selecting which added patterns participate), all
// subset-constructed and minimized together so equivalent states are
// shared across languages, per dfa.Raw.Starts/dfa.Minimize's distinct-
// start-per-language contract. Language i's start state is
// packed.Starts[i].
//
// It also builds an Aho-Corasick prefilter (see internal/prefilter) over
// every participating pattern's literal form, across all of languages,
// when every one of them reduces to a literal sequence; see Build's doc
// for how to use the result.
func (b *Builder[M]) BuildMany(languages [][]M) (*dfa.Packed[M], *prefilter.Filter, error) {
	if err := b.config.Validate(); err != nil {
		return nil, nil, err
	}
	if len(b.entries) > b.config.MaxPatterns {
		return nil, nil, &BuildError{Message: fmt.Sprintf("pattern count %d exceeds MaxPatterns %d", len(b.entries), b.config.MaxPatterns)}
	}

	resolver := b.config.AmbiguityResolver
	if resolver == nil {
		resolver = rejectAmbiguity[M]
	}

	n := nfa.New[M]()
	starts := make([]nfa.StateID, len(languages))
	selected := make(map[int]bool)
	for i, lang := range languages {
		members := make(map[M]bool, len(lang))
		for _, m := range lang {
			members[m] = true
		}

		var entries []nfa.StateID
		for idx, pe := range b.entries {
			if !members[pe.Accept] {
				continue
			}
			selected[idx] = true
			accept := n.AddStateWithAccept(pe.Accept)
			entries = append(entries, pe.Pattern.EmitIntoNFA(n, accept))
		}
		starts[i] = nfa.UnionStarts(n, entries)
	}

	raw, err := dfa.BuildRaw(n, starts, resolver)
	if err != nil {
		return nil, nil, err
	}
	if len(raw.States) > b.config.MaxStates {
		return nil, nil, &BuildError{Message: fmt.Sprintf("raw DFA state count %d exceeds MaxStates %d", len(raw.States), b.config.MaxStates)}
	}

	packed := dfa.BuildPacked(dfa.Minimize(raw))
	filter, _ := b.literalPrefilter(selected)
	return packed, filter, nil
}

// literalPrefilter builds an Aho-Corasick filter over the literal form of
// every entry named in selected, grounded on meta/compile.go's
// UseAhoCorasick strategy branch: if any selected entry isn't a pure
// literal (pattern.Literals reports ok=false, as it does for case-folded
// literals and anything with real branching or repetition), no filter is
// built at all, since a partial filter would wrongly rule out candidate
// positions the non-literal patterns could still match at.
func (b *Builder[M]) literalPrefilter(selected map[int]bool) (*prefilter.Filter, bool) {
	var literals [][]nfa.Char
	for idx := range selected {
		lits, ok := pattern.Literals(b.entries[idx].Pattern)
		if !ok {
			return nil, false
		}
		literals = append(literals, lits...)
	}
	if len(literals) == 0 {
		return nil, false
	}
	f, err := prefilter.Build(literals)
	if err != nil {
		return nil, false
	}
	return f, true
}

// Language groups a set of patterns under one shared accept value: the
// common case of a single-purpose tokenizer class ("NUM", "ID", ...) where
// every alternative reports the same result. CompileWithConfig builds one
// language per entry, jointly minimized, with language i's start at
// packed.Starts[i].
type Language[M comparable] struct {
	Patterns []pattern.Pattern
	Accept   M
}

// Compile builds languages into a packed DFA under DefaultConfig.
func Compile[M comparable](languages []Language[M]) (*dfa.Packed[M], *prefilter.Filter, error) {
	return CompileWithConfig(languages, DefaultConfig[M]())
}

// CompileWithConfig is Builder.BuildMany specialized to the common case
// where each language is exactly one accept value's patterns, mirroring
// meta.CompileWithConfig's validate-then-build structure.
func CompileWithConfig[M comparable](languages []Language[M], config Config[M]) (*dfa.Packed[M], *prefilter.Filter, error) {
	b := NewBuilder(config)
	selectors := make([][]M, len(languages))
	for i, lang := range languages {
		for _, p := range lang.Patterns {
			b.AddPattern(p, lang.Accept)
		}
		selectors[i] = []M{lang.Accept}
	}
	return b.BuildMany(selectors)
}
