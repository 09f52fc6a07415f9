// Package dfalex compiles sets of patterns (built with the pattern
// package's algebra) into a minimized, packed deterministic finite
// automaton and exposes the scan and replace engines needed to use it.
//
// The pipeline is pattern -> nfa.NFA -> dfa.Raw (subset construction) ->
// dfa.Minimize (Hopcroft-style) -> dfa.Packed (heap-indexed boundary
// tree), tied together here by Compile / CompileWithConfig. Scanning and
// replacing a packed automaton is the scan and replace packages'
// responsibility; this package only owns getting from patterns to a
// Packed[M] and the resource limits that govern that trip.
//
// Example:
//
//	digits := pattern.Repeat(pattern.MustRange('0', '9'))
//	word := pattern.Literal("foo")
//	packed, filter, err := dfalex.Compile([]dfalex.Language[string]{
//		{Patterns: []pattern.Pattern{digits}, Accept: "NUM"},
//		{Patterns: []pattern.Pattern{word}, Accept: "ID"},
//	})
//	s := scan.New(packed, true)
//	if filter != nil {
//		s = s.WithPrefilter(filter)
//	}
package dfalex
