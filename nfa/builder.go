package nfa

// UnionStarts wires a single fresh entry state that epsilon-branches into
// every state in entries, and returns it. This is how the compiler turns
// "every pattern whose accept value belongs to this language" into the one
// NFA start state subset construction needs per language: each pattern
// tree's own EmitIntoNFA entry point becomes one epsilon branch out of a
// shared start.
//
// An empty entries list still allocates a state (one with no outgoing
// edges at all), so that a language with zero patterns gets a well-defined,
// permanently non-accepting start rather than a special-cased nil.
func UnionStarts(e Emitter, entries []StateID) StateID {
	start := e.AddState()
	for _, entry := range entries {
		e.AddEpsilon(start, entry)
	}
	return start
}
