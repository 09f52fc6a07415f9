package dfalex

import (
	"fmt"

	"github.com/coregx/dfalex/dfa"
)

// ConfigError reports an out-of-range or otherwise invalid Config field,
// grounded on meta/config.go's own ConfigError{Field, Message} shape.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dfalex: invalid config field %q: %s", e.Field, e.Message)
}

// Config controls the resource limits and runtime behavior of a build,
// grounded on meta/config.go and dfa/lazy/config.go's Config/Validate
// pattern. Unlike the teacher's Config, this one is generic over the
// accept-value type M: the teacher's AmbiguityResolver is fixed to its own
// capture-group int domain, but this module's accept values are
// caller-chosen, so the resolver must be too.
type Config[M comparable] struct {
	// MaxStates caps the number of raw DFA states a build may produce:
	// BuildMany (and so CompileWithConfig) returns a BuildError when
	// BuildRaw's result has more. The check runs after subset construction
	// finishes; it does not stop BuildRaw early.
	MaxStates int

	// MaxPatterns caps the total number of patterns across all languages
	// passed to CompileWithConfig.
	MaxPatterns int

	// AmbiguityResolver merges conflicting accept values at a DFA state
	// that two or more patterns reach simultaneously. A nil resolver (as
	// DefaultConfig leaves it unset) always fails on a conflict, exactly
	// as a "null resolver" does per spec.md §6.
	AmbiguityResolver dfa.AmbiguityResolver[M]

	// EnableNMM is the non-matching-memo setting for scanners over the
	// built automaton. The build itself does not read it beyond Validate;
	// a scanner takes the setting through scan.New's enableNMM argument.
	EnableNMM bool

	// NMMCapacity documents the number of (position, state) pairs the
	// non-matching memo tracks. The scan package's memo is a fixed
	// 128-entry ring (see scan/nmm.go); this field exists so a future
	// variable-capacity memo has somewhere to read its size from, and so
	// Validate can catch an obviously wrong value up front.
	NMMCapacity int
}

// DefaultConfig returns the Config CompileWithConfig uses when Compile is
// called directly: generous limits, NMM on, no ambiguity resolver (build
// fails on any conflicting accept values).
func DefaultConfig[M comparable]() Config[M] {
	return Config[M]{
		MaxStates:   1_000_000,
		MaxPatterns: 4096,
		EnableNMM:   true,
		NMMCapacity: 128,
	}
}

// Validate reports the first invalid field found, or nil.
func (c Config[M]) Validate() error {
	if c.MaxStates <= 0 {
		return &ConfigError{Field: "MaxStates", Message: "must be positive"}
	}
	if c.MaxStates > 1_000_000 {
		return &ConfigError{Field: "MaxStates", Message: "must not exceed 1,000,000"}
	}
	if c.MaxPatterns <= 0 {
		return &ConfigError{Field: "MaxPatterns", Message: "must be positive"}
	}
	if c.EnableNMM && c.NMMCapacity <= 0 {
		return &ConfigError{Field: "NMMCapacity", Message: "must be positive when EnableNMM is set"}
	}
	return nil
}

// rejectAmbiguity is the resolver a nil Config.AmbiguityResolver is
// normalized to: it refuses every conflict, matching spec.md §6's "a null
// resolver means fail if ambiguous".
func rejectAmbiguity[M comparable](_ []M) (M, bool) {
	var zero M
	return zero, false
}
