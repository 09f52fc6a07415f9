// Package buildcache adapts an external key/value cache to the compiler
// pipeline: a stable digest over a build request (Digest), and an Adapter
// that tries a cache hit first, builds and stores on a miss, and never lets
// a cache failure become a build failure.
package buildcache

import (
	"github.com/coregx/dfalex/dfa"
	"github.com/projectdiscovery/gologger"
)

// Cache is the black-box external collaborator: get-or-miss, put. It is
// responsible for its own synchronization and persistence; this package
// treats it as opaque.
type Cache interface {
	Get(digest string) (data []byte, ok bool, err error)
	Put(digest string, data []byte) error
}

// Adapter ties a Cache to the encode/decode pair needed to persist a
// Packed[M] (see dfa.Encode/dfa.Decode) and to the pipeline's own build
// function.
type Adapter[M comparable] struct {
	cache         Cache
	encodeAccept  func(M) []byte
	decodeAccept  func([]byte) (M, error)
}

// NewAdapter returns an Adapter backed by cache, using encodeAccept/
// decodeAccept to serialize the generic accept value type.
func NewAdapter[M comparable](cache Cache, encodeAccept func(M) []byte, decodeAccept func([]byte) (M, error)) *Adapter[M] {
	return &Adapter[M]{cache: cache, encodeAccept: encodeAccept, decodeAccept: decodeAccept}
}

// BuildOrGet tries cache.Get(digest) first. On a hit that decodes cleanly,
// it returns the cached automaton without running build. On a miss, a
// decode failure, or any cache I/O error, it runs build, logs the cache
// failure as a warning (never fatal — a cold or broken cache degrades
// performance, not correctness), and stores the fresh result for next time.
func (a *Adapter[M]) BuildOrGet(digest string, build func() (*dfa.Packed[M], error)) (*dfa.Packed[M], error) {
	if data, ok, err := a.cache.Get(digest); err != nil {
		gologger.Warning().Msgf("buildcache: get(%s) failed: %v", digest, err)
	} else if ok {
		packed, decodeErr := dfa.Decode[M](data, a.decodeAccept)
		if decodeErr == nil {
			return packed, nil
		}
		gologger.Warning().Msgf("buildcache: cached entry for %s failed to decode: %v", digest, decodeErr)
	}

	packed, err := build()
	if err != nil {
		return nil, err
	}

	data := dfa.Encode[M](packed, a.encodeAccept)
	if err := a.cache.Put(digest, data); err != nil {
		gologger.Warning().Msgf("buildcache: put(%s) failed: %v", digest, err)
	}

	return packed, nil
}
