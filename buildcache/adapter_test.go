package buildcache

import (
	"errors"
	"testing"

	"github.com/coregx/dfalex/dfa"
)

type memCache struct {
	data    map[string][]byte
	getErr  error
	putErr  error
	getHits int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(digest string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.data[digest]
	if ok {
		c.getHits++
	}
	return v, ok, nil
}

func (c *memCache) Put(digest string, data []byte) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.data[digest] = data
	return nil
}

func encodeAccept(v string) []byte  { return []byte(v) }
func decodeAcceptFn(b []byte) (string, error) { return string(b), nil }

func samplePackedForCache() *dfa.Packed[string] {
	raw := &dfa.Raw[string]{
		States:       []dfa.RawState{{AcceptIdx: 0}},
		Starts:       []dfa.StateID{0},
		AcceptValues: []string{"OK"},
	}
	return dfa.BuildPacked[string](raw)
}

func TestBuildOrGetMissesThenBuilds(t *testing.T) {
	cache := newMemCache()
	a := NewAdapter[string](cache, encodeAccept, decodeAcceptFn)

	calls := 0
	built, err := a.BuildOrGet("digest-1", func() (*dfa.Packed[string], error) {
		calls++
		return samplePackedForCache(), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("build called %d times, want 1", calls)
	}
	if !built.States[0].HasAccept || built.States[0].Accept != "OK" {
		t.Fatalf("unexpected built result: %+v", built.States[0])
	}
	if len(cache.data) != 1 {
		t.Fatal("expected the fresh build to be stored in the cache")
	}
}

func TestBuildOrGetHitsCacheOnSecondCall(t *testing.T) {
	cache := newMemCache()
	a := NewAdapter[string](cache, encodeAccept, decodeAcceptFn)

	calls := 0
	buildFn := func() (*dfa.Packed[string], error) {
		calls++
		return samplePackedForCache(), nil
	}

	if _, err := a.BuildOrGet("digest-1", buildFn); err != nil {
		t.Fatal(err)
	}
	if _, err := a.BuildOrGet("digest-1", buildFn); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("build called %d times, want 1 (second call should hit the cache)", calls)
	}
	if cache.getHits != 1 {
		t.Fatalf("cache get hits = %d, want 1", cache.getHits)
	}
}

func TestBuildOrGetSurvivesCacheGetFailure(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("boom")
	a := NewAdapter[string](cache, encodeAccept, decodeAcceptFn)

	calls := 0
	built, err := a.BuildOrGet("digest-1", func() (*dfa.Packed[string], error) {
		calls++
		return samplePackedForCache(), nil
	})
	if err != nil {
		t.Fatalf("a cache Get failure must not be fatal: %v", err)
	}
	if calls != 1 {
		t.Fatalf("build called %d times, want 1", calls)
	}
	if built == nil {
		t.Fatal("expected a built result despite the cache failure")
	}
}

func TestBuildOrGetSurvivesCachePutFailure(t *testing.T) {
	cache := newMemCache()
	cache.putErr = errors.New("disk full")
	a := NewAdapter[string](cache, encodeAccept, decodeAcceptFn)

	built, err := a.BuildOrGet("digest-1", func() (*dfa.Packed[string], error) {
		return samplePackedForCache(), nil
	})
	if err != nil {
		t.Fatalf("a cache Put failure must not be fatal: %v", err)
	}
	if built == nil {
		t.Fatal("expected a built result despite the cache Put failure")
	}
}

func TestBuildOrGetPropagatesBuildError(t *testing.T) {
	cache := newMemCache()
	a := NewAdapter[string](cache, encodeAccept, decodeAcceptFn)

	wantErr := errors.New("bad pattern")
	_, err := a.BuildOrGet("digest-1", func() (*dfa.Packed[string], error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
