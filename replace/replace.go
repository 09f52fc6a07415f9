// Package replace implements the search-and-replace driver: it walks a
// source string with a scan.Scanner, passes unmatched regions through
// unchanged, and hands each match to a caller-supplied callback that may
// rewrite it, appending everything into a copy-on-write Appendable.
package replace

import "github.com/coregx/dfalex/scan"

// Appendable is a copy-on-write output buffer. It starts out tracking a
// shared prefix of src by length alone; the first time an appended
// character diverges from src at the current position, it allocates an
// owned buffer and copies the shared prefix into it. A replacement pass
// that never actually changes anything therefore never allocates.
type Appendable struct {
	src       []uint16
	prefixLen int
	owned     []uint16
}

// NewAppendable returns an Appendable tracking src from the start.
func NewAppendable(src []uint16) *Appendable {
	return &Appendable{src: src}
}

// diverge allocates the owned buffer on first divergence, copying the
// shared prefix accumulated so far.
func (a *Appendable) diverge() {
	if a.owned != nil {
		return
	}
	a.owned = make([]uint16, a.prefixLen, len(a.src))
	copy(a.owned, a.src[:a.prefixLen])
}

// AppendChar appends a single character.
func (a *Appendable) AppendChar(c uint16) {
	if a.owned == nil && a.prefixLen < len(a.src) && a.src[a.prefixLen] == c {
		a.prefixLen++
		return
	}
	a.diverge()
	a.owned = append(a.owned, c)
}

// AppendSlice appends every character of s, preserving the shared-prefix
// fast path for as much of s as still matches src.
func (a *Appendable) AppendSlice(s []uint16) {
	for _, c := range s {
		a.AppendChar(c)
	}
}

// Result returns the buffer's current contents. If nothing has diverged
// from src yet, this is src's own shared prefix, not a copy.
func (a *Appendable) Result() []uint16 {
	if a.owned != nil {
		return a.owned
	}
	return a.src[:a.prefixLen]
}

// Allocated reports whether Result has ever required an owned allocation,
// i.e. whether any replacement actually changed the output.
func (a *Appendable) Allocated() bool {
	return a.owned != nil
}

// ReplaceFunc rewrites one match. It receives the match's accept value, the
// full source, and the match's [start, end) range, and may append arbitrary
// content to dest. It returns a new cursor end' (start <= end' <= len(src));
// scanning resumes at max(end', start+1) so that a callback returning an
// unchanged or empty range still guarantees forward progress.
type ReplaceFunc[M any] func(dest *Appendable, accept M, src []uint16, start, end int) (newEnd int)

// FindAndReplace walks src with s starting the given language index,
// passing unmatched regions through unchanged and invoking replace for each
// match found. It returns the fully rewritten output.
func FindAndReplace[M comparable](s *scan.Scanner[M], startIdx int, src []uint16, replace ReplaceFunc[M]) []uint16 {
	dest := NewAppendable(src)
	pos := 0
	for pos <= len(src) {
		start, end, accept, ok := s.FindNext(src, startIdx, pos)
		if !ok {
			break
		}

		dest.AppendSlice(src[pos:start])
		newEnd := replace(dest, accept, src, start, end)
		if newEnd < start {
			newEnd = start
		}
		if newEnd > len(src) {
			newEnd = len(src)
		}

		pos = newEnd
		if pos < start+1 {
			pos = start + 1
		}
	}

	if pos < len(src) {
		dest.AppendSlice(src[pos:])
	}
	return dest.Result()
}
