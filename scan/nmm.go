package scan

// nmEntry is one (position, state) pair recorded by the non-matching memo.
type nmEntry struct {
	pos   int
	state int32
}

// nonMatchMemo is a bounded ring of (position, state) pairs known not to
// improve on the match already found in the scan that wrote them. Grounded
// on dfa/lazy/cache.go's hit/miss-tracked bounded cache idiom, adapted from
// a state cache keyed for reuse across builds to a per-Scanner outcome
// cache: entries a match_at call commits are consulted by the later
// match_at calls on the same Scanner.
//
// Correctness: the packed DFA is deterministic, so reaching the same state
// at the same absolute input position is equivalent to any earlier reach at
// that (position, state) pair — if that earlier reach failed to extend the
// match, this one will too. That equivalence only holds once the earlier
// call's own walk has actually finished: a checkpoint taken mid-walk, before
// the walk's final accept position is known, is a provisional candidate
// only. commit is the second phase that turns provisional checkpoints into
// live entries, keeping only the ones the finished walk didn't itself go on
// to disprove.
type nonMatchMemo struct {
	entries  [128]nmEntry
	count    int
	nextSlot int
	hits     uint64
	misses   uint64
}

func newNonMatchMemo() *nonMatchMemo {
	return &nonMatchMemo{}
}

// prune drops every live entry whose position is behind minPos: once a scan
// moves past a position it can never revisit it, so entries from earlier
// match_at calls (or the start of this one) are dead weight.
func (m *nonMatchMemo) prune(minPos int) {
	if m.count == 0 {
		return
	}
	kept := m.entries[:0:0]
	// Walk oldest to newest so the compacted entries stay in age order and
	// add keeps evicting the oldest one.
	oldest := (m.nextSlot - m.count + len(m.entries)) % len(m.entries)
	for i := 0; i < m.count; i++ {
		e := m.entries[(oldest+i)%len(m.entries)]
		if e.pos >= minPos {
			kept = append(kept, e)
		}
	}
	m.count = copy(m.entries[:], kept)
	m.nextSlot = m.count % len(m.entries)
}

// contains reports whether (pos, state) is a known non-improving reach.
func (m *nonMatchMemo) contains(pos int, state int32) bool {
	for i := 0; i < m.count; i++ {
		if m.entries[i].pos == pos && m.entries[i].state == state {
			m.hits++
			return true
		}
	}
	m.misses++
	return false
}

// add records (pos, state), evicting the oldest live entry once the ring is
// full.
func (m *nonMatchMemo) add(pos int, state int32) {
	m.entries[m.nextSlot] = nmEntry{pos: pos, state: state}
	m.nextSlot = (m.nextSlot + 1) % len(m.entries)
	if m.count < len(m.entries) {
		m.count++
	}
}

// commit merges a call's staged checkpoints into the live memo, keeping
// only the ones at or after minPos (the call's own final currentEnd).
//
// A checkpoint staged at some position p earlier in the same walk only
// proves "no improvement from here" if nothing later in that same walk
// ever did improve past p. Once the walk's final match end is known, every
// staged entry before it has been disproved by the walk's own later
// progress and must be dropped; only entries from minPos onward, the
// portion of the walk that ran to completion without a further accept,
// are genuinely safe to reuse by a later call.
func (m *nonMatchMemo) commit(minPos int, staged []nmEntry) {
	for _, e := range staged {
		if e.pos >= minPos {
			m.add(e.pos, e.state)
		}
	}
}
