package queryengine

import (
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"
)

// snapshot is one reader's pinned view of the index. It starts with an
// implicit reference owned by the engine's current pointer; acquire
// and release add and remove the transient references in-flight
// queries hold on top of that. The index closes exactly once, when
// the reference count reaches zero after retirement.
type snapshot struct {
	idx    bleve.Index
	refs   atomic.Int32
	retire atomic.Bool
}

// newSnapshot starts refs at 1 for the reference e.current itself
// holds, released by markRetiredAndMaybeClose once a newer snapshot
// takes its place.
func newSnapshot(idx bleve.Index) *snapshot {
	s := &snapshot{idx: idx}
	s.refs.Store(1)
	return s
}

// acquire adds a transient reference. It refuses (ok=false) if the
// snapshot has already been fully drained and closed — a late joiner
// racing a retirement must not resurrect a closed index's refcount;
// the caller should reload the current snapshot and retry.
func (s *snapshot) acquire() (snap *snapshot, ok bool) {
	for {
		cur := s.refs.Load()
		if cur <= 0 {
			return nil, false
		}
		if s.refs.CompareAndSwap(cur, cur+1) {
			return s, true
		}
	}
}

func (s *snapshot) release() {
	if s.refs.Add(-1) == 0 && s.retire.Load() {
		_ = s.idx.Close()
	}
}

// markRetiredAndMaybeClose flags s as superseded and releases the
// reference the engine's current pointer held: the index closes right
// here if no query currently holds a reference, or on that query's own
// release otherwise.
func (s *snapshot) markRetiredAndMaybeClose() {
	s.retire.Store(true)
	s.release()
}
