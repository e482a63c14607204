package zoneindex

import "github.com/go-mizu/mizu/blueprints/zonesearch/internal/domain"

// DefaultHeapBytes is the writer's default RAM budget H.
const DefaultHeapBytes int64 = 4 << 30

// perDocOverhead approximates the fixed bookkeeping cost bleve's in-memory
// batch carries per document (postings lists, doc values, field caches)
// on top of the raw bytes stored. It is a constant estimate, not a
// measurement — good enough to trigger segment flushes at a predictable
// cadence without instrumenting bleve's internals.
const perDocOverhead = 256

// estimateDocBytes approximates the RAM a document consumes in the
// writer's in-memory segment, used to decide when the accumulated batch
// has crossed the RAM budget H and must be flushed to disk as a new
// immutable segment.
func estimateDocBytes(doc domain.Document) int64 {
	n := int64(len(doc.Domain) + len(doc.Label) + len(doc.TLD))
	for _, t := range doc.Tokens {
		n += int64(len(t)) + 8 // + per-token posting overhead
	}
	return n + perDocOverhead
}

// budgetTracker accumulates estimated bytes across documents added to the
// writer's current in-memory batch and reports when the configured heap
// budget has been crossed.
type budgetTracker struct {
	limit int64
	used  int64
}

func newBudgetTracker(limit int64) *budgetTracker {
	if limit <= 0 {
		limit = DefaultHeapBytes
	}
	return &budgetTracker{limit: limit}
}

func (b *budgetTracker) add(n int64) {
	b.used += n
}

func (b *budgetTracker) exceeded() bool {
	return b.used >= b.limit
}

func (b *budgetTracker) reset() {
	b.used = 0
}
