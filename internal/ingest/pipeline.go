// Package ingest wires label normalization (label.Normalize), word
// segmentation (segmenter.Client) and the index writer/delta applier
// (zoneindex.Writer) into the streaming build and daily-apply
// data flows: zonefile lines are normalized, batched through the
// segmenter, and written to the index under backpressure from the
// writer's RAM budget.
package ingest

import (
	"bufio"
	"context"
	"fmt"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/domain"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/label"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/segmenter"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/zoneindex"
)

// Stats accumulates the counters a build/apply run reports.
type Stats struct {
	LinesRead        int64
	Rejected         int64
	DocumentsWritten int64
}

// batcher accumulates normalized records up to size, resolving their
// tokens through seg in one call per batch so the segmenter's batching/retry/cache
// contract is exercised exactly once per chunk rather than
// once per line.
type batcher struct {
	size    int
	records []domain.Document
	seg     *segmenter.Client
	flush   func(domain.Document) error
}

func newBatcher(size int, seg *segmenter.Client, flush func(domain.Document) error) *batcher {
	return &batcher{size: size, seg: seg, flush: flush, records: make([]domain.Document, 0, size)}
}

func (b *batcher) add(ctx context.Context, rec domain.Document) error {
	b.records = append(b.records, rec)
	if len(b.records) >= b.size {
		return b.drain(ctx)
	}
	return nil
}

func (b *batcher) drain(ctx context.Context) error {
	if len(b.records) == 0 {
		return nil
	}
	labels := make([]string, len(b.records))
	for i, r := range b.records {
		labels[i] = r.Label
	}

	tokenLists := b.seg.Segment(ctx, labels)
	for i := range b.records {
		toks := tokenLists[i]
		if len(toks) == 0 {
			toks = []string{b.records[i].Label} // segmenter returned nothing usable, fall back to the whole label
		}
		b.records[i].Tokens = toks
		if err := b.flush(b.records[i]); err != nil {
			return err
		}
	}
	b.records = b.records[:0]
	return nil
}

// FullBuild streams every line of src through label normalization,
// batches through the segmenter,
// and writes to w, committing once at end-of-stream. Malformed lines are counted and skipped, never fatal.
func FullBuild(ctx context.Context, src *bufio.Scanner, seg *segmenter.Client, w *zoneindex.Writer, batchSize int) (Stats, error) {
	var stats Stats

	b := newBatcher(batchSize, seg, func(doc domain.Document) error {
		stats.DocumentsWritten++
		return w.AddDocument(doc)
	})

	for src.Scan() {
		stats.LinesRead++
		doc, err := label.Normalize(src.Text())
		if err != nil {
			stats.Rejected++
			continue
		}
		if err := b.add(ctx, doc); err != nil {
			return stats, fmt.Errorf("ingest: full build: %w", err)
		}
	}
	if err := src.Err(); err != nil {
		return stats, fmt.Errorf("ingest: read source: %w", err)
	}
	if err := b.drain(ctx); err != nil {
		return stats, fmt.Errorf("ingest: full build: %w", err)
	}
	if err := w.Commit(); err != nil {
		return stats, fmt.Errorf("ingest: commit: %w", err)
	}
	return stats, nil
}

// ApplyDaily streams additions and deletions through label
// normalization (additions also through the segmenter), then applies
// the whole delta and commits once. The
// delete-before-add ordering within ApplyDelta makes reapplying the
// same delta a no-op, and resolves add/delete conflicts within one
// delta by deletion winning.
func ApplyDaily(ctx context.Context, additions, deletions *bufio.Scanner, seg *segmenter.Client, w *zoneindex.Writer, batchSize int) (Stats, error) {
	var stats Stats
	var delta zoneindex.Delta

	b := newBatcher(batchSize, seg, func(doc domain.Document) error {
		stats.DocumentsWritten++
		delta.Additions = append(delta.Additions, doc)
		return nil
	})

	for additions.Scan() {
		stats.LinesRead++
		doc, err := label.Normalize(additions.Text())
		if err != nil {
			stats.Rejected++
			continue
		}
		if err := b.add(ctx, doc); err != nil {
			return stats, fmt.Errorf("ingest: daily apply: %w", err)
		}
	}
	if err := additions.Err(); err != nil {
		return stats, fmt.Errorf("ingest: read additions: %w", err)
	}
	if err := b.drain(ctx); err != nil {
		return stats, fmt.Errorf("ingest: daily apply: %w", err)
	}

	for deletions.Scan() {
		stats.LinesRead++
		doc, err := label.Normalize(deletions.Text())
		if err != nil {
			stats.Rejected++
			continue
		}
		delta.Deletions = append(delta.Deletions, doc.Domain)
	}
	if err := deletions.Err(); err != nil {
		return stats, fmt.Errorf("ingest: read deletions: %w", err)
	}

	if err := zoneindex.ApplyDelta(w, delta); err != nil {
		return stats, fmt.Errorf("ingest: apply delta: %w", err)
	}
	if err := w.Commit(); err != nil {
		return stats, fmt.Errorf("ingest: commit: %w", err)
	}
	return stats, nil
}
