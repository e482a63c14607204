package zoneindex

import "github.com/go-mizu/mizu/blueprints/zonesearch/internal/domain"

// Delta is one daily update unit: a set of domains to add or
// refresh, and a set of domains to remove, applied together as one
// logical unit of work followed by a single Commit.
type Delta struct {
	Additions []domain.Document
	Deletions []string
}

// ApplyDelta stages every addition and deletion onto w without
// committing. Additions are staged first, each as a delete-then-index
// pair so that re-adding an already-present domain replaces rather than
// duplicates it; deletions are staged last so that a
// domain present in both Additions and Deletions of the same delta ends
// up deleted — bleve's batch keys operations by document id, so the
// later Delete call for that id wins over the earlier Index call.
//
// The caller is responsible for calling Writer.Commit once every delta
// batch has been staged so the whole delta is published atomically.
func ApplyDelta(w *Writer, d Delta) error {
	for _, doc := range d.Additions {
		w.DeleteDomain(doc.Domain)
		if err := w.AddDocument(doc); err != nil {
			return err
		}
	}
	for _, name := range d.Deletions {
		w.DeleteDomain(name)
	}
	return nil
}
