package zoneindex

import (
	"testing"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestApplyDeltaAddAndDelete(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir)
	require.NoError(t, err)
	defer w.Close()

	d := Delta{
		Additions: []domain.Document{
			newDoc(t, "add-one.com", "add-one", "com", []string{"add", "one"}),
			newDoc(t, "add-two.com", "add-two", "com", []string{"add", "two"}),
		},
	}
	require.NoError(t, ApplyDelta(w, d))
	require.NoError(t, w.Commit())

	count, err := w.Index().DocCount()
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	d2 := Delta{Deletions: []string{"add-one.com"}}
	require.NoError(t, ApplyDelta(w, d2))
	require.NoError(t, w.Commit())

	count, err = w.Index().DocCount()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

// TestApplyDeltaDeletionWinsOnConflict: a domain present in both a
// delta's additions and its deletions must end up deleted, never
// re-added.
func TestApplyDeltaDeletionWinsOnConflict(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir)
	require.NoError(t, err)
	defer w.Close()

	d := Delta{
		Additions: []domain.Document{
			newDoc(t, "conflict.io", "conflict", "io", []string{"conflict"}),
		},
		Deletions: []string{"conflict.io"},
	}
	require.NoError(t, ApplyDelta(w, d))
	require.NoError(t, w.Commit())

	count, err := w.Index().DocCount()
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

// TestApplyDeltaIdempotent: applying the same addition delta twice
// must not duplicate the domain.
func TestApplyDeltaIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir)
	require.NoError(t, err)
	defer w.Close()

	d := Delta{
		Additions: []domain.Document{
			newDoc(t, "idempotent.net", "idempotent", "net", []string{"idempotent"}),
		},
	}
	require.NoError(t, ApplyDelta(w, d))
	require.NoError(t, w.Commit())
	require.NoError(t, ApplyDelta(w, d))
	require.NoError(t, w.Commit())

	count, err := w.Index().DocCount()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}
