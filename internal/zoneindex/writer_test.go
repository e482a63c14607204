package zoneindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/domain"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T, domainName, label, tld string, tokens []string) domain.Document {
	t.Helper()
	return domain.Document{
		Domain: domainName,
		Label:  label,
		TLD:    tld,
		Tokens: tokens,
		Length: len([]rune(label)),
	}
}

func TestWriterAddAndCommit(t *testing.T) {
	dir := t.TempDir()

	w, err := Open(dir)
	require.NoError(t, err)

	doc := newDoc(t, "example.com", "example", "com", []string{"example"})
	require.NoError(t, w.AddDocument(doc))
	require.NoError(t, w.Commit())

	stats := w.Stats()
	require.EqualValues(t, 1, stats.DocumentsIndexed)
	require.EqualValues(t, 1, stats.Commits)

	require.NoError(t, w.Close())

	idx, err := OpenReadOnly(dir)
	require.NoError(t, err)
	defer idx.Close()

	count, err := idx.DocCount()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestWriterLockHeld(t *testing.T) {
	dir := t.TempDir()

	w1, err := Open(dir)
	require.NoError(t, err)
	defer w1.Close()

	_, err = Open(dir)
	require.ErrorIs(t, err, ErrLockHeld)
}

func TestWriterDeleteDomain(t *testing.T) {
	dir := t.TempDir()

	w, err := Open(dir)
	require.NoError(t, err)

	doc := newDoc(t, "delete-me.net", "delete-me", "net", []string{"delete", "me"})
	require.NoError(t, w.AddDocument(doc))
	require.NoError(t, w.Commit())

	w.DeleteDomain("delete-me.net")
	require.NoError(t, w.Commit())

	count, err := w.Index().DocCount()
	require.NoError(t, err)
	require.EqualValues(t, 0, count)

	require.NoError(t, w.Close())
}

func TestWriterBudgetTriggersFlush(t *testing.T) {
	dir := t.TempDir()

	w, err := Open(dir, WithHeapBytes(1))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.AddDocument(newDoc(t, "a.io", "a", "io", []string{"a"})))
	require.GreaterOrEqual(t, w.Stats().SegmentFlushes, int64(1))
}

func TestWriterOptimize(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.AddDocument(newDoc(t, "optimize-me.org", "optimize-me", "org", []string{"optimize", "me"})))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = w.Optimize(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadStats(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.AddDocument(newDoc(t, "stats.dev", "stats", "dev", []string{"stats"})))
	require.NoError(t, w.Commit())

	s, err := ReadStats(dir, w.Index())
	require.NoError(t, err)
	require.EqualValues(t, 1, s.Documents)
	require.Greater(t, s.IndexSizeBytes, int64(0))

	require.FileExists(t, filepath.Join(dir, "manifest.json"))
}
