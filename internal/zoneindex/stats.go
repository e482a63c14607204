package zoneindex

import (
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
)

// IndexStats is the snapshot reported by the `/stats` HTTP endpoint and
// the `stats` CLI command: document count, segment count
// and on-disk size, read directly off the live index rather than the
// BuildStats counters (which only cover the current process's writes).
type IndexStats struct {
	Documents      uint64                 `json:"documents"`
	Segments       int64                  `json:"segments"`
	IndexSizeBytes int64                  `json:"index_size_bytes"`
	Raw            map[string]interface{} `json:"-"`
}

// ReadStats computes IndexStats for the index already open as idx,
// rooted at dir on disk.
func ReadStats(dir string, idx bleve.Index) (IndexStats, error) {
	var s IndexStats

	docCount, err := idx.DocCount()
	if err != nil {
		return s, err
	}
	s.Documents = docCount

	raw, ok := idx.StatsMap()["index"].(map[string]interface{})
	if ok {
		s.Raw = raw
		if n, ok := raw["num_files_on_disk"]; ok {
			s.Segments = toInt64(n)
		}
	}

	size, err := dirSize(dir)
	if err != nil {
		return s, err
	}
	s.IndexSizeBytes = size

	return s, nil
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
