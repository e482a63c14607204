// Package config reads the process environment into one typed Config,
// the same direct os.Getenv-with-defaults style the cms and drive
// blueprints use for their Config structs — no config framework.
package config

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultIndexPath       = "./data/index"
	defaultAPIPort         = 3000
	defaultHeapSize        = 4 << 30 // 4 GiB
	defaultWordBatchSize   = 500
	defaultReaderRefreshMS = 10000
)

// Config is every environment-sourced setting the repo's binaries need.
type Config struct {
	IndexPath string
	APIPort   int

	IndexHeapSize  int64
	WordBatchSize  int

	WordSplitterURL  string
	WordSplitterUser string
	WordSplitterPass string

	ZonefileToken  string
	ZonefileAPIURL string

	CacheURL string

	ReaderRefresh time.Duration
}

// Load reads Config from the process environment, applying defaults for
// anything unset or unparseable. It never fails: values without a
// default are left empty, and nothing checks that the ones the
// build/daily commands use (the zonefile source, the splitter URL) are
// set. An empty WORD_SPLITTER_URL makes every segmenter batch fail and
// fall back to single-label tokens.
func Load() Config {
	return Config{
		IndexPath: getString("INDEX_PATH", defaultIndexPath),
		APIPort:   getInt("API_PORT", defaultAPIPort),

		IndexHeapSize: getInt64("INDEX_HEAP_SIZE", defaultHeapSize),
		WordBatchSize: getInt("WORD_BATCH_SIZE", defaultWordBatchSize),

		WordSplitterURL:  os.Getenv("WORD_SPLITTER_URL"),
		WordSplitterUser: os.Getenv("WORD_SPLITTER_USER"),
		WordSplitterPass: os.Getenv("WORD_SPLITTER_PASS"),

		ZonefileToken:  os.Getenv("ZONEFILE_TOKEN"),
		ZonefileAPIURL: os.Getenv("ZONEFILE_API_URL"),

		CacheURL: os.Getenv("CACHE_URL"),

		ReaderRefresh: time.Duration(getInt64("READER_REFRESH_MS", defaultReaderRefreshMS)) * time.Millisecond,
	}
}

func getString(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func getInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getInt64(name string, def int64) int64 {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
