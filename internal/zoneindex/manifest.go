package zoneindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// manifestSchemaVersion is bumped whenever the sidecar manifest's shape
// changes incompatibly. Opening a directory with a newer/unknown version
// is refused.
const manifestSchemaVersion = 1

// manifest is the durable record of the logical index state: it is the
// single source of truth for "documents exist" bookkeeping that sits
// alongside scorch's own segment files, written and fsynced after every
// commit.
type manifest struct {
	SchemaVersion int       `json:"schema_version"`
	DocumentCount int64     `json:"document_count"`
	CommitCount   int64     `json:"commit_count"`
	LastCommitAt  time.Time `json:"last_commit_at"`
}

func manifestPath(dir string) string {
	return filepath.Join(dir, "manifest.json")
}

// readManifest loads the manifest if present. A missing manifest is not
// an error (fresh/empty index directory); one that cannot be parsed is
// reported as ErrCorruptSegment, any other read failure is returned
// wrapped, and a schema version newer than this build's is
// ErrUnrecognizedManifest.
func readManifest(dir string) (manifest, bool, error) {
	data, err := os.ReadFile(manifestPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return manifest{}, false, nil
		}
		return manifest{}, false, fmt.Errorf("zoneindex: read manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return manifest{}, false, fmt.Errorf("%w: %v", ErrCorruptSegment, err)
	}
	if m.SchemaVersion > manifestSchemaVersion {
		return manifest{}, false, ErrUnrecognizedManifest
	}
	return m, true, nil
}

// writeManifest durably persists m: write to a temp file, fsync it, then
// rename over the existing manifest and fsync the directory entry so the
// publish is atomic and survives power loss.
func writeManifest(dir string, m manifest) error {
	m.SchemaVersion = manifestSchemaVersion

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("zoneindex: marshal manifest: %w", err)
	}

	tmp := manifestPath(dir) + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("zoneindex: create manifest tmp: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("zoneindex: write manifest tmp: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("zoneindex: fsync manifest tmp: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("zoneindex: close manifest tmp: %w", err)
	}

	if err := os.Rename(tmp, manifestPath(dir)); err != nil {
		return fmt.Errorf("zoneindex: publish manifest: %w", err)
	}

	if dirf, err := os.Open(dir); err == nil {
		_ = dirf.Sync()
		_ = dirf.Close()
	}

	return nil
}
