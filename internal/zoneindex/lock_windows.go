//go:build windows

package zoneindex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// dirLock is a best-effort exclusive lock on a LOCK file inside the
// index directory. Windows lacks flock, so exclusive file creation via
// os.O_EXCL stands in: a second Open call racing the first against the
// same LOCK file observes os.ErrExist and is turned into ErrLockHeld.
type dirLock struct {
	path string
}

func acquireLock(dir string) (*dirLock, error) {
	path := filepath.Join(dir, "LOCK")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrLockHeld
		}
		return nil, fmt.Errorf("zoneindex: create lock file: %w", err)
	}
	_, _ = f.WriteString(fmt.Sprintf("%d\n", os.Getpid()))
	f.Close()
	return &dirLock{path: path}, nil
}

func (l *dirLock) release() error {
	if l == nil {
		return nil
	}
	return os.Remove(l.path)
}
