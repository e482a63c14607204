package zoneindex

import "errors"

// ErrLockHeld is returned by Open when another process already
// holds the index directory's write lock.
var ErrLockHeld = errors.New("zoneindex: index directory is locked by another writer")

// ErrCorruptSegment is returned when opening an index whose on-disk
// segments or manifest cannot be trusted).
var ErrCorruptSegment = errors.New("zoneindex: corrupt segment on open")

// ErrUnrecognizedManifest is returned when the manifest's schema version
// is not one this build understands.
var ErrUnrecognizedManifest = errors.New("zoneindex: unrecognized manifest version")
