package snapshot

import "errors"

var (
	// ErrNotFound marks load attempts against a snapshot path that does not exist.
	ErrNotFound = errors.New("snapshot not found")
	// ErrCorrupt marks snapshots whose structure cannot be trusted: missing
	// tables or meta keys, misaligned vocabulary columns, or mapping
	// directions that are not mutual inverses.
	ErrCorrupt = errors.New("snapshot corrupt")
)
