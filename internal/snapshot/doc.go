// Package snapshot persists frozen word mappings as single SQLite files.
//
// A snapshot carries five pieces of derived state: the full corpus frequency
// table, the ranked vocabulary words, their aligned counts, and the mapping
// in both directions. Provenance (id, creation time, seed, assignment
// strategy) rides along in a key/value meta table.
//
// Writes are torn-write safe: the database is built under a temporary name
// and renamed over the target while holding a sibling lock file, so
// concurrent writers to one path serialize and readers never see partial
// state. Reads validate structure before returning; anything suspect is
// reported as ErrCorrupt and never silently repaired.
package snapshot
