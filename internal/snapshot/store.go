package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SchemaVersion is the current snapshot layout version. Snapshots written
// with a different version are rejected on load; rebuild from the corpus.
const SchemaVersion = 1

const (
	lockSuffix = ".lock"
	tmpSuffix  = ".tmp"
)

const (
	metaKeyID           = "id"
	metaKeyCreatedAt    = "created_at"
	metaKeySeed         = "seed"
	metaKeyCodeLength   = "code_length"
	metaKeyAssignment   = "assignment"
	metaKeyCorpusSource = "corpus_source"
	metaKeyCorpusLines  = "corpus_lines"
	metaKeyCorpusTokens = "corpus_tokens"
)

var requiredTables = []string{"snapshot_meta", "frequency", "vocabulary", "word_codes", "code_words"}

// Write persists state to path as a single SQLite file. Writers targeting the
// same path are serialized through a sibling lock file, and the database is
// assembled under a temporary name and renamed into place so readers never
// observe a half-written snapshot.
func Write(ctx context.Context, path string, state State) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("snapshot state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory %q: %w", dir, err)
	}

	lock := flock.New(path + lockSuffix)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock snapshot %s: %w", path, err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	tmp := path + tmpSuffix
	removeArtifacts(tmp)

	if err := writeDatabase(ctx, tmp, state); err != nil {
		removeArtifacts(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		removeArtifacts(tmp)
		return fmt.Errorf("replace snapshot %s: %w", path, err)
	}
	return nil
}

// Read loads and validates the snapshot at path. A missing file reports
// ErrNotFound; anything structurally wrong reports ErrCorrupt.
func Read(ctx context.Context, path string) (State, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return State{}, fmt.Errorf("stat snapshot: %w", err)
	}

	// Probe with a plain open so permission problems surface as I/O errors
	// rather than as corruption.
	probe, err := os.Open(path)
	if err != nil {
		return State{}, fmt.Errorf("open snapshot: %w", err)
	}
	probe.Close()

	db, err := openDatabase(path)
	if err != nil {
		return State{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}
	defer db.Close()

	if err := checkSchemaVersion(ctx, db); err != nil {
		return State{}, err
	}
	if err := checkTables(ctx, db); err != nil {
		return State{}, err
	}

	state, err := loadState(ctx, db)
	if err != nil {
		return State{}, err
	}
	if err := state.Validate(); err != nil {
		return State{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}
	return state, nil
}

func openDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, nil
}

func writeDatabase(ctx context.Context, path string, state State) (err error) {
	db, err := openDatabase(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close snapshot database: %w", closeErr)
		}
	}()

	if err := createSchema(ctx, db); err != nil {
		return err
	}
	return insertState(ctx, db, state)
}

func createSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create snapshot schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

func insertState(ctx context.Context, db *sql.DB, state State) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entries := []struct {
		key   string
		value string
	}{
		{metaKeyID, state.Meta.ID},
		{metaKeyCreatedAt, state.Meta.CreatedAt.UTC().Format(time.RFC3339Nano)},
		{metaKeySeed, strconv.FormatInt(state.Meta.Seed, 10)},
		{metaKeyCodeLength, strconv.Itoa(state.Meta.CodeLength)},
		{metaKeyAssignment, state.Meta.Assignment},
		{metaKeyCorpusSource, state.Meta.CorpusSource},
		{metaKeyCorpusLines, strconv.Itoa(state.Meta.CorpusLines)},
		{metaKeyCorpusTokens, strconv.Itoa(state.Meta.CorpusTokens)},
	}
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot_meta (key, value) VALUES (?, ?)`, entry.key, entry.value); err != nil {
			return fmt.Errorf("insert meta %q: %w", entry.key, err)
		}
	}

	freqStmt, err := tx.PrepareContext(ctx, `INSERT INTO frequency (word, count) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare frequency insert: %w", err)
	}
	defer freqStmt.Close()
	for word, count := range state.Frequency {
		if _, err := freqStmt.ExecContext(ctx, word, count); err != nil {
			return fmt.Errorf("insert frequency %q: %w", word, err)
		}
	}

	vocabStmt, err := tx.PrepareContext(ctx, `INSERT INTO vocabulary (rank, word, count) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare vocabulary insert: %w", err)
	}
	defer vocabStmt.Close()
	for i, word := range state.Words {
		if _, err := vocabStmt.ExecContext(ctx, i, word, state.Counts[i]); err != nil {
			return fmt.Errorf("insert vocabulary rank %d: %w", i, err)
		}
	}

	wordStmt, err := tx.PrepareContext(ctx, `INSERT INTO word_codes (word, code) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare word_codes insert: %w", err)
	}
	defer wordStmt.Close()
	for word, code := range state.WordToCode {
		if _, err := wordStmt.ExecContext(ctx, word, code); err != nil {
			return fmt.Errorf("insert word code %q: %w", word, err)
		}
	}

	codeStmt, err := tx.PrepareContext(ctx, `INSERT INTO code_words (code, word) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare code_words insert: %w", err)
	}
	defer codeStmt.Close()
	for code, word := range state.CodeToWord {
		if _, err := codeStmt.ExecContext(ctx, code, word); err != nil {
			return fmt.Errorf("insert code word %q: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx context.Context, db *sql.DB) error {
	var tableExists int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("%w: check schema_version table: %w", ErrCorrupt, err)
	}
	if tableExists == 0 {
		return fmt.Errorf("%w: schema_version table missing", ErrCorrupt)
	}

	var version int
	if err := db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("%w: read schema version: %w", ErrCorrupt, err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("%w: snapshot has schema version %d, expected %d (rebuild with 'wordcode build')",
			ErrCorrupt, version, SchemaVersion)
	}
	return nil
}

func checkTables(ctx context.Context, db *sql.DB) error {
	present, err := tableNames(ctx, db)
	if err != nil {
		return fmt.Errorf("%w: list tables: %w", ErrCorrupt, err)
	}
	for _, name := range requiredTables {
		if _, ok := present[name]; !ok {
			return fmt.Errorf("%w: missing table %q", ErrCorrupt, name)
		}
	}
	return nil
}

func tableNames(ctx context.Context, db *sql.DB) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names[name] = struct{}{}
	}
	return names, rows.Err()
}

func loadState(ctx context.Context, db *sql.DB) (State, error) {
	meta, err := loadMeta(ctx, db)
	if err != nil {
		return State{}, err
	}

	frequency, err := loadPairsInt(ctx, db, `SELECT word, count FROM frequency`)
	if err != nil {
		return State{}, fmt.Errorf("%w: load frequency: %w", ErrCorrupt, err)
	}

	words, counts, err := loadVocabulary(ctx, db)
	if err != nil {
		return State{}, err
	}

	wordToCode, err := loadPairs(ctx, db, `SELECT word, code FROM word_codes`)
	if err != nil {
		return State{}, fmt.Errorf("%w: load word codes: %w", ErrCorrupt, err)
	}
	codeToWord, err := loadPairs(ctx, db, `SELECT code, word FROM code_words`)
	if err != nil {
		return State{}, fmt.Errorf("%w: load code words: %w", ErrCorrupt, err)
	}

	return State{
		Meta:       meta,
		Frequency:  frequency,
		Words:      words,
		Counts:     counts,
		WordToCode: wordToCode,
		CodeToWord: codeToWord,
	}, nil
}

func loadMeta(ctx context.Context, db *sql.DB) (Meta, error) {
	values, err := loadPairs(ctx, db, `SELECT key, value FROM snapshot_meta`)
	if err != nil {
		return Meta{}, fmt.Errorf("%w: load meta: %w", ErrCorrupt, err)
	}

	for _, key := range []string{metaKeyID, metaKeyCreatedAt, metaKeySeed, metaKeyCodeLength, metaKeyAssignment} {
		if _, ok := values[key]; !ok {
			return Meta{}, fmt.Errorf("%w: missing meta key %q", ErrCorrupt, key)
		}
	}

	created, err := parseTimeString(values[metaKeyCreatedAt])
	if err != nil {
		return Meta{}, fmt.Errorf("%w: meta created_at %q: %w", ErrCorrupt, values[metaKeyCreatedAt], err)
	}
	seed, err := strconv.ParseInt(values[metaKeySeed], 10, 64)
	if err != nil {
		return Meta{}, fmt.Errorf("%w: meta seed %q: %w", ErrCorrupt, values[metaKeySeed], err)
	}
	codeLength, err := strconv.Atoi(values[metaKeyCodeLength])
	if err != nil {
		return Meta{}, fmt.Errorf("%w: meta code_length %q: %w", ErrCorrupt, values[metaKeyCodeLength], err)
	}

	meta := Meta{
		ID:           values[metaKeyID],
		CreatedAt:    created,
		Seed:         seed,
		CodeLength:   codeLength,
		Assignment:   values[metaKeyAssignment],
		CorpusSource: values[metaKeyCorpusSource],
	}
	// Corpus totals are informational; tolerate snapshots that omit them.
	if raw, ok := values[metaKeyCorpusLines]; ok {
		if meta.CorpusLines, err = strconv.Atoi(raw); err != nil {
			return Meta{}, fmt.Errorf("%w: meta corpus_lines %q: %w", ErrCorrupt, raw, err)
		}
	}
	if raw, ok := values[metaKeyCorpusTokens]; ok {
		if meta.CorpusTokens, err = strconv.Atoi(raw); err != nil {
			return Meta{}, fmt.Errorf("%w: meta corpus_tokens %q: %w", ErrCorrupt, raw, err)
		}
	}
	return meta, nil
}

func loadVocabulary(ctx context.Context, db *sql.DB) ([]string, []int, error) {
	rows, err := db.QueryContext(ctx, `SELECT rank, word, count FROM vocabulary ORDER BY rank`)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: load vocabulary: %w", ErrCorrupt, err)
	}
	defer rows.Close()

	var words []string
	var counts []int
	next := 0
	for rows.Next() {
		var rank, count int
		var word string
		if err := rows.Scan(&rank, &word, &count); err != nil {
			return nil, nil, fmt.Errorf("%w: scan vocabulary row: %w", ErrCorrupt, err)
		}
		if rank != next {
			return nil, nil, fmt.Errorf("%w: vocabulary ranks not contiguous: expected %d, found %d", ErrCorrupt, next, rank)
		}
		words = append(words, word)
		counts = append(counts, count)
		next++
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: iterate vocabulary: %w", ErrCorrupt, err)
	}
	return words, counts, nil
}

func loadPairs(ctx context.Context, db *sql.DB, query string) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		pairs[key] = value
	}
	return pairs, rows.Err()
}

func loadPairsInt(ctx context.Context, db *sql.DB, query string) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		pairs[key] = value
	}
	return pairs, rows.Err()
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func removeArtifacts(path string) {
	for _, name := range []string{path, path + "-wal", path + "-shm"} {
		_ = os.Remove(name)
	}
}
