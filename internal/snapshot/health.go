package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Health aggregates diagnostic information about a snapshot file.
type Health struct {
	Path            string
	SnapshotExists  bool
	Readable        bool
	SchemaVersion   int
	MissingTables   []string
	VocabularyWords int
	MappingEntries  int
	DistinctWords   int
	IntegrityCheck  bool
	Error           string
}

// CheckHealth inspects the snapshot at path without fully loading it. A
// missing file is reported through the Health fields rather than an error.
func CheckHealth(ctx context.Context, path string) (Health, error) {
	health := Health{Path: path}

	if path == "" {
		return health, errors.New("snapshot path is unknown")
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat snapshot: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("snapshot path %q is a directory", path)
	}
	health.SnapshotExists = true

	db, err := openDatabase(path)
	if err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("open snapshot: %w", err)
	}
	defer db.Close()

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping snapshot database: %w", err)
	}
	health.Readable = true

	present, err := tableNames(connCtx, db)
	if err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("list tables: %w", err)
	}
	for _, name := range requiredTables {
		if _, ok := present[name]; !ok {
			health.MissingTables = append(health.MissingTables, name)
		}
	}

	if _, ok := present["schema_version"]; ok {
		if err := db.QueryRowContext(connCtx, "SELECT version FROM schema_version LIMIT 1").Scan(&health.SchemaVersion); err != nil && !errors.Is(err, sql.ErrNoRows) {
			health.Error = err.Error()
			return health, fmt.Errorf("read schema version: %w", err)
		}
	} else {
		health.MissingTables = append(health.MissingTables, "schema_version")
	}

	counts := []struct {
		table  string
		target *int
	}{
		{"vocabulary", &health.VocabularyWords},
		{"word_codes", &health.MappingEntries},
		{"frequency", &health.DistinctWords},
	}
	for _, c := range counts {
		if _, ok := present[c.table]; !ok {
			continue
		}
		if err := db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM "+c.table).Scan(c.target); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count %s: %w", c.table, err)
		}
	}

	var integrityResult string
	if err := db.QueryRowContext(connCtx, "PRAGMA integrity_check").Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}
