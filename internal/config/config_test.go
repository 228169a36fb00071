package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wordcode/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantSnapshot := filepath.Join(tempHome, ".local", "share", "wordcode", "snapshot.db")
	if cfg.Paths.Snapshot != wantSnapshot {
		t.Fatalf("unexpected snapshot path: got %q want %q", cfg.Paths.Snapshot, wantSnapshot)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, ".local", "share", "wordcode", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Paths.Corpus != "" {
		t.Fatalf("expected no default corpus, got %q", cfg.Paths.Corpus)
	}
	if cfg.Vocabulary.MaxSize != 1000 {
		t.Fatalf("unexpected vocabulary.max_size: %d", cfg.Vocabulary.MaxSize)
	}
	if cfg.Codes.Seed != 42 {
		t.Fatalf("unexpected codes.seed: %d", cfg.Codes.Seed)
	}
	if cfg.Codes.Length != 8 {
		t.Fatalf("unexpected codes.length: %d", cfg.Codes.Length)
	}
	if cfg.Codes.Assignment != "permutation" {
		t.Fatalf("unexpected codes.assignment: %q", cfg.Codes.Assignment)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config.toml")
	content := `
[paths]
corpus = "~/corpora/alice.txt"
snapshot = "~/data/words.db"

[vocabulary]
max_size = 250

[codes]
seed = 7
length = 5
assignment = "generated"

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.Corpus != filepath.Join(tempHome, "corpora", "alice.txt") {
		t.Fatalf("corpus not expanded: %q", cfg.Paths.Corpus)
	}
	if cfg.Paths.Snapshot != filepath.Join(tempHome, "data", "words.db") {
		t.Fatalf("snapshot not expanded: %q", cfg.Paths.Snapshot)
	}
	if cfg.Vocabulary.MaxSize != 250 {
		t.Fatalf("unexpected max_size: %d", cfg.Vocabulary.MaxSize)
	}
	if cfg.Codes.Seed != 7 || cfg.Codes.Length != 5 || cfg.Codes.Assignment != "generated" {
		t.Fatalf("unexpected codes section: %+v", cfg.Codes)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging section: %+v", cfg.Logging)
	}
}

func TestLoadNormalizesValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config.toml")
	content := `
[vocabulary]
max_size = -5

[codes]
seed = 0
length = 0
assignment = "  Generated "

[logging]
level = "DEBUG"
format = "unknown"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Vocabulary.MaxSize != 1000 {
		t.Fatalf("max_size not defaulted: %d", cfg.Vocabulary.MaxSize)
	}
	if cfg.Codes.Seed != 42 {
		t.Fatalf("zero seed not defaulted: %d", cfg.Codes.Seed)
	}
	if cfg.Codes.Length != 8 {
		t.Fatalf("zero length not defaulted: %d", cfg.Codes.Length)
	}
	if cfg.Codes.Assignment != "generated" {
		t.Fatalf("assignment not normalized: %q", cfg.Codes.Assignment)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level not lowercased: %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unknown format should fall back to console: %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsUnknownAssignment(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(path, []byte("[codes]\nassignment = \"rot13\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "codes.assignment") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(path, []byte("[paths\nsnapshot ="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "nope", "config.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected missing config to report exists=false")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Vocabulary.MaxSize != 1000 {
		t.Fatalf("expected defaults, got max_size %d", cfg.Vocabulary.MaxSize)
	}
}

func TestCreateSampleWritesLoadableConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, ".config", "wordcode", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, section := range []string{"[paths]", "[vocabulary]", "[codes]", "[logging]"} {
		if !strings.Contains(string(content), section) {
			t.Fatalf("sample missing %s section", section)
		}
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Codes.Assignment != "permutation" {
		t.Fatalf("unexpected assignment in sample: %q", cfg.Codes.Assignment)
	}
}

func TestEnsureDirectories(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}

	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Paths.Snapshot)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected directory at %s", dir)
		}
	}
}
