package testsupport

import (
	"path/filepath"
	"testing"

	"wordcode/internal/config"
)

// testConfig is the mutable state options act on before NewConfig returns
// the finished config.
type testConfig struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// ConfigOption customizes the config produced by NewConfig.
type ConfigOption func(*testConfig)

// NewConfig returns a config whose snapshot and log paths live in a fresh
// temp directory per test, with any options applied on top.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	tc := testConfig{t: t, baseDir: t.TempDir(), cfg: &cfg}
	tc.cfg.Paths.Snapshot = filepath.Join(tc.baseDir, "snapshot.db")
	tc.cfg.Paths.LogDir = filepath.Join(tc.baseDir, "logs")

	for _, opt := range opts {
		opt(&tc)
	}
	return tc.cfg
}

// WithCorpus points the config at an existing corpus file.
func WithCorpus(path string) ConfigOption {
	return func(tc *testConfig) {
		tc.cfg.Paths.Corpus = path
	}
}

// WithInlineCorpus writes lines as a corpus file under the config's temp
// directory and points the config at it.
func WithInlineCorpus(lines ...string) ConfigOption {
	return func(tc *testConfig) {
		path := filepath.Join(tc.baseDir, "corpus.txt")
		tc.cfg.Paths.Corpus = WriteCorpus(tc.t, path, lines...)
	}
}

// WithMaxVocab overrides the vocabulary size cap on the test config.
func WithMaxVocab(size int) ConfigOption {
	return func(tc *testConfig) {
		tc.cfg.Vocabulary.MaxSize = size
	}
}

// WithSeed overrides the assignment seed on the test config.
func WithSeed(seed int64) ConfigOption {
	return func(tc *testConfig) {
		tc.cfg.Codes.Seed = seed
	}
}

// WithAssignment overrides the assignment strategy on the test config.
func WithAssignment(strategy string) ConfigOption {
	return func(tc *testConfig) {
		tc.cfg.Codes.Assignment = strategy
	}
}

// WithCodeLength overrides the generated code length on the test config.
func WithCodeLength(length int) ConfigOption {
	return func(tc *testConfig) {
		tc.cfg.Codes.Length = length
	}
}
