package testsupport

import (
	"context"
	"testing"

	"wordcode/internal/codebook"
	"wordcode/internal/config"
	"wordcode/internal/corpus"
)

// MustBuild constructs a Substitution from the config's corpus settings.
func MustBuild(t testing.TB, cfg *config.Config) *codebook.Substitution {
	t.Helper()

	if cfg.Paths.Corpus == "" {
		t.Fatal("config has no corpus path; use WithCorpus")
	}
	cipher, err := codebook.New(context.Background(), codebook.Options{
		Source:     corpus.NewFile(cfg.Paths.Corpus),
		MaxVocab:   cfg.Vocabulary.MaxSize,
		Seed:       cfg.Codes.Seed,
		CodeLength: cfg.Codes.Length,
		Strategy:   codebook.Assignment(cfg.Codes.Assignment),
	})
	if err != nil {
		t.Fatalf("codebook.New: %v", err)
	}
	return cipher
}

// MustSnapshot builds a Substitution from the config's corpus and saves it to
// the config's snapshot path, returning that path.
func MustSnapshot(t testing.TB, cfg *config.Config) string {
	t.Helper()

	cipher := MustBuild(t, cfg)
	if err := cipher.Save(context.Background(), cfg.Paths.Snapshot); err != nil {
		t.Fatalf("cipher.Save: %v", err)
	}
	return cfg.Paths.Snapshot
}
