package codebook_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"wordcode/internal/codebook"
	"wordcode/internal/corpus"
	"wordcode/internal/snapshot"
	"wordcode/internal/testsupport"
)

var demoCorpus = corpus.Lines{
	"I went to eat an apple",
	"to eat an apple is to live",
	"I went to the market to eat",
}

func buildDemo(t *testing.T, opts codebook.Options) *codebook.Substitution {
	t.Helper()
	if opts.Source == nil {
		opts.Source = demoCorpus
	}
	cipher, err := codebook.New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return cipher
}

func TestNewRequiresExactlyOneInput(t *testing.T) {
	ctx := context.Background()

	_, err := codebook.New(ctx, codebook.Options{})
	if !errors.Is(err, codebook.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration with no input, got %v", err)
	}

	_, err = codebook.New(ctx, codebook.Options{
		Source:       demoCorpus,
		SnapshotPath: filepath.Join(t.TempDir(), "snapshot.db"),
	})
	if !errors.Is(err, codebook.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration with both inputs, got %v", err)
	}
}

func TestMappingIsBijective(t *testing.T) {
	cipher := buildDemo(t, codebook.Options{})

	words := cipher.Vocabulary().Words
	if len(words) == 0 {
		t.Fatal("expected non-empty vocabulary")
	}
	seen := make(map[string]string, len(words))
	for _, word := range words {
		code, ok := cipher.CodeFor(word)
		if !ok {
			t.Fatalf("word %q has no code", word)
		}
		if prev, dup := seen[code]; dup {
			t.Fatalf("code %q assigned to both %q and %q", code, prev, word)
		}
		seen[code] = word

		back, ok := cipher.WordFor(code)
		if !ok || back != word {
			t.Fatalf("inverse lookup for %q: got %q, %v", code, back, ok)
		}
	}
}

func TestPermutationCodesAreVocabularyWords(t *testing.T) {
	cipher := buildDemo(t, codebook.Options{})

	members := make(map[string]struct{})
	for _, word := range cipher.Vocabulary().Words {
		members[word] = struct{}{}
	}
	for _, word := range cipher.Vocabulary().Words {
		code, _ := cipher.CodeFor(word)
		if _, ok := members[code]; !ok {
			t.Fatalf("code %q for word %q is not a vocabulary word", code, word)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cipher := buildDemo(t, codebook.Options{})

	plain := "I went to eat an apple"
	encoded, err := cipher.Encode(plain)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if encoded == "" {
		t.Fatal("expected non-empty encoding")
	}
	decoded, err := cipher.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded != plain {
		t.Fatalf("round trip mismatch: %q -> %q -> %q", plain, encoded, decoded)
	}
}

func TestEncodeDropsUnknownWords(t *testing.T) {
	cipher := buildDemo(t, codebook.Options{})

	withKnown, err := cipher.Encode("I went to eat an apple")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	withUnknown, err := cipher.Encode("I went to eat an apple elephant")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if withKnown != withUnknown {
		t.Fatalf("unknown word should be dropped: %q vs %q", withKnown, withUnknown)
	}

	tokens := strings.Fields(withUnknown)
	if len(tokens) != 6 {
		t.Fatalf("expected 6 codes, got %d (%q)", len(tokens), withUnknown)
	}
}

func TestEncodeEmptyInputs(t *testing.T) {
	cipher := buildDemo(t, codebook.Options{})

	for _, text := range []string{"", "   ", "\t\n"} {
		got, err := cipher.Encode(text)
		if err != nil {
			t.Fatalf("Encode(%q) failed: %v", text, err)
		}
		if got != "" {
			t.Fatalf("Encode(%q): expected empty output, got %q", text, got)
		}
	}

	got, err := cipher.Encode("elephant rhinoceros")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got != "" {
		t.Fatalf("all-unknown input should encode to empty string, got %q", got)
	}
}

func TestDecodeUnknownCodeFails(t *testing.T) {
	cipher := buildDemo(t, codebook.Options{})

	_, err := cipher.Decode("definitelynotacode")
	if !errors.Is(err, codebook.ErrUnknownCode) {
		t.Fatalf("expected ErrUnknownCode, got %v", err)
	}

	if got, err := cipher.Decode(""); err != nil || got != "" {
		t.Fatalf("decoding empty string: got %q, %v", got, err)
	}
}

func TestSameSeedSameMapping(t *testing.T) {
	first := buildDemo(t, codebook.Options{Seed: 42})
	second := buildDemo(t, codebook.Options{Seed: 42})
	defaulted := buildDemo(t, codebook.Options{})

	for _, word := range first.Vocabulary().Words {
		a, _ := first.CodeFor(word)
		b, _ := second.CodeFor(word)
		c, _ := defaulted.CodeFor(word)
		if a != b {
			t.Fatalf("same seed produced different codes for %q: %q vs %q", word, a, b)
		}
		if a != c {
			t.Fatalf("zero seed should default to 42: %q vs %q for %q", a, c, word)
		}
	}
}

func TestDifferentSeedDifferentMapping(t *testing.T) {
	lines := make(corpus.Lines, 0, 40)
	for i := 0; i < 40; i++ {
		word := fmt.Sprintf("word%02d", i)
		lines = append(lines, strings.Repeat(word+" ", 40-i))
	}

	first := buildDemo(t, codebook.Options{Source: lines, Seed: 42})
	second := buildDemo(t, codebook.Options{Source: lines, Seed: 1337})

	identical := true
	for _, word := range first.Vocabulary().Words {
		a, _ := first.CodeFor(word)
		b, _ := second.CodeFor(word)
		if a != b {
			identical = false
			break
		}
	}
	if identical {
		t.Fatal("expected different seeds to produce different permutations")
	}
}

func TestMaxVocabCapsMapping(t *testing.T) {
	lines := make(corpus.Lines, 0, 30)
	for i := 0; i < 30; i++ {
		word := fmt.Sprintf("w%02d", i)
		lines = append(lines, strings.Repeat(word+" ", 30-i))
	}

	cipher := buildDemo(t, codebook.Options{Source: lines, MaxVocab: 10})
	if cipher.Len() != 10 {
		t.Fatalf("expected 10 mapped words, got %d", cipher.Len())
	}
	if cipher.DistinctWords() != 30 {
		t.Fatalf("expected 30 distinct corpus words, got %d", cipher.DistinctWords())
	}

	if _, ok := cipher.CodeFor("w29"); ok {
		t.Fatal("rarest word should be outside the vocabulary")
	}
	encoded, err := cipher.Encode("w00 w29")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(strings.Fields(encoded)) != 1 {
		t.Fatalf("expected the out-of-vocabulary word dropped, got %q", encoded)
	}
}

func TestGeneratedCodes(t *testing.T) {
	cipher := buildDemo(t, codebook.Options{Strategy: codebook.AssignmentGenerated})

	seen := make(map[string]struct{})
	for _, word := range cipher.Vocabulary().Words {
		code, ok := cipher.CodeFor(word)
		if !ok {
			t.Fatalf("word %q has no code", word)
		}
		if len(code) != codebook.DefaultCodeLength {
			t.Fatalf("code %q: expected length %d", code, codebook.DefaultCodeLength)
		}
		for _, r := range code {
			if r < 'a' || r > 'z' {
				t.Fatalf("code %q contains %q outside a-z", code, r)
			}
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate generated code %q", code)
		}
		seen[code] = struct{}{}
	}

	plain := "I went to eat an apple"
	encoded, err := cipher.Encode(plain)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := cipher.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded != plain {
		t.Fatalf("generated round trip mismatch: %q -> %q -> %q", plain, encoded, decoded)
	}
}

func TestGeneratedCodesHonorLength(t *testing.T) {
	cipher := buildDemo(t, codebook.Options{Strategy: codebook.AssignmentGenerated, CodeLength: 3})
	for _, word := range cipher.Vocabulary().Words {
		code, _ := cipher.CodeFor(word)
		if len(code) != 3 {
			t.Fatalf("code %q: expected length 3", code)
		}
	}
}

func TestGeneratedCodesRejectTinyCodeSpace(t *testing.T) {
	lines := make(corpus.Lines, 0, 30)
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("unique%02d", i))
	}

	_, err := codebook.New(context.Background(), codebook.Options{
		Source:     lines,
		Strategy:   codebook.AssignmentGenerated,
		CodeLength: 1,
	})
	if !errors.Is(err, codebook.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for 1-letter codes over 30 words, got %v", err)
	}
}

func TestUnknownStrategyRejected(t *testing.T) {
	_, err := codebook.New(context.Background(), codebook.Options{
		Source:   demoCorpus,
		Strategy: codebook.Assignment("rot13"),
	})
	if !errors.Is(err, codebook.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestSaveAndReloadBehaveIdentically(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.db")

	built := buildDemo(t, codebook.Options{})
	if err := built.Save(ctx, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := codebook.New(ctx, codebook.Options{SnapshotPath: path})
	if err != nil {
		t.Fatalf("New from snapshot failed: %v", err)
	}

	if loaded.Meta().ID != built.Meta().ID {
		t.Fatalf("snapshot id changed across reload: %q vs %q", built.Meta().ID, loaded.Meta().ID)
	}
	if loaded.Len() != built.Len() {
		t.Fatalf("mapping size changed across reload: %d vs %d", built.Len(), loaded.Len())
	}
	if loaded.DistinctWords() != built.DistinctWords() {
		t.Fatalf("frequency table size changed: %d vs %d", built.DistinctWords(), loaded.DistinctWords())
	}

	for _, text := range []string{
		"I went to eat an apple",
		"to eat an apple is to live",
		"I went nowhere",
	} {
		a, err := built.Encode(text)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		b, err := loaded.Encode(text)
		if err != nil {
			t.Fatalf("Encode after reload failed: %v", err)
		}
		if a != b {
			t.Fatalf("encode diverged after reload: %q vs %q for %q", a, b, text)
		}
		if a == "" {
			continue
		}
		da, err := built.Decode(a)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		db, err := loaded.Decode(b)
		if err != nil {
			t.Fatalf("Decode after reload failed: %v", err)
		}
		if da != db {
			t.Fatalf("decode diverged after reload: %q vs %q", da, db)
		}
	}
}

func TestNewSurfacesSnapshotErrors(t *testing.T) {
	ctx := context.Background()

	_, err := codebook.New(ctx, codebook.Options{
		SnapshotPath: filepath.Join(t.TempDir(), "missing.db"),
	})
	if !errors.Is(err, snapshot.ErrNotFound) {
		t.Fatalf("expected snapshot.ErrNotFound, got %v", err)
	}
}

func TestVocabularyRanksByFrequency(t *testing.T) {
	cipher := buildDemo(t, codebook.Options{})

	v := cipher.Vocabulary()
	if v.Words[0] != "to" {
		t.Fatalf("expected %q as most frequent word, got %q", "to", v.Words[0])
	}
	if cipher.Frequency("to") != 5 {
		t.Fatalf("expected frequency 5 for %q, got %d", "to", cipher.Frequency("to"))
	}
	for i := 1; i < v.Len(); i++ {
		if v.Counts[i] > v.Counts[i-1] {
			t.Fatalf("counts not descending at rank %d: %d > %d", i, v.Counts[i], v.Counts[i-1])
		}
	}
}

func TestBuildFromConfigHonorsCodeSettings(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithInlineCorpus(demoCorpus...),
		testsupport.WithMaxVocab(4),
		testsupport.WithSeed(7),
		testsupport.WithAssignment("generated"),
		testsupport.WithCodeLength(5),
	)

	cipher := testsupport.MustBuild(t, cfg)
	if cipher.Len() != 4 {
		t.Fatalf("expected 4 mapped words, got %d", cipher.Len())
	}

	meta := cipher.Meta()
	if meta.Seed != 7 || meta.Assignment != "generated" || meta.CodeLength != 5 {
		t.Fatalf("config settings not reflected in meta: %+v", meta)
	}
	if meta.CorpusSource != cfg.Paths.Corpus {
		t.Fatalf("expected corpus source %q, got %q", cfg.Paths.Corpus, meta.CorpusSource)
	}

	for _, word := range cipher.Vocabulary().Words {
		code, ok := cipher.CodeFor(word)
		if !ok {
			t.Fatalf("word %q has no code", word)
		}
		if len(code) != 5 {
			t.Fatalf("expected 5-letter code for %q, got %q", word, code)
		}
	}
}
