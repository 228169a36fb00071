package codebook

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"wordcode/internal/corpus"
	"wordcode/internal/logging"
	"wordcode/internal/snapshot"
	"wordcode/internal/vocab"
)

// Options configures construction of a Substitution cipher. Exactly one of
// Source and SnapshotPath must be set: Source derives a fresh mapping from a
// corpus, SnapshotPath restores a previously saved one.
type Options struct {
	Source       corpus.Source
	SnapshotPath string

	// MaxVocab caps the vocabulary size. Zero means DefaultMaxVocab.
	MaxVocab int
	// Seed feeds the assignment generator. Zero means DefaultSeed.
	Seed int64
	// CodeLength sizes codes under AssignmentGenerated. Zero means
	// DefaultCodeLength.
	CodeLength int
	// Strategy picks the assignment. Empty means AssignmentPermutation.
	Strategy Assignment

	// Logger receives build progress; nil discards it.
	Logger *slog.Logger
}

// Substitution is a deterministic word-substitution cipher over a frozen
// vocabulary. Instances never change after construction, so any number of
// goroutines may encode and decode concurrently.
type Substitution struct {
	meta       snapshot.Meta
	frequency  map[string]int
	vocabulary vocab.Vocabulary
	wordToCode map[string]string
	codeToWord map[string]string
}

var _ Cipher = (*Substitution)(nil)

// New builds a Substitution from opts. Violations of the construction
// contract report ErrInvalidConfiguration.
func New(ctx context.Context, opts Options) (*Substitution, error) {
	hasSource := opts.Source != nil
	hasSnapshot := strings.TrimSpace(opts.SnapshotPath) != ""
	switch {
	case hasSource && hasSnapshot:
		return nil, fmt.Errorf("%w: corpus source and snapshot path are mutually exclusive", ErrInvalidConfiguration)
	case !hasSource && !hasSnapshot:
		return nil, fmt.Errorf("%w: either a corpus source or a snapshot path is required", ErrInvalidConfiguration)
	}

	if hasSource {
		return build(opts)
	}
	return load(ctx, opts)
}

func build(opts Options) (*Substitution, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	maxVocab := opts.MaxVocab
	if maxVocab == 0 {
		maxVocab = DefaultMaxVocab
	}
	if maxVocab < 0 {
		return nil, fmt.Errorf("%w: max vocabulary must be positive", ErrInvalidConfiguration)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	codeLength := opts.CodeLength
	if codeLength == 0 {
		codeLength = DefaultCodeLength
	}
	strategy := opts.Strategy
	if strategy == "" {
		strategy = AssignmentPermutation
	}
	if !strategy.valid() {
		return nil, fmt.Errorf("%w: unknown assignment %q", ErrInvalidConfiguration, strategy)
	}

	started := time.Now()
	table, err := vocab.Collect(opts.Source)
	if err != nil {
		return nil, err
	}
	vocabulary := table.Top(maxVocab)
	logger.Debug("vocabulary ranked",
		logging.Int("distinct_words", table.Len()),
		logging.Int("vocabulary_words", vocabulary.Len()),
		logging.Int("corpus_tokens", table.Tokens()))

	rng := rand.New(rand.NewSource(seed))
	codes, err := assignCodes(vocabulary.Words, strategy, rng, codeLength)
	if err != nil {
		return nil, err
	}

	wordToCode := make(map[string]string, vocabulary.Len())
	codeToWord := make(map[string]string, vocabulary.Len())
	for i, word := range vocabulary.Words {
		wordToCode[word] = codes[i]
		codeToWord[codes[i]] = word
	}

	logger.Info("mapping built",
		logging.Int("vocabulary_words", vocabulary.Len()),
		logging.String("assignment", string(strategy)),
		logging.Int64("seed", seed),
		logging.Duration("elapsed", time.Since(started)))

	return &Substitution{
		meta: snapshot.Meta{
			ID:           uuid.NewString(),
			CreatedAt:    time.Now().UTC(),
			Seed:         seed,
			CodeLength:   codeLength,
			Assignment:   string(strategy),
			CorpusSource: opts.Source.String(),
			CorpusLines:  table.Lines(),
			CorpusTokens: table.Tokens(),
		},
		frequency:  table.Counts(),
		vocabulary: vocabulary,
		wordToCode: wordToCode,
		codeToWord: codeToWord,
	}, nil
}

func load(ctx context.Context, opts Options) (*Substitution, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	state, err := snapshot.Read(ctx, opts.SnapshotPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("snapshot loaded",
		logging.String("path", opts.SnapshotPath),
		logging.String("snapshot_id", state.Meta.ID),
		logging.Int("vocabulary_words", len(state.Words)))

	return &Substitution{
		meta:       state.Meta,
		frequency:  state.Frequency,
		vocabulary: vocab.Vocabulary{Words: state.Words, Counts: state.Counts},
		wordToCode: state.WordToCode,
		codeToWord: state.CodeToWord,
	}, nil
}

// Encode replaces each whitespace token of text with its code. Tokens outside
// the vocabulary are dropped and the remaining codes joined with single spaces.
func (s *Substitution) Encode(text string) (string, error) {
	tokens := strings.Fields(text)
	encoded := make([]string, 0, len(tokens))
	for _, token := range tokens {
		code, ok := s.wordToCode[token]
		if !ok {
			continue
		}
		encoded = append(encoded, code)
	}
	return strings.Join(encoded, " "), nil
}

// Decode replaces each whitespace token of text with its vocabulary word.
// Unlike Encode it never skips: the first unmapped token fails the call.
func (s *Substitution) Decode(text string) (string, error) {
	tokens := strings.Fields(text)
	decoded := make([]string, 0, len(tokens))
	for _, token := range tokens {
		word, ok := s.codeToWord[token]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownCode, token)
		}
		decoded = append(decoded, word)
	}
	return strings.Join(decoded, " "), nil
}

// Save snapshots the full derived state to path. The written file rebuilds
// this cipher through Options.SnapshotPath without the original corpus.
func (s *Substitution) Save(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: snapshot path is required", ErrInvalidConfiguration)
	}
	return snapshot.Write(ctx, path, snapshot.State{
		Meta:       s.meta,
		Frequency:  s.frequency,
		Words:      s.vocabulary.Words,
		Counts:     s.vocabulary.Counts,
		WordToCode: s.wordToCode,
		CodeToWord: s.codeToWord,
	})
}

// Meta reports the provenance recorded when the mapping was built.
func (s *Substitution) Meta() snapshot.Meta {
	return s.meta
}

// Vocabulary returns the frozen frequency ranking backing the mapping.
func (s *Substitution) Vocabulary() vocab.Vocabulary {
	return s.vocabulary
}

// Len reports the number of mapped words.
func (s *Substitution) Len() int {
	return len(s.wordToCode)
}

// DistinctWords reports how many distinct words the corpus contained,
// including those that missed the vocabulary cut.
func (s *Substitution) DistinctWords() int {
	return len(s.frequency)
}

// Frequency reports how often word occurred in the corpus, zero when unseen.
func (s *Substitution) Frequency(word string) int {
	return s.frequency[word]
}

// CodeFor returns the code assigned to word.
func (s *Substitution) CodeFor(word string) (string, bool) {
	code, ok := s.wordToCode[word]
	return code, ok
}

// WordFor returns the word behind code.
func (s *Substitution) WordFor(code string) (string, bool) {
	word, ok := s.codeToWord[code]
	return word, ok
}
