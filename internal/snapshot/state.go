package snapshot

import (
	"fmt"
	"time"
)

// Meta records the provenance of a saved mapping. All fields are
// informational; only the schema version participates in load validation.
type Meta struct {
	ID           string
	CreatedAt    time.Time
	Seed         int64
	CodeLength   int
	Assignment   string
	CorpusSource string
	CorpusLines  int
	CorpusTokens int
}

// State holds everything a cipher needs to operate without re-reading its
// corpus: the full frequency table, the ranked vocabulary with aligned
// counts, and both mapping directions.
type State struct {
	Meta       Meta
	Frequency  map[string]int
	Words      []string
	Counts     []int
	WordToCode map[string]string
	CodeToWord map[string]string
}

// Validate checks the structural invariants a snapshot must satisfy. Write
// refuses states that fail it and Read reports them as ErrCorrupt.
func (s State) Validate() error {
	if s.Frequency == nil || s.WordToCode == nil || s.CodeToWord == nil {
		return fmt.Errorf("missing state: frequency and both mapping directions are required")
	}
	if len(s.Words) != len(s.Counts) {
		return fmt.Errorf("vocabulary misaligned: %d words, %d counts", len(s.Words), len(s.Counts))
	}
	if len(s.WordToCode) != len(s.CodeToWord) {
		return fmt.Errorf("mapping sizes differ: %d word entries, %d code entries", len(s.WordToCode), len(s.CodeToWord))
	}
	if len(s.WordToCode) != len(s.Words) {
		return fmt.Errorf("mapping covers %d words, vocabulary has %d", len(s.WordToCode), len(s.Words))
	}
	for word, code := range s.WordToCode {
		back, ok := s.CodeToWord[code]
		if !ok {
			return fmt.Errorf("code %q has no reverse entry", code)
		}
		if back != word {
			return fmt.Errorf("mapping not bijective: %q -> %q -> %q", word, code, back)
		}
	}
	for _, word := range s.Words {
		if _, ok := s.WordToCode[word]; !ok {
			return fmt.Errorf("vocabulary word %q has no code", word)
		}
	}
	return nil
}
