package vocab

import (
	"fmt"
	"slices"
	"strings"

	"wordcode/internal/corpus"
)

// Table accumulates word frequencies across a corpus. It remembers the order
// in which words first appeared so that ranking ties resolve deterministically.
type Table struct {
	counts map[string]int
	order  []string
	lines  int
	tokens int
}

// NewTable returns an empty frequency table.
func NewTable() *Table {
	return &Table{counts: make(map[string]int)}
}

// Collect builds a frequency table over every whitespace token in src.
func Collect(src corpus.Source) (*Table, error) {
	table := NewTable()
	err := src.EachLine(func(line string) error {
		table.AddLine(line)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect frequencies: %w", err)
	}
	return table, nil
}

// Add records one occurrence of word.
func (t *Table) Add(word string) {
	if _, seen := t.counts[word]; !seen {
		t.order = append(t.order, word)
	}
	t.counts[word]++
	t.tokens++
}

// AddLine tokenizes line on whitespace and records every token.
func (t *Table) AddLine(line string) {
	t.lines++
	for _, word := range strings.Fields(line) {
		t.Add(word)
	}
}

// Len reports the number of distinct words observed.
func (t *Table) Len() int {
	return len(t.counts)
}

// Lines reports how many lines were fed into the table.
func (t *Table) Lines() int {
	return t.lines
}

// Tokens reports the total number of token occurrences recorded.
func (t *Table) Tokens() int {
	return t.tokens
}

// Count returns the recorded frequency of word, zero when unseen.
func (t *Table) Count(word string) int {
	return t.counts[word]
}

// Counts returns a copy of the full word frequency map.
func (t *Table) Counts() map[string]int {
	out := make(map[string]int, len(t.counts))
	for word, count := range t.counts {
		out[word] = count
	}
	return out
}

// Top ranks words by descending frequency and returns at most limit of them.
// Words with equal counts keep their first-encountered order. A limit of zero
// or less, or one beyond the distinct word count, yields every word.
func (t *Table) Top(limit int) Vocabulary {
	ranked := make([]string, len(t.order))
	copy(ranked, t.order)
	slices.SortStableFunc(ranked, func(a, b string) int {
		return t.counts[b] - t.counts[a]
	})

	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	ranked = ranked[:limit]

	counts := make([]int, len(ranked))
	for i, word := range ranked {
		counts[i] = t.counts[word]
	}
	return Vocabulary{Words: ranked, Counts: counts}
}

// Vocabulary is a frozen frequency ranking. Words[i] occurred Counts[i]
// times; index order is rank order, most frequent first.
type Vocabulary struct {
	Words  []string
	Counts []int
}

// Len reports the number of ranked words.
func (v Vocabulary) Len() int {
	return len(v.Words)
}
