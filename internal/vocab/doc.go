// Package vocab counts word occurrences and freezes them into a ranked
// vocabulary. Ranking is stable: equal counts fall back to the order in which
// words first appeared in the corpus, so the same corpus always produces the
// same vocabulary.
package vocab
