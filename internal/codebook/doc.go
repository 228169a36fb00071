// Package codebook builds and applies deterministic word-substitution ciphers.
//
// A Substitution freezes the most frequent corpus words into a vocabulary and
// assigns each one a code drawn from an explicitly seeded generator. Under
// the default permutation assignment the codes are the vocabulary words
// themselves, shuffled, so encoded text still reads as words. Encoding drops
// anything outside the vocabulary; decoding is strict and fails on the first
// token it does not recognize.
//
// Construction takes either a corpus source or a saved snapshot, never both,
// and the same corpus with the same seed always yields the same mapping.
package codebook
