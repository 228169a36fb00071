// Package corpus abstracts where training text comes from.
//
// A Source replays its lines on demand, letting callers make multiple passes
// over the same material. Tokenization is deliberately simple: whitespace
// splitting only, with tokens preserved exactly as they appear.
package corpus
