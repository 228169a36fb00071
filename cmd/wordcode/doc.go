// Package main hosts the wordcode CLI entrypoint and command graph.
//
// The Cobra-based command tree covers building code mappings from corpora,
// encoding and decoding text, inspecting the ranked vocabulary, snapshot
// health reporting, and configuration scaffolding. It centralizes
// configuration resolution and snapshot path handling so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
