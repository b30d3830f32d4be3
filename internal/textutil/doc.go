// Package textutil provides small text helpers for building output file
// names from user-supplied labels: rune-aware prefixes, Unicode lowercasing,
// and filesystem-safe sanitization.
package textutil
