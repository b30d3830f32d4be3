// Package logging assembles structured slog loggers for audiomerge.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context-aware helpers that tag log lines with the merge ID and input path
// carried on a context. A no-op logger is provided for tests and wiring code
// that cannot fail.
package logging
