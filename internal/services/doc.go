// Package services defines shared error markers and context helpers consumed
// by the merge pipeline and its external tool adapters.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so every failure carries
//     component and operation context and can be classified with errors.Is.
//   - Context helpers that stamp merge IDs, input paths, and correlation
//     identifiers for logging.
//
// Use these helpers when wiring new components so error reporting stays
// uniform between the CLI, the history store, and the logs.
package services
