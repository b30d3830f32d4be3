// Package history records merge runs in a SQLite database.
//
// Every non-dry-run merge leaves one row: the input, the resolved output, the
// compiled filter graph and arguments, and whether ffmpeg succeeded. The
// schema is versioned; a mismatched database must be cleared rather than
// migrated.
package history
