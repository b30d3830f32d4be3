// Package runner executes compiled ffmpeg invocations.
//
// A run is a single synchronous attempt with no retries and no timeout. The
// tail of ffmpeg's stderr is kept so failures carry the tool's own
// diagnostics, progress lines are parsed into percentages of the expected
// output duration, and a partially written output file is removed when ffmpeg
// fails.
package runner
