// Package logs reads the audiomerge log file for `audiomerge logs`.
//
// Last returns the final lines of the file with bounded memory; Follow polls
// from an offset and emits new lines until its context ends, starting over
// when the file shrinks.
package logs
