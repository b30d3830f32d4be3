// Package merge runs one audio merge end to end: snapshot the track
// selection, compile the ffmpeg invocation, pick a free output name, run
// ffmpeg, and record the outcome in the merge history.
package merge
