// Package tracks holds the in-memory audio track selection: an ordered list of
// labelled tracks with enabled flags and volume percentages, and the snapshot
// of enabled tracks that feeds filter graph compilation.
//
// List order is display order. Each track also carries the index of its audio
// stream in the source container, which may differ from its list position.
package tracks
