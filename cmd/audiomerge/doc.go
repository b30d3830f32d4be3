// Package main hosts the audiomerge CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration lazily, builds the preset store,
// merge history, and ffmpeg runner on demand, and renders results as tables,
// status lines, or JSON. Merge semantics live in the internal packages; the
// commands here only translate flags into track model edits and requests.
package main
