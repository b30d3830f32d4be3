// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe against a media file and decodes streams and container
// metadata. Helper methods on Result expose the audio streams in container
// order, the duration used for merge progress, and the file size.
package ffprobe
