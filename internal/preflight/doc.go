// Package preflight runs the environment checks reported by the status
// command: directory permissions, input readability, and ffmpeg/ffprobe
// availability.
package preflight
