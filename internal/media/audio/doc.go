// Package audio turns probed audio streams into selectable tracks.
//
// Every audio stream becomes one enabled track at unity volume. The track's
// source index is the stream's position among the container's audio streams,
// which is how ffmpeg addresses it in 0:a:N specifiers.
package audio
