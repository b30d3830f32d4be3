// Package filtergraph compiles a track selection snapshot into ffmpeg
// arguments.
//
// Each selected track gets a volume stage labelled after its source stream
// index. All stages feed one amerge stage whose output is mapped as the only
// audio stream and downmixed to stereo. Compile is pure: it never touches the
// filesystem or starts a process.
package filtergraph
