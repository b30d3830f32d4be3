// Package language turns the language tags found on audio streams into
// canonical codes and English display names, used to label probed tracks
// that carry no title.
package language
