package audio

import (
	"fmt"
	"strings"

	"audiomerge/internal/language"
	"audiomerge/internal/media/ffprobe"
	"audiomerge/internal/tracks"
)

// Stream pairs a probed audio stream with the details shown when listing
// tracks.
type Stream struct {
	SourceIndex int    `json:"source_index"`
	StreamIndex int    `json:"stream_index"`
	Label       string `json:"label"`
	Language    string `json:"language,omitempty"`
	Codec       string `json:"codec"`
	Channels    int    `json:"channels"`
	Layout      string `json:"channel_layout,omitempty"`
	Default     bool   `json:"default"`
}

// Describe lists the audio streams in container order.
func Describe(streams []ffprobe.Stream) []Stream {
	var out []Stream
	for _, s := range streams {
		if !s.IsAudio() {
			continue
		}
		idx := len(out)
		out = append(out, Stream{
			SourceIndex: idx,
			StreamIndex: s.Index,
			Label:       Label(s, idx),
			Language:    language.Normalize(language.ExtractFromTags(s.Tags)),
			Codec:       strings.TrimSpace(s.CodecName),
			Channels:    s.Channels,
			Layout:      strings.TrimSpace(s.ChannelLayout),
			Default:     s.IsDefault(),
		})
	}
	return out
}

// Tracks returns one enabled unity-volume track per audio stream.
func Tracks(streams []ffprobe.Stream) []tracks.Track {
	described := Describe(streams)
	list := make([]tracks.Track, len(described))
	for i, s := range described {
		list[i] = tracks.Track{
			Label:       s.Label,
			Enabled:     true,
			Volume:      tracks.UnityVolume,
			SourceIndex: s.SourceIndex,
		}
	}
	return list
}

// Label names an audio stream from its title tag, then its language, and
// finally its 1-based position.
func Label(s ffprobe.Stream, audioIndex int) string {
	if title := s.Tag("title"); title != "" {
		return title
	}
	if name := language.DisplayName(language.ExtractFromTags(s.Tags)); name != "" {
		return name
	}
	return fmt.Sprintf("Audio Track %d", audioIndex+1)
}
