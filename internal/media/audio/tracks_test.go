package audio

import (
	"reflect"
	"testing"

	"audiomerge/internal/media/ffprobe"
	"audiomerge/internal/tracks"
)

func probeStreams() []ffprobe.Stream {
	return []ffprobe.Stream{
		{Index: 0, CodecType: "video", CodecName: "h264"},
		{Index: 1, CodecType: "audio", CodecName: "ac3", Channels: 6, ChannelLayout: "5.1(side)",
			Tags: map[string]string{"language": "eng", "title": "Main"}, Disposition: map[string]int{"default": 1}},
		{Index: 2, CodecType: "subtitle", CodecName: "subrip", Tags: map[string]string{"language": "eng"}},
		{Index: 3, CodecType: "audio", CodecName: "aac", Channels: 2, Tags: map[string]string{"LANGUAGE": "fre"}},
		{Index: 4, CodecType: "audio", CodecName: "opus", Channels: 2},
	}
}

func TestTracks(t *testing.T) {
	got := Tracks(probeStreams())
	want := []tracks.Track{
		{Label: "Main", Enabled: true, Volume: 100, SourceIndex: 0},
		{Label: "French", Enabled: true, Volume: 100, SourceIndex: 1},
		{Label: "Audio Track 3", Enabled: true, Volume: 100, SourceIndex: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tracks = %+v, want %+v", got, want)
	}
}

func TestDescribe(t *testing.T) {
	got := Describe(probeStreams())
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	first := got[0]
	if first.StreamIndex != 1 || first.Language != "en" || first.Channels != 6 || !first.Default || first.Layout != "5.1(side)" {
		t.Fatalf("unexpected first stream: %+v", first)
	}
	if got[1].Language != "fr" || got[1].Default {
		t.Fatalf("unexpected second stream: %+v", got[1])
	}
	if got[2].Language != "" {
		t.Fatalf("untagged stream language = %q", got[2].Language)
	}
}

func TestTracksNoAudio(t *testing.T) {
	if got := Tracks([]ffprobe.Stream{{CodecType: "video"}}); len(got) != 0 {
		t.Fatalf("expected no tracks, got %+v", got)
	}
}
