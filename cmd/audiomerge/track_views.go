package main

import (
	"strconv"

	"audiomerge/internal/media/audio"
	"audiomerge/internal/tracks"
)

type trackView struct {
	Position    int    `json:"position"`
	Label       string `json:"label"`
	Enabled     bool   `json:"enabled"`
	Volume      int    `json:"volume"`
	SourceIndex int    `json:"source_index"`
}

func trackViews(list []tracks.Track) []trackView {
	views := make([]trackView, len(list))
	for i, t := range list {
		views[i] = trackView{
			Position:    i,
			Label:       t.Label,
			Enabled:     t.Enabled,
			Volume:      t.Volume,
			SourceIndex: t.SourceIndex,
		}
	}
	return views
}

func renderTrackTable(list []tracks.Track) string {
	rows := make([][]string, 0, len(list))
	for i, t := range list {
		rows = append(rows, []string{
			strconv.Itoa(i),
			t.Label,
			yesNo(t.Enabled),
			strconv.Itoa(t.Volume) + "%",
			strconv.Itoa(t.SourceIndex),
		})
	}
	return renderTable(
		[]string{"#", "Label", "Enabled", "Volume", "Source"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
	)
}

func renderStreamTable(streams []audio.Stream) string {
	rows := make([][]string, 0, len(streams))
	for _, s := range streams {
		channels := strconv.Itoa(s.Channels)
		if s.Layout != "" {
			channels += " (" + s.Layout + ")"
		}
		language := s.Language
		if language == "" {
			language = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(s.SourceIndex),
			strconv.Itoa(s.StreamIndex),
			s.Label,
			language,
			s.Codec,
			channels,
			yesNo(s.Default),
		})
	}
	return renderTable(
		[]string{"Source", "Stream", "Label", "Language", "Codec", "Channels", "Default"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}
