package tracks

import (
	"errors"
	"reflect"
	"testing"

	"audiomerge/internal/services"
)

func sample() []Track {
	return []Track{
		{Label: "English", Enabled: true, Volume: 100, SourceIndex: 0},
		{Label: "Commentary", Enabled: false, Volume: 50, SourceIndex: 1},
		{Label: "French", Enabled: true, Volume: 150, SourceIndex: 2},
	}
}

func TestSnapshotSkipsDisabledInOrder(t *testing.T) {
	m := NewModel(sample())
	snap, err := m.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	want := Snapshot{
		{Label: "English", Volume: 100, SourceIndex: 0},
		{Label: "French", Volume: 150, SourceIndex: 2},
	}
	if !reflect.DeepEqual(snap, want) {
		t.Fatalf("snapshot = %+v, want %+v", snap, want)
	}
	if got := snap.Labels(); !reflect.DeepEqual(got, []string{"English", "French"}) {
		t.Fatalf("labels = %v", got)
	}
}

func TestSnapshotEmptySelection(t *testing.T) {
	tests := []struct {
		name   string
		tracks []Track
	}{
		{"no tracks", nil},
		{"all disabled", []Track{{Label: "a"}, {Label: "b", Volume: 100}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(tt.tracks).Snapshot()
			if !errors.Is(err, ErrEmptySelection) {
				t.Fatalf("err = %v, want ErrEmptySelection", err)
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("err should carry validation marker: %v", err)
			}
		})
	}
}

func TestMutations(t *testing.T) {
	m := NewModel(sample())
	if err := m.SetEnabled(1, true); err != nil {
		t.Fatal(err)
	}
	if err := m.SetVolume(1, 250); err != nil {
		t.Fatal(err)
	}
	if err := m.SetLabel(1, "Director"); err != nil {
		t.Fatal(err)
	}
	got, err := m.Track(1)
	if err != nil {
		t.Fatal(err)
	}
	want := Track{Label: "Director", Enabled: true, Volume: 250, SourceIndex: 1}
	if got != want {
		t.Fatalf("track = %+v, want %+v", got, want)
	}
}

func TestOutOfRangeIndex(t *testing.T) {
	m := NewModel(sample())
	ops := map[string]func() error{
		"enabled": func() error { return m.SetEnabled(3, true) },
		"volume":  func() error { return m.SetVolume(-1, 10) },
		"label":   func() error { return m.SetLabel(99, "x") },
		"track":   func() error { _, err := m.Track(3); return err },
	}
	for name, op := range ops {
		if err := op(); !IsIndexError(err) {
			t.Errorf("%s: err = %v, want ErrIndex", name, err)
		}
	}
	if !reflect.DeepEqual(m.Tracks(), sample()) {
		t.Fatal("failed mutations must leave the model unchanged")
	}
}

func TestReplaceAllDiscardsState(t *testing.T) {
	m := NewModel(sample())
	m.ReplaceAll([]Track{{Label: "Only", Enabled: true, Volume: 80}})
	if m.Len() != 1 {
		t.Fatalf("len = %d, want 1", m.Len())
	}
	m.Append(Track{Label: "Extra", SourceIndex: 4})
	if m.Len() != 2 {
		t.Fatalf("len after append = %d", m.Len())
	}
}

func TestModelCopiesInput(t *testing.T) {
	src := sample()
	m := NewModel(src)
	src[0].Label = "changed"
	out := m.Tracks()
	out[2].Volume = 0
	first, _ := m.Track(0)
	third, _ := m.Track(2)
	if first.Label != "English" || third.Volume != 150 {
		t.Fatal("model must not alias caller slices")
	}
}
