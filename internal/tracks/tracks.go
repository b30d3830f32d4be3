package tracks

import (
	"errors"
	"fmt"

	"audiomerge/internal/services"
)

// UnityVolume is the volume percentage that leaves a track unchanged.
const UnityVolume = 100

var (
	// ErrIndex reports a track index outside the current list.
	ErrIndex = fmt.Errorf("%w: track index out of range", services.ErrValidation)
	// ErrEmptySelection reports a snapshot request with no enabled tracks.
	ErrEmptySelection = fmt.Errorf("%w: no audio tracks enabled", services.ErrValidation)
)

// Track is one audio stream of the input container as presented to the user.
type Track struct {
	Label       string
	Enabled     bool
	Volume      int
	SourceIndex int
}

// Selected is a single enabled track inside a Snapshot.
type Selected struct {
	Label       string
	Volume      int
	SourceIndex int
}

// Snapshot is the ordered list of enabled tracks.
type Snapshot []Selected

// Labels returns the labels in snapshot order.
func (s Snapshot) Labels() []string {
	labels := make([]string, len(s))
	for i, sel := range s {
		labels[i] = sel.Label
	}
	return labels
}

// Model is the mutable track list. The zero value is an empty model.
type Model struct {
	tracks []Track
}

// NewModel returns a model holding a copy of the given tracks.
func NewModel(list []Track) *Model {
	m := &Model{}
	m.ReplaceAll(list)
	return m
}

// ReplaceAll discards the current list and installs a copy of list.
func (m *Model) ReplaceAll(list []Track) {
	m.tracks = append([]Track(nil), list...)
}

// Append adds a track to the end of the list.
func (m *Model) Append(t Track) {
	m.tracks = append(m.tracks, t)
}

// Len returns the number of tracks.
func (m *Model) Len() int {
	return len(m.tracks)
}

// Tracks returns a copy of the track list.
func (m *Model) Tracks() []Track {
	return append([]Track(nil), m.tracks...)
}

// Track returns the track at index.
func (m *Model) Track(index int) (Track, error) {
	if err := m.checkIndex(index); err != nil {
		return Track{}, err
	}
	return m.tracks[index], nil
}

// SetEnabled marks the track at index as included or excluded.
func (m *Model) SetEnabled(index int, enabled bool) error {
	if err := m.checkIndex(index); err != nil {
		return err
	}
	m.tracks[index].Enabled = enabled
	return nil
}

// SetVolume stores volume as given; range enforcement is left to callers.
func (m *Model) SetVolume(index int, volume int) error {
	if err := m.checkIndex(index); err != nil {
		return err
	}
	m.tracks[index].Volume = volume
	return nil
}

// SetLabel renames the track at index.
func (m *Model) SetLabel(index int, label string) error {
	if err := m.checkIndex(index); err != nil {
		return err
	}
	m.tracks[index].Label = label
	return nil
}

// Snapshot returns the enabled tracks in list order.
func (m *Model) Snapshot() (Snapshot, error) {
	snap := make(Snapshot, 0, len(m.tracks))
	for _, t := range m.tracks {
		if !t.Enabled {
			continue
		}
		snap = append(snap, Selected{Label: t.Label, Volume: t.Volume, SourceIndex: t.SourceIndex})
	}
	if len(snap) == 0 {
		return nil, ErrEmptySelection
	}
	return snap, nil
}

func (m *Model) checkIndex(index int) error {
	if index < 0 || index >= len(m.tracks) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndex, index, len(m.tracks))
	}
	return nil
}

// IsIndexError reports whether err is an out-of-range index error.
func IsIndexError(err error) bool {
	return errors.Is(err, ErrIndex)
}
