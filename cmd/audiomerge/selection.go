package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"audiomerge/internal/services"
	"audiomerge/internal/tracks"
)

// trackEdits collects the per-track flags shared by merge and the preset
// commands. Indexes are list positions as shown by `preset show`.
type trackEdits struct {
	enable  []int
	disable []int
	volumes []string
	labels  []string
}

func (e *trackEdits) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntSliceVar(&e.enable, "enable", nil, "Enable the track at this list position (repeatable)")
	flags.IntSliceVar(&e.disable, "disable", nil, "Disable the track at this list position (repeatable)")
	flags.StringArrayVar(&e.volumes, "volume", nil, "Set a track volume in percent as index=value (repeatable)")
	flags.StringArrayVar(&e.labels, "label", nil, "Rename a track as index=name (repeatable)")
}

func (e *trackEdits) empty() bool {
	return len(e.enable) == 0 && len(e.disable) == 0 && len(e.volumes) == 0 && len(e.labels) == 0
}

// apply returns a copy of list with the edits applied. list is never
// modified, so a rejected edit leaves the caller's tracks untouched.
func (e *trackEdits) apply(list []tracks.Track) ([]tracks.Track, error) {
	model := tracks.NewModel(list)

	for _, raw := range e.labels {
		index, value, err := parseAssignment("--label", raw)
		if err != nil {
			return nil, err
		}
		if err := model.SetLabel(index, value); err != nil {
			return nil, fmt.Errorf("--label %s: %w", raw, err)
		}
	}
	for _, raw := range e.volumes {
		index, value, err := parseAssignment("--volume", raw)
		if err != nil {
			return nil, err
		}
		volume, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(value), "%"))
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "cli", "parse --volume", fmt.Sprintf("%q is not a whole percentage", value), nil)
		}
		if err := model.SetVolume(index, volume); err != nil {
			return nil, fmt.Errorf("--volume %s: %w", raw, err)
		}
	}
	for _, index := range e.enable {
		if err := model.SetEnabled(index, true); err != nil {
			return nil, fmt.Errorf("--enable %d: %w", index, err)
		}
	}
	for _, index := range e.disable {
		if err := model.SetEnabled(index, false); err != nil {
			return nil, fmt.Errorf("--disable %d: %w", index, err)
		}
	}
	return model.Tracks(), nil
}

func parseAssignment(flag, raw string) (int, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok {
		return 0, "", services.Wrap(services.ErrValidation, "cli", "parse "+flag, fmt.Sprintf("%q must look like index=value", raw), nil)
	}
	index, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, "", services.Wrap(services.ErrValidation, "cli", "parse "+flag, fmt.Sprintf("%q is not a track index", key), nil)
	}
	return index, value, nil
}
