package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"audiomerge/internal/preset"
	"audiomerge/internal/services"
	"audiomerge/internal/tracks"
)

type presetSummary struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Default bool   `json:"default"`
	Tracks  int    `json:"tracks"`
	Enabled int    `json:"enabled"`
	Error   string `json:"error,omitempty"`
}

type presetDetail struct {
	Path   string      `json:"path"`
	Tracks []trackView `json:"tracks"`
}

func newPresetCommand(ctx *commandContext) *cobra.Command {
	presetCmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage track presets",
	}

	presetCmd.AddCommand(newPresetListCommand(ctx))
	presetCmd.AddCommand(newPresetShowCommand(ctx))
	presetCmd.AddCommand(newPresetSaveCommand(ctx))
	presetCmd.AddCommand(newPresetSetCommand(ctx))

	return presetCmd
}

func newPresetListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.presetStore()
			if err != nil {
				return err
			}
			names, err := store.List()
			if err != nil {
				return err
			}

			summaries := make([]presetSummary, 0, len(names))
			for _, name := range names {
				path := filepath.Join(store.Dir(), name)
				summary := presetSummary{
					Name:    strings.TrimSuffix(name, filepath.Ext(name)),
					Path:    path,
					Default: name == preset.DefaultName,
				}
				list, err := store.Load(path)
				if err != nil {
					summary.Error = err.Error()
				} else {
					summary.Tracks = len(list)
					summary.Enabled = countEnabled(list)
				}
				summaries = append(summaries, summary)
			}

			if jsonOutput {
				return writeJSON(cmd, summaries)
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintf(out, "No presets in %s\n", store.Dir())
				return nil
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				tracksCol := strconv.Itoa(s.Tracks)
				enabledCol := strconv.Itoa(s.Enabled)
				if s.Error != "" {
					tracksCol, enabledCol = "invalid", "-"
				}
				defaultCol := ""
				if s.Default {
					defaultCol = "*"
				}
				rows = append(rows, []string{s.Name, tracksCol, enabledCol, defaultCol})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Tracks", "Enabled", "Default"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newPresetShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show the tracks stored in a preset (default: the default preset)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, list, err := loadPresetArg(ctx, args)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, presetDetail{Path: path, Tracks: trackViews(list)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Preset: %s\n", path)
			if len(list) == 0 {
				fmt.Fprintln(out, "No tracks")
				return nil
			}
			fmt.Fprintln(out, renderTrackTable(list))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newPresetSaveCommand(ctx *commandContext) *cobra.Command {
	var from string
	edits := &trackEdits{}

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a copy of a preset under a new name",
		Long: `Save a copy of the default preset (or --from) under <name>, applying any
--enable, --disable, --volume, and --label edits to the copy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []string
			if strings.TrimSpace(from) != "" {
				source = []string{from}
			}
			_, list, err := loadPresetArg(ctx, source)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return services.Wrap(services.ErrValidation, "preset", "save", "source preset has no tracks", nil)
			}
			list, err = edits.apply(list)
			if err != nil {
				return err
			}
			target, err := ctx.resolvePreset(args[0])
			if err != nil {
				return err
			}
			return savePreset(cmd, ctx, target, list)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Preset to copy (default: the default preset)")
	edits.register(cmd)
	return cmd
}

func newPresetSetCommand(ctx *commandContext) *cobra.Command {
	var additions []string
	edits := &trackEdits{}

	cmd := &cobra.Command{
		Use:   "set [name]",
		Short: "Edit a preset in place (default: the default preset)",
		Long: `Edit a preset in place. --add source=label appends an enabled track at 100%
volume that reads audio stream <source>; the preset is created when missing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if edits.empty() && len(additions) == 0 {
				return services.Wrap(services.ErrValidation, "preset", "set", "nothing to change (use --enable, --disable, --volume, --label, or --add)", nil)
			}
			path, list, err := loadPresetArg(ctx, args)
			if err != nil && !(errors.Is(err, preset.ErrNotFound) && len(additions) > 0) {
				return err
			}

			model := tracks.NewModel(list)
			for _, raw := range additions {
				source, label, err := parseAssignment("--add", raw)
				if err != nil {
					return err
				}
				if source < 0 {
					return services.Wrap(services.ErrValidation, "cli", "parse --add", fmt.Sprintf("source index %d is negative", source), nil)
				}
				model.Append(tracks.Track{
					Label:       strings.TrimSpace(label),
					Enabled:     true,
					Volume:      tracks.UnityVolume,
					SourceIndex: source,
				})
			}
			updated, err := edits.apply(model.Tracks())
			if err != nil {
				return err
			}
			return savePreset(cmd, ctx, path, updated)
		},
	}

	cmd.Flags().StringArrayVar(&additions, "add", nil, "Append a track as source=label (repeatable)")
	edits.register(cmd)
	return cmd
}

// loadPresetArg loads the preset named by args[0], or the default preset when
// args is empty. The resolved path is returned even when loading fails.
func loadPresetArg(ctx *commandContext, args []string) (string, []tracks.Track, error) {
	var name string
	if len(args) > 0 {
		name = args[0]
	}
	path, err := ctx.resolvePreset(name)
	if err != nil {
		return "", nil, err
	}
	store, err := ctx.presetStore()
	if err != nil {
		return path, nil, err
	}
	list, err := store.Load(path)
	return path, list, err
}

func savePreset(cmd *cobra.Command, ctx *commandContext, path string, list []tracks.Track) error {
	store, err := ctx.presetStore()
	if err != nil {
		return err
	}
	if err := store.Save(path, list); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d track(s) to %s\n", len(list), path)
	return nil
}

func countEnabled(list []tracks.Track) int {
	n := 0
	for _, t := range list {
		if t.Enabled {
			n++
		}
	}
	return n
}
