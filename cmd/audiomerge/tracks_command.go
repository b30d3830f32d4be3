package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"audiomerge/internal/media/audio"
	"audiomerge/internal/media/ffprobe"
	"audiomerge/internal/merge"
	"audiomerge/internal/preflight"
	"audiomerge/internal/services"
)

type tracksReport struct {
	Input     string         `json:"input"`
	Duration  float64        `json:"duration_seconds,omitempty"`
	Streams   []audio.Stream `json:"streams"`
	SavedPath string         `json:"saved_path,omitempty"`
}

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var saveName string
	var saveDefault bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tracks <input>",
		Short: "List the audio streams of a video",
		Long: `List the audio streams ffprobe finds in <input>.

With --save or --default the streams are stored as a preset with every track
enabled at 100% volume, ready to be edited with "preset set".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.TrimSpace(args[0])
			if check := preflight.CheckInputFile(input); !check.Passed {
				return fmt.Errorf("%w: %s", merge.ErrInputNotFound, check.Detail)
			}

			result, err := ffprobe.Inspect(cmd.Context(), ctx.ffprobeBinary(), input)
			if err != nil {
				return err
			}
			streams := audio.Describe(result.Streams)
			report := tracksReport{
				Input:    input,
				Duration: result.DurationSeconds(),
				Streams:  streams,
			}

			if saveDefault || strings.TrimSpace(saveName) != "" {
				if len(streams) == 0 {
					return services.Wrap(services.ErrValidation, "tracks", "save", "input has no audio streams", nil)
				}
				name := saveName
				if saveDefault {
					name = ""
				}
				path, err := ctx.resolvePreset(name)
				if err != nil {
					return err
				}
				store, err := ctx.presetStore()
				if err != nil {
					return err
				}
				if err := store.Save(path, audio.Tracks(result.Streams)); err != nil {
					return err
				}
				report.SavedPath = path
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			if len(streams) == 0 {
				fmt.Fprintln(out, "No audio streams found")
			} else {
				fmt.Fprintln(out, renderStreamTable(streams))
			}
			if report.SavedPath != "" {
				fmt.Fprintf(out, "Saved %d track(s) to %s\n", len(streams), report.SavedPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&saveName, "save", "", "Save the streams as a preset with this name or path")
	cmd.Flags().BoolVar(&saveDefault, "default", false, "Save the streams as the default preset")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("save", "default")
	return cmd
}
