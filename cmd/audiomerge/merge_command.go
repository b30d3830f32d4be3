package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"audiomerge/internal/logging"
	"audiomerge/internal/media/audio"
	"audiomerge/internal/media/ffprobe"
	"audiomerge/internal/merge"
	"audiomerge/internal/preflight"
	"audiomerge/internal/runner"
	"audiomerge/internal/tracks"
)

type mergeSummary struct {
	ID             string      `json:"id,omitempty"`
	Input          string      `json:"input"`
	Output         string      `json:"output"`
	Title          string      `json:"title"`
	FilterGraph    string      `json:"filter_graph"`
	CommandLine    string      `json:"command_line"`
	DryRun         bool        `json:"dry_run"`
	TrackSource    string      `json:"track_source"`
	Tracks         []trackView `json:"tracks"`
	SizeBytes      int64       `json:"size_bytes,omitempty"`
	ElapsedSeconds float64     `json:"elapsed_seconds,omitempty"`
}

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var presetName string
	var startTime string
	var exportDir string
	var dryRun bool
	var verifyTracks bool
	var jsonOutput bool
	edits := &trackEdits{}

	cmd := &cobra.Command{
		Use:   "merge <input>",
		Short: "Merge the enabled audio tracks of a video into one stereo track",
		Long: `Merge the enabled audio tracks of <input> into a single stereo track and
re-encode the video next to it in the export directory.

Tracks come from --preset, else the default preset, else every audio stream
found by ffprobe. --enable, --disable, --volume, and --label adjust that list
for this run only; use "preset set" to store changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			input := strings.TrimSpace(args[0])
			if check := preflight.CheckInputFile(input); !check.Passed {
				return fmt.Errorf("%w: %s", merge.ErrInputNotFound, check.Detail)
			}

			list, source, err := loadMergeTracks(cmd.Context(), ctx, presetName, input)
			if err != nil {
				return err
			}
			list, err = edits.apply(list)
			if err != nil {
				return err
			}

			ffmpegRunner := runner.New(ctx.ffmpegBinary(), logger)
			var recorder merge.Recorder
			if !dryRun {
				store, err := ctx.openHistory()
				if err != nil {
					logging.WarnWithContext(logger, "merge history unavailable", "history_open_failed",
						logging.Error(err),
						logging.String(logging.FieldErrorHint, "check state_dir in the config"),
						logging.String(logging.FieldImpact, "this merge will not appear in history"))
				} else {
					defer store.Close()
					recorder = store
				}
			}

			svc := merge.NewService(ffmpegRunner, recorder, merge.Options{
				Encoder:       ctx.encoder(),
				ExportDir:     cfg.Paths.ExportDir,
				FFprobeBinary: ctx.ffprobeBinary(),
			}, logger)

			var reporter *progressReporter
			if !dryRun && !jsonOutput {
				reporter = newProgressReporter(cmd.ErrOrStderr())
			}
			outcome, err := svc.Merge(cmd.Context(), merge.Request{
				InputPath:     input,
				StartTime:     startTime,
				ExportDir:     exportDir,
				Model:         tracks.NewModel(list),
				DryRun:        dryRun,
				VerifySources: verifyTracks,
				OnProgress:    reporter.callback(),
			})
			reporter.finish()
			if err != nil {
				return err
			}

			summary := mergeSummary{
				ID:             outcome.ID,
				Input:          input,
				Output:         outcome.OutputPath,
				Title:          outcome.Invocation.Title,
				FilterGraph:    outcome.Invocation.FilterGraph,
				CommandLine:    outcome.Invocation.CommandLine(ffmpegRunner.Binary()),
				DryRun:         outcome.DryRun,
				TrackSource:    source,
				Tracks:         trackViews(list),
				SizeBytes:      outcome.Result.SizeBytes,
				ElapsedSeconds: outcome.Result.Elapsed.Seconds(),
			}
			if jsonOutput {
				return writeJSON(cmd, summary)
			}
			printMergeSummary(cmd, summary, outcome.Result.Elapsed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&presetName, "preset", "p", "", "Preset name or path (default: the default preset)")
	cmd.Flags().StringVarP(&startTime, "start", "s", "", "Start offset passed to ffmpeg -ss (e.g. 00:01:30 or 90)")
	cmd.Flags().StringVarP(&exportDir, "export-dir", "o", "", "Directory for the merged file (default: paths.export_dir)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the ffmpeg command without running it")
	cmd.Flags().BoolVar(&verifyTracks, "verify-tracks", false, "Probe the input and reject tracks whose source index does not exist")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	edits.register(cmd)
	return cmd
}

// loadMergeTracks picks the track list for a merge and reports where it came
// from.
func loadMergeTracks(ctx context.Context, cc *commandContext, presetName, input string) ([]tracks.Track, string, error) {
	store, err := cc.presetStore()
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(presetName) != "" {
		path, err := cc.resolvePreset(presetName)
		if err != nil {
			return nil, "", err
		}
		list, err := store.Load(path)
		if err != nil {
			return nil, "", err
		}
		return list, path, nil
	}

	list, err := store.LoadDefault()
	if err != nil {
		return nil, "", err
	}
	if len(list) > 0 {
		return list, store.DefaultPath(), nil
	}

	result, err := ffprobe.Inspect(ctx, cc.ffprobeBinary(), input)
	if err != nil {
		return nil, "", fmt.Errorf("no default preset; probing tracks: %w", err)
	}
	return audio.Tracks(result.Streams), "ffprobe", nil
}

func printMergeSummary(cmd *cobra.Command, summary mergeSummary, elapsed time.Duration) {
	out := cmd.OutOrStdout()
	if summary.DryRun {
		fmt.Fprintln(out, summary.CommandLine)
		return
	}
	enabled := 0
	for _, t := range summary.Tracks {
		if t.Enabled {
			enabled++
		}
	}
	fmt.Fprintf(out, "Merged %d audio track(s) into %s\n", enabled, summary.Output)
	fmt.Fprintf(out, "  Title:   %s\n", summary.Title)
	fmt.Fprintf(out, "  Size:    %s\n", humanize.Bytes(uint64(max(summary.SizeBytes, 0))))
	fmt.Fprintf(out, "  Elapsed: %s\n", elapsed.Round(time.Second))
}
