package merge

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"audiomerge/internal/filtergraph"
	"audiomerge/internal/history"
	"audiomerge/internal/logging"
	"audiomerge/internal/media/ffprobe"
	"audiomerge/internal/outpath"
	"audiomerge/internal/runner"
	"audiomerge/internal/services"
	"audiomerge/internal/tracks"
)

// ErrInputNotFound reports a missing input file.
var ErrInputNotFound = fmt.Errorf("%w: input file not found", services.ErrNotFound)

// Executor runs compiled invocations.
type Executor interface {
	Binary() string
	RunWithProgress(ctx context.Context, inv filtergraph.Invocation, expected time.Duration, onProgress runner.ProgressFunc) (runner.Result, error)
}

// Recorder persists merge outcomes.
type Recorder interface {
	Add(ctx context.Context, rec history.Record) (history.Record, error)
}

// Prober inspects the input container.
type Prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Request describes one merge.
type Request struct {
	InputPath string
	StartTime string
	// ExportDir overrides the service default when non-empty.
	ExportDir string
	Model     *tracks.Model
	DryRun    bool
	// VerifySources probes the input and rejects source indexes beyond its
	// audio stream count.
	VerifySources bool
	OnProgress    runner.ProgressFunc
}

// Outcome describes a completed (or previewed) merge.
type Outcome struct {
	ID         string
	Invocation filtergraph.Invocation
	OutputPath string
	DryRun     bool
	Result     runner.Result
}

// Service wires the merge pipeline together.
type Service struct {
	exec          Executor
	recorder      Recorder
	probe         Prober
	ffprobeBinary string
	encoder       filtergraph.Encoder
	exportDir     string
	logger        *slog.Logger
}

// Options configures a Service.
type Options struct {
	Encoder       filtergraph.Encoder
	ExportDir     string
	FFprobeBinary string
}

// NewService constructs a merge service. recorder may be nil to skip history.
func NewService(exec Executor, recorder Recorder, opts Options, logger *slog.Logger) *Service {
	return &Service{
		exec:          exec,
		recorder:      recorder,
		probe:         ffprobe.Inspect,
		ffprobeBinary: opts.FFprobeBinary,
		encoder:       opts.Encoder,
		exportDir:     opts.ExportDir,
		logger:        logging.NewComponentLogger(logger, "merge"),
	}
}

// WithProber allows injecting a custom prober for tests.
func (s *Service) WithProber(p Prober) {
	if s != nil && p != nil {
		s.probe = p
	}
}

// Merge runs req. Validation failures (no input, empty selection, bad source
// indexes) return before any file is created.
func (s *Service) Merge(ctx context.Context, req Request) (Outcome, error) {
	if req.Model == nil {
		return Outcome{}, tracks.ErrEmptySelection
	}
	input := strings.TrimSpace(req.InputPath)
	if input == "" {
		return Outcome{}, services.Wrap(services.ErrValidation, "merge", "validate", "input path is required", nil)
	}
	if info, err := os.Stat(input); err != nil || info.IsDir() {
		return Outcome{}, fmt.Errorf("%w: %s", ErrInputNotFound, input)
	}

	snapshot, err := req.Model.Snapshot()
	if err != nil {
		return Outcome{}, err
	}

	opts := filtergraph.Options{
		InputPath: input,
		StartTime: req.StartTime,
		Encoder:   s.encoder,
	}
	if _, err := filtergraph.Compile(snapshot, opts); err != nil {
		return Outcome{}, err
	}

	id := history.NewID()
	ctx = services.WithMergeID(ctx, id)
	ctx = services.WithInput(ctx, input)
	logger := logging.WithContext(ctx, s.logger)

	expected, err := s.inspect(ctx, logger, input, snapshot, req)
	if err != nil {
		return Outcome{}, err
	}

	exportDir := strings.TrimSpace(req.ExportDir)
	if exportDir == "" {
		exportDir = s.exportDir
	}
	if exportDir != "" && !req.DryRun {
		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return Outcome{}, services.Wrap(services.ErrWrite, "merge", "create export dir", exportDir, err)
		}
	}

	outputPath, err := outpath.Resolve(outpath.BaseName(input), snapshot.Labels(), exportDir)
	if err != nil {
		return Outcome{}, err
	}
	opts.OutputPath = outputPath
	inv, err := filtergraph.Compile(snapshot, opts)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{ID: id, Invocation: inv, OutputPath: outputPath, DryRun: req.DryRun}
	if req.DryRun {
		logger.Info("dry run: ffmpeg not started",
			logging.String("output", outputPath),
			logging.String("filter_graph", inv.FilterGraph))
		return outcome, nil
	}

	logger.Info("merging audio tracks",
		logging.Int("track_count", len(snapshot)),
		logging.String("title", inv.Title),
		logging.String("output", outputPath))

	started := time.Now()
	result, runErr := s.exec.RunWithProgress(ctx, inv, expected, req.OnProgress)
	finished := time.Now()
	outcome.Result = result

	var errMessage string
	if runErr != nil {
		errMessage = runErr.Error()
	}
	s.record(ctx, logger, history.Record{
		ID:           id,
		InputPath:    input,
		OutputPath:   outputPath,
		Title:        inv.Title,
		FilterGraph:  inv.FilterGraph,
		Args:         inv.Args,
		Status:       statusFor(runErr),
		ErrorKind:    services.Kind(runErr),
		ErrorMessage: errMessage,
		OutputBytes:  result.SizeBytes,
		StartedAt:    started,
		FinishedAt:   &finished,
	})

	if runErr != nil {
		return outcome, runErr
	}
	return outcome, nil
}

// inspect probes the input when verification is requested or progress needs
// a duration. Probe failures only matter when verifying.
func (s *Service) inspect(ctx context.Context, logger *slog.Logger, input string, snapshot tracks.Snapshot, req Request) (time.Duration, error) {
	if !req.VerifySources && (req.DryRun || req.OnProgress == nil) {
		return 0, nil
	}
	result, err := s.probe(ctx, s.ffprobeBinary, input)
	if err != nil {
		if req.VerifySources {
			return 0, err
		}
		logging.WarnWithContext(logger, "ffprobe failed; progress will not show a percentage", "probe_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check ffprobe_binary in the config"),
			logging.String(logging.FieldImpact, "merge continues without a progress estimate"))
		return 0, nil
	}

	if req.VerifySources {
		if err := VerifySources(snapshot, result.AudioStreamCount()); err != nil {
			return 0, err
		}
	}

	seconds := result.DurationSeconds()
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0, nil
	}
	expected := time.Duration(seconds * float64(time.Second))
	if offset, ok := parseStartOffset(req.StartTime); ok {
		expected -= offset
	} else {
		return 0, nil
	}
	if expected < 0 {
		expected = 0
	}
	return expected, nil
}

// VerifySources checks every selected source index against the number of
// audio streams in the input.
func VerifySources(snapshot tracks.Snapshot, audioStreams int) error {
	for _, sel := range snapshot {
		if sel.SourceIndex >= audioStreams {
			return fmt.Errorf("%w: %q uses audio stream %d but the input has %d audio stream(s)",
				filtergraph.ErrInvalidSource, sel.Label, sel.SourceIndex, audioStreams)
		}
	}
	return nil
}

func (s *Service) record(ctx context.Context, logger *slog.Logger, rec history.Record) {
	if s.recorder == nil {
		return
	}
	if _, err := s.recorder.Add(ctx, rec); err != nil {
		logging.WarnWithContext(logger, "failed to record merge history", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the state directory permissions"),
			logging.String(logging.FieldImpact, "this merge will not appear in history"))
	}
}

func statusFor(err error) history.Status {
	if err == nil {
		return history.StatusSucceeded
	}
	return history.StatusFailed
}
