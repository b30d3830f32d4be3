package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"audiomerge/internal/filtergraph"
	"audiomerge/internal/logging"
	"audiomerge/internal/services"
)

const diagnosticLines = 20

// ErrExecution marks ffmpeg launch failures and nonzero exits.
var ErrExecution = fmt.Errorf("%w: ffmpeg execution failed", services.ErrExternalTool)

// ExecutionError carries ffmpeg's exit status and the tail of its stderr.
type ExecutionError struct {
	Binary      string
	ExitCode    int
	Diagnostics string
	Err         error
}

func (e *ExecutionError) Error() string {
	var b strings.Builder
	b.WriteString(ErrExecution.Error())
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " (exit status %d)", e.ExitCode)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Diagnostics != "" {
		b.WriteString(": ")
		b.WriteString(e.Diagnostics)
	}
	return b.String()
}

func (e *ExecutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExecution}
	}
	return []error{ErrExecution, e.Err}
}

// commandRunner starts binary with args and feeds every stderr line to onLine
// until the process exits.
type commandRunner func(ctx context.Context, binary string, args []string, onLine func(string)) error

// Result describes a successful run.
type Result struct {
	OutputPath string
	Elapsed    time.Duration
	SizeBytes  int64
}

// Runner executes ffmpeg invocations one at a time.
type Runner struct {
	binary string
	logger *slog.Logger
	run    commandRunner
}

// New constructs a runner for the given ffmpeg binary.
func New(binary string, logger *slog.Logger) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Runner{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "runner"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (r *Runner) WithCommandRunner(run commandRunner) {
	if r != nil && run != nil {
		r.run = run
	}
}

// Binary returns the ffmpeg command the runner executes.
func (r *Runner) Binary() string {
	return r.binary
}

// Run executes inv and blocks until ffmpeg exits.
func (r *Runner) Run(ctx context.Context, inv filtergraph.Invocation) (Result, error) {
	return r.RunWithProgress(ctx, inv, 0, nil)
}

// RunWithProgress executes inv, reporting progress against the expected output
// duration. A zero duration reports positions with an unknown percentage.
func (r *Runner) RunWithProgress(ctx context.Context, inv filtergraph.Invocation, expected time.Duration, onProgress ProgressFunc) (Result, error) {
	if len(inv.Args) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "runner", "run", "empty invocation", nil)
	}
	logger := logging.WithContext(ctx, r.logger)

	preexisting := fileExists(inv.OutputPath)
	tail := newTailBuffer(diagnosticLines)
	sampler := logging.NewProgressSampler(0)

	onLine := func(line string) {
		position, ok := ParseProgressTime(line)
		if !ok {
			tail.add(line)
			return
		}
		p := newProgress(position, expected)
		if onProgress != nil {
			onProgress(p)
		}
		if sampler.ShouldLog(p.Percent, "encode") {
			logger.Debug("ffmpeg progress",
				logging.String("position", position.Truncate(time.Second).String()),
				logging.Float64("percent", p.Percent))
		}
	}

	logger.Info("starting ffmpeg",
		logging.String("binary", r.binary),
		logging.String("output", inv.OutputPath),
		logging.String("filter_graph", inv.FilterGraph))

	started := time.Now()
	err := r.run(ctx, r.binary, inv.Args, onLine)
	elapsed := time.Since(started)
	if err != nil {
		execErr := &ExecutionError{
			Binary:      r.binary,
			ExitCode:    exitCode(err),
			Diagnostics: tail.String(),
			Err:         err,
		}
		if !preexisting {
			r.removePartial(logger, inv.OutputPath)
		}
		logging.ErrorWithContext(logger, "ffmpeg failed", "ffmpeg_failed",
			logging.Error(err),
			logging.Int("exit_code", execErr.ExitCode),
			logging.String(logging.FieldErrorHint, "check the diagnostics above and the selected track indexes"))
		return Result{}, execErr
	}

	result := Result{OutputPath: inv.OutputPath, Elapsed: elapsed}
	if info, statErr := os.Stat(inv.OutputPath); statErr == nil {
		result.SizeBytes = info.Size()
	}
	logger.Info("ffmpeg finished",
		logging.String("output", inv.OutputPath),
		logging.Duration("elapsed", elapsed),
		logging.Int64("size_bytes", result.SizeBytes))
	return result, nil
}

func (r *Runner) removePartial(logger *slog.Logger, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	err := os.Remove(path)
	switch {
	case err == nil:
		logger.Info("removed incomplete output", logging.String("output", path))
	case errors.Is(err, fs.ErrNotExist):
	default:
		logging.WarnWithContext(logger, "failed to remove incomplete output", "cleanup_failed",
			logging.String("output", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the file manually"),
			logging.String(logging.FieldImpact, "a truncated video remains in the export directory"))
	}
}

func fileExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// defaultCommandRunner runs ffmpeg with stdin closed and streams stderr.
func defaultCommandRunner(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = io.Discard
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanLinesOrCR)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// Keep draining so ffmpeg never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, stderr)
	}

	if err := cmd.Wait(); err != nil {
		return err
	}
	if scanErr != nil {
		return fmt.Errorf("read ffmpeg output: %w", scanErr)
	}
	return nil
}
