package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"audiomerge/internal/filtergraph"
	"audiomerge/internal/services"
)

func invocation(output string) filtergraph.Invocation {
	return filtergraph.Invocation{
		Args:        []string{"-i", "in.mkv", "-filter_complex", "x", output},
		OutputPath:  output,
		FilterGraph: "x",
	}
}

func TestRunPassesArgsAndReportsOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.mp4")
	inv := invocation(output)

	var gotBinary string
	var gotArgs []string
	r := New("/opt/ffmpeg", nil)
	r.WithCommandRunner(func(_ context.Context, binary string, args []string, _ func(string)) error {
		gotBinary, gotArgs = binary, args
		return os.WriteFile(output, []byte("video"), 0o644)
	})

	result, err := r.Run(context.Background(), inv)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotBinary != "/opt/ffmpeg" || !reflect.DeepEqual(gotArgs, inv.Args) {
		t.Fatalf("ran %s %v", gotBinary, gotArgs)
	}
	if result.OutputPath != output || result.SizeBytes != 5 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunFailureCarriesDiagnosticsAndRemovesPartial(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.mp4")

	r := New("", nil)
	r.WithCommandRunner(func(_ context.Context, _ string, _ []string, onLine func(string)) error {
		onLine("Input #0, matroska,webm, from 'in.mkv':")
		onLine("frame=  10 fps=0.0 q=0.0 size=0kB time=00:00:01.00 bitrate=N/A")
		onLine("Stream specifier ':a:5' in filtergraph description matches no streams.")
		_ = os.WriteFile(output, []byte("partial"), 0o644)
		return errors.New("exit status 1")
	})

	_, err := r.Run(context.Background(), invocation(output))
	if !errors.Is(err, ErrExecution) || !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("err = %v, want ErrExecution", err)
	}
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected *ExecutionError, got %T", err)
	}
	if !strings.Contains(execErr.Diagnostics, "matches no streams") {
		t.Fatalf("diagnostics = %q", execErr.Diagnostics)
	}
	if strings.Contains(execErr.Diagnostics, "time=") {
		t.Fatalf("progress lines should not be kept as diagnostics: %q", execErr.Diagnostics)
	}
	if _, statErr := os.Stat(output); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("partial output should be removed, stat err = %v", statErr)
	}
}

func TestRunFailureKeepsPreexistingOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.mp4")
	if err := os.WriteFile(output, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := New("ffmpeg", nil)
	r.WithCommandRunner(func(context.Context, string, []string, func(string)) error {
		return errors.New("boom")
	})
	if _, err := r.Run(context.Background(), invocation(output)); err == nil {
		t.Fatal("expected error")
	}
	if data, err := os.ReadFile(output); err != nil || string(data) != "keep" {
		t.Fatalf("pre-existing file must survive: %q %v", data, err)
	}
}

func TestRunProgress(t *testing.T) {
	r := New("ffmpeg", nil)
	r.WithCommandRunner(func(_ context.Context, _ string, _ []string, onLine func(string)) error {
		onLine("size=1kB time=00:00:30.00 bitrate=1kbits/s")
		onLine("size=2kB time=00:01:00.00 bitrate=1kbits/s")
		onLine("size=2kB time=00:02:30.00 bitrate=1kbits/s")
		return nil
	})

	var got []float64
	_, err := r.RunWithProgress(context.Background(), invocation(filepath.Join(t.TempDir(), "o.mp4")), 2*time.Minute, func(p Progress) {
		got = append(got, p.Percent)
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{25, 50, 100}; !reflect.DeepEqual(got, want) {
		t.Fatalf("percents = %v, want %v", got, want)
	}
}

func TestRunEmptyInvocation(t *testing.T) {
	if _, err := New("ffmpeg", nil).Run(context.Background(), filtergraph.Invocation{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseProgressTime(t *testing.T) {
	tests := []struct {
		line string
		want time.Duration
		ok   bool
	}{
		{"frame=1 time=00:00:01.50 bitrate=", 1500 * time.Millisecond, true},
		{"time=01:02:03.00", time.Hour + 2*time.Minute + 3*time.Second, true},
		{"time= 00:00:05.25", 5250 * time.Millisecond, true},
		{"time=N/A", 0, false},
		{"Duration: 00:10:00.00, start", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseProgressTime(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseProgressTime(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewProgressUnknownTotal(t *testing.T) {
	if p := newProgress(time.Second, 0); p.Percent != -1 {
		t.Fatalf("percent = %v, want -1", p.Percent)
	}
}

func TestTailBuffer(t *testing.T) {
	tail := newTailBuffer(2)
	for _, line := range []string{"a", " ", "b", "c"} {
		tail.add(line)
	}
	if tail.String() != "b\nc" {
		t.Fatalf("tail = %q", tail.String())
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultCommandRunnerSplitsCarriageReturns(t *testing.T) {
	script := writeScript(t, `printf 'time=00:00:01.00\rtime=00:00:02.00\rerror line\n' >&2
exit 3
`)
	var lines []string
	err := defaultCommandRunner(context.Background(), script, nil, func(line string) {
		lines = append(lines, line)
	})
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Fatalf("err = %v, want exit status 3", err)
	}
	want := []string{"time=00:00:01.00", "time=00:00:02.00", "error line"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
}

func TestRunWithStubBinary(t *testing.T) {
	script := writeScript(t, `for last; do :; done
echo "muxing" >&2
printf 'fake' > "$last"
`)
	output := filepath.Join(t.TempDir(), "movie-en-audio_merged.mp4")
	result, err := New(script, nil).Run(context.Background(), invocation(output))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.SizeBytes != 4 {
		t.Fatalf("size = %d, want 4", result.SizeBytes)
	}
}

func TestRunMissingBinary(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), nil).Run(context.Background(), invocation(filepath.Join(t.TempDir(), "o.mp4")))
	var execErr *ExecutionError
	if !errors.As(err, &execErr) || execErr.ExitCode != -1 {
		t.Fatalf("err = %v, want launch failure", err)
	}
}
