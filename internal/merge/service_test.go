package merge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"audiomerge/internal/filtergraph"
	"audiomerge/internal/history"
	"audiomerge/internal/media/ffprobe"
	"audiomerge/internal/runner"
	"audiomerge/internal/services"
	"audiomerge/internal/tracks"
)

type fakeExecutor struct {
	calls    []filtergraph.Invocation
	expected time.Duration
	err      error
}

func (f *fakeExecutor) Binary() string { return "ffmpeg" }

func (f *fakeExecutor) RunWithProgress(_ context.Context, inv filtergraph.Invocation, expected time.Duration, _ runner.ProgressFunc) (runner.Result, error) {
	f.calls = append(f.calls, inv)
	f.expected = expected
	if f.err != nil {
		return runner.Result{}, f.err
	}
	if err := os.WriteFile(inv.OutputPath, []byte("mp4"), 0o644); err != nil {
		return runner.Result{}, err
	}
	return runner.Result{OutputPath: inv.OutputPath, SizeBytes: 3}, nil
}

type fakeRecorder struct {
	records []history.Record
}

func (f *fakeRecorder) Add(_ context.Context, rec history.Record) (history.Record, error) {
	f.records = append(f.records, rec)
	return rec, nil
}

func movieModel() *tracks.Model {
	return tracks.NewModel([]tracks.Track{
		{Label: "English", Enabled: true, Volume: 100, SourceIndex: 0},
		{Label: "Commentary", Enabled: false, Volume: 50, SourceIndex: 1},
		{Label: "French", Enabled: true, Volume: 150, SourceIndex: 2},
	})
}

func setup(t *testing.T) (string, string, *fakeExecutor, *fakeRecorder, *Service) {
	t.Helper()
	base := t.TempDir()
	input := filepath.Join(base, "movie.mkv")
	if err := os.WriteFile(input, []byte("mkv"), 0o644); err != nil {
		t.Fatal(err)
	}
	exportDir := filepath.Join(base, "export")
	exec := &fakeExecutor{}
	rec := &fakeRecorder{}
	svc := NewService(exec, rec, Options{ExportDir: exportDir, Encoder: filtergraph.DefaultEncoder()}, nil)
	svc.WithProber(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{
			Streams: []ffprobe.Stream{{CodecType: "video"}, {CodecType: "audio"}, {CodecType: "audio"}, {CodecType: "audio"}},
			Format:  ffprobe.Format{Duration: "600"},
		}, nil
	})
	return input, exportDir, exec, rec, svc
}

func TestMergeMovieScenario(t *testing.T) {
	input, exportDir, exec, rec, svc := setup(t)

	outcome, err := svc.Merge(context.Background(), Request{InputPath: input, Model: movieModel()})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := filepath.Join(exportDir, "movie-en_fr-audio_merged.mp4")
	if outcome.OutputPath != want {
		t.Fatalf("output = %q, want %q", outcome.OutputPath, want)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("expected one ffmpeg run, got %d", len(exec.calls))
	}
	if got := exec.calls[0].FilterGraph; got != "[0:a:0]volume=1.0[a0];[0:a:2]volume=1.5[a2];[a0][a2]amerge=inputs=2[aout]" {
		t.Fatalf("graph = %q", got)
	}
	if len(rec.records) != 1 || rec.records[0].Status != history.StatusSucceeded || rec.records[0].ID != outcome.ID {
		t.Fatalf("history = %+v", rec.records)
	}

	second, err := svc.Merge(context.Background(), Request{InputPath: input, Model: movieModel()})
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(exportDir, "movie-en_fr-audio_merged (1).mp4"); second.OutputPath != want {
		t.Fatalf("second output = %q, want %q", second.OutputPath, want)
	}
}

func TestMergeDryRun(t *testing.T) {
	input, exportDir, exec, rec, svc := setup(t)
	outcome, err := svc.Merge(context.Background(), Request{InputPath: input, Model: movieModel(), DryRun: true, StartTime: "00:00:10"})
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.DryRun || len(exec.calls) != 0 || len(rec.records) != 0 {
		t.Fatalf("dry run should not execute or record: %+v", outcome)
	}
	if outcome.Invocation.Args[0] != "-ss" || outcome.Invocation.Args[1] != "00:00:10" {
		t.Fatalf("args = %q", outcome.Invocation.Args)
	}
	if _, err := os.Stat(exportDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run should not create the export dir: %v", err)
	}
}

func TestMergeEmptySelection(t *testing.T) {
	input, _, exec, rec, svc := setup(t)
	model := tracks.NewModel([]tracks.Track{{Label: "English", Volume: 100}})
	_, err := svc.Merge(context.Background(), Request{InputPath: input, Model: model})
	if !errors.Is(err, tracks.ErrEmptySelection) {
		t.Fatalf("err = %v, want ErrEmptySelection", err)
	}
	if len(exec.calls) != 0 || len(rec.records) != 0 {
		t.Fatal("nothing should run for an empty selection")
	}
}

func TestMergeMissingInput(t *testing.T) {
	_, _, _, _, svc := setup(t)
	_, err := svc.Merge(context.Background(), Request{InputPath: "/nonexistent/movie.mkv", Model: movieModel()})
	if !errors.Is(err, ErrInputNotFound) || !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestMergeVerifySources(t *testing.T) {
	input, _, exec, _, svc := setup(t)
	model := tracks.NewModel([]tracks.Track{{Label: "Ghost", Enabled: true, Volume: 100, SourceIndex: 5}})
	_, err := svc.Merge(context.Background(), Request{InputPath: input, Model: model, VerifySources: true})
	if !errors.Is(err, filtergraph.ErrInvalidSource) {
		t.Fatalf("err = %v, want ErrInvalidSource", err)
	}
	if len(exec.calls) != 0 {
		t.Fatal("ffmpeg must not run")
	}
}

func TestMergeExpectedDuration(t *testing.T) {
	input, _, exec, _, svc := setup(t)
	_, err := svc.Merge(context.Background(), Request{
		InputPath:  input,
		Model:      movieModel(),
		StartTime:  "1:00",
		OnProgress: func(runner.Progress) {},
	})
	if err != nil {
		t.Fatal(err)
	}
	if exec.expected != 9*time.Minute {
		t.Fatalf("expected duration = %v, want 9m", exec.expected)
	}
}

func TestMergeRecordsFailure(t *testing.T) {
	input, _, exec, rec, svc := setup(t)
	exec.err = &runner.ExecutionError{ExitCode: 1, Diagnostics: "Invalid argument"}
	_, err := svc.Merge(context.Background(), Request{InputPath: input, Model: movieModel()})
	if !errors.Is(err, runner.ErrExecution) {
		t.Fatalf("err = %v", err)
	}
	if len(rec.records) != 1 {
		t.Fatalf("records = %d", len(rec.records))
	}
	got := rec.records[0]
	if got.Status != history.StatusFailed || got.ErrorKind != "external_tool" || !strings.Contains(got.ErrorMessage, "Invalid argument") {
		t.Fatalf("record = %+v", got)
	}
}

func TestParseStartOffset(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
		ok    bool
	}{
		{"", 0, true},
		{"90", 90 * time.Second, true},
		{"1:30", 90 * time.Second, true},
		{"01:00:00", time.Hour, true},
		{"00:00:01.5", 1500 * time.Millisecond, true},
		{"1.5:00", 0, false},
		{"abc", 0, false},
		{"1::2", 0, false},
		{"1:2:3:4", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseStartOffset(tt.value)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseStartOffset(%q) = %v, %v; want %v, %v", tt.value, got, ok, tt.want, tt.ok)
		}
	}
}
