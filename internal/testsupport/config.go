package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"audiomerge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// File logging is disabled. Options run in order after the defaults are set.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ExportDir = filepath.Join(base, "export")
	cfgVal.Paths.PresetDir = filepath.Join(base, "presets")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStubbedBinaries writes stub executables that exit 0 for the provided
// names and prepends them to PATH. If names is empty, ffmpeg and ffprobe are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := b.binDir()
		for _, name := range names {
			writeScript(b.t, filepath.Join(binDir, name), "exit 0\n")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// WithFFmpegScript points ffmpeg_binary at a shell script with the given body.
// The script sees the real ffmpeg arguments; the output path is the last one.
func WithFFmpegScript(body string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.binDir(), "ffmpeg-stub")
		writeScript(b.t, path, body)
		b.cfg.FFmpeg.FFmpegBinary = path
	}
}

// WithFFprobeJSON points ffprobe_binary at a script that prints payload.
func WithFFprobeJSON(payload string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.binDir(), "ffprobe-stub")
		writeScript(b.t, path, "cat <<'JSON'\n"+strings.TrimSpace(payload)+"\nJSON\n")
		b.cfg.FFmpeg.FFprobeBinary = path
	}
}

// CopyingFFmpegScript is an ffmpeg stub body that writes a small file to the
// output path (the last argument) and exits 0.
const CopyingFFmpegScript = `for last; do :; done
printf 'merged' > "$last"
`

func (b *configBuilder) binDir() string {
	dir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	return dir
}

func writeScript(t testing.TB, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
