package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"audiomerge/internal/config"
	"audiomerge/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("NO_COLOR", "1")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLI(t, args, env.configPath)
	return out, err
}

func (env *cliTestEnv) input(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(env.baseDir, "media", name)
	testsupport.WriteFile(t, path, 64)
	return path
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
export_dir = %q
preset_dir = %q
state_dir = %q
log_dir = %q

[ffmpeg]
ffmpeg_binary = %q
ffprobe_binary = %q

[logging]
format = "console"
level = "error"
`,
		cfg.Paths.ExportDir,
		cfg.Paths.PresetDir,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.FFmpeg.FFmpegBinary,
		cfg.FFmpeg.FFprobeBinary,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

const twoAudioStreamsJSON = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "h264"},
    {"index": 1, "codec_type": "audio", "codec_name": "aac", "channels": 2, "channel_layout": "stereo",
     "tags": {"language": "eng", "title": "Main"}, "disposition": {"default": 1}},
    {"index": 2, "codec_type": "audio", "codec_name": "ac3", "channels": 6,
     "tags": {"language": "fre"}}
  ],
  "format": {"duration": "120.0", "size": "1024"}
}`
