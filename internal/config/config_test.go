package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"audiomerge/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantExport := filepath.Join(tempHome, ".local", "share", "audiomerge", "output")
	if cfg.Paths.ExportDir != wantExport {
		t.Fatalf("unexpected export dir: got %q want %q", cfg.Paths.ExportDir, wantExport)
	}
	wantPresets := filepath.Join(tempHome, ".local", "share", "audiomerge", "presets")
	if cfg.Paths.PresetDir != wantPresets {
		t.Fatalf("unexpected preset dir: got %q want %q", cfg.Paths.PresetDir, wantPresets)
	}
	if cfg.DefaultPresetPath() != filepath.Join(wantPresets, "default_preset.json") {
		t.Fatalf("unexpected default preset path: %q", cfg.DefaultPresetPath())
	}
	if cfg.Encoder.VideoCodec != "libx264" || cfg.Encoder.CRF != 21 || cfg.Encoder.SpeedPreset != "fast" {
		t.Fatalf("unexpected encoder defaults: %+v", cfg.Encoder)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ExportDir, cfg.Paths.PresetDir, cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "audiomerge.toml")

	type payload struct {
		Paths struct {
			ExportDir string `toml:"export_dir"`
		} `toml:"paths"`
		Encoder struct {
			CRF         int    `toml:"crf"`
			SpeedPreset string `toml:"speed_preset"`
		} `toml:"encoder"`
	}
	custom := payload{}
	custom.Paths.ExportDir = filepath.Join(tempDir, "out")
	custom.Encoder.CRF = 18
	custom.Encoder.SpeedPreset = " Slow "
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.ExportDir != filepath.Join(tempDir, "out") {
		t.Fatalf("unexpected export dir %q", cfg.Paths.ExportDir)
	}
	if cfg.Encoder.CRF != 18 {
		t.Fatalf("expected crf 18, got %d", cfg.Encoder.CRF)
	}
	if cfg.Encoder.SpeedPreset != "slow" {
		t.Fatalf("expected normalized speed preset, got %q", cfg.Encoder.SpeedPreset)
	}
	if cfg.Encoder.VideoCodec != "libx264" {
		t.Fatalf("expected default codec to survive partial config, got %q", cfg.Encoder.VideoCodec)
	}
}

func TestEnvFallbackForBinaries(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AUDIOMERGE_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("AUDIOMERGE_FFPROBE", "ffprobe-custom")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpeg.FFmpegBinary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary %q", cfg.FFmpeg.FFmpegBinary)
	}
	if cfg.FFmpeg.FFprobeBinary != "ffprobe-custom" {
		t.Fatalf("bare command names should not be expanded, got %q", cfg.FFmpeg.FFprobeBinary)
	}
}

func TestResolvePresetPath(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.PresetDir = "/presets"

	tests := []struct {
		input string
		want  string
	}{
		{"", "/presets/default_preset.json"},
		{"movie", "/presets/movie.json"},
		{"movie.json", "/presets/movie.json"},
		{"/elsewhere/p.json", "/elsewhere/p.json"},
	}
	for _, tt := range tests {
		got, err := cfg.ResolvePresetPath(tt.input)
		if err != nil {
			t.Fatalf("ResolvePresetPath(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ResolvePresetPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "default_preset.json") {
		t.Fatalf("sample config missing preset note: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Encoder.CRF != 21 {
		t.Fatalf("expected sample crf 21, got %d", cfg.Encoder.CRF)
	}
	if !strings.Contains(cfg.Paths.ExportDir, "audiomerge") {
		t.Fatalf("expected export dir to contain audiomerge, got %q", cfg.Paths.ExportDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Encoder.CRF = 60
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for crf out of range")
	}

	cfg = config.Default()
	cfg.Encoder.SpeedPreset = "warp"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown speed preset")
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}

	cfg = config.Default()
	cfg.Paths.PresetDir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty preset dir")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
