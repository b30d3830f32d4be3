package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeFFmpeg(); err != nil {
		return err
	}
	c.normalizeEncoder()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.PresetDir) == "" {
		c.Paths.PresetDir = defaultPresetDir
	}
	if c.Paths.PresetDir, err = expandPath(c.Paths.PresetDir); err != nil {
		return fmt.Errorf("paths.preset_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	// An empty log dir disables file logging.
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFFmpeg() error {
	if strings.TrimSpace(c.FFmpeg.FFmpegBinary) == "" {
		if value, ok := os.LookupEnv("AUDIOMERGE_FFMPEG"); ok {
			c.FFmpeg.FFmpegBinary = value
		}
	}
	if strings.TrimSpace(c.FFmpeg.FFprobeBinary) == "" {
		if value, ok := os.LookupEnv("AUDIOMERGE_FFPROBE"); ok {
			c.FFmpeg.FFprobeBinary = value
		}
	}
	c.FFmpeg.FFmpegBinary = strings.TrimSpace(c.FFmpeg.FFmpegBinary)
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	var err error
	if strings.ContainsAny(c.FFmpeg.FFmpegBinary, `/\~`) {
		if c.FFmpeg.FFmpegBinary, err = expandPath(c.FFmpeg.FFmpegBinary); err != nil {
			return fmt.Errorf("ffmpeg.ffmpeg_binary: %w", err)
		}
	}
	if strings.ContainsAny(c.FFmpeg.FFprobeBinary, `/\~`) {
		if c.FFmpeg.FFprobeBinary, err = expandPath(c.FFmpeg.FFprobeBinary); err != nil {
			return fmt.Errorf("ffmpeg.ffprobe_binary: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeEncoder() {
	c.Encoder.VideoCodec = strings.TrimSpace(c.Encoder.VideoCodec)
	if c.Encoder.VideoCodec == "" {
		c.Encoder.VideoCodec = defaultVideoCodec
	}
	c.Encoder.SpeedPreset = strings.ToLower(strings.TrimSpace(c.Encoder.SpeedPreset))
	if c.Encoder.SpeedPreset == "" {
		c.Encoder.SpeedPreset = defaultSpeedPreset
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
