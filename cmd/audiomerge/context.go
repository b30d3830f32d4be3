package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"audiomerge/internal/config"
	"audiomerge/internal/deps"
	"audiomerge/internal/filtergraph"
	"audiomerge/internal/history"
	"audiomerge/internal/logging"
	"audiomerge/internal/preset"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) presetStore() (*preset.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return preset.NewStore(cfg.Paths.PresetDir, logger), nil
}

// openHistory opens the merge history database. Callers close it.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func (c *commandContext) ffmpegBinary() string {
	cfg := c.configValue()
	if cfg == nil {
		return deps.ResolveTool("", deps.FFmpeg)
	}
	return deps.ResolveTool(cfg.FFmpeg.FFmpegBinary, deps.FFmpeg)
}

func (c *commandContext) ffprobeBinary() string {
	cfg := c.configValue()
	if cfg == nil {
		return deps.ResolveTool("", deps.FFprobe)
	}
	return deps.ResolveTool(cfg.FFmpeg.FFprobeBinary, deps.FFprobe)
}

func (c *commandContext) encoder() filtergraph.Encoder {
	cfg := c.configValue()
	if cfg == nil {
		return filtergraph.DefaultEncoder()
	}
	return filtergraph.Encoder{
		VideoCodec:  cfg.Encoder.VideoCodec,
		CRF:         cfg.Encoder.CRF,
		SpeedPreset: cfg.Encoder.SpeedPreset,
	}
}

// resolvePreset maps a --preset value onto a file path. Empty means the
// default preset.
func (c *commandContext) resolvePreset(name string) (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.ResolvePresetPath(name)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
