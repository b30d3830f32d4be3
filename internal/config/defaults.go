package config

const (
	defaultExportDir   = "~/.local/share/audiomerge/output"
	defaultPresetDir   = "~/.local/share/audiomerge/presets"
	defaultStateDir    = "~/.local/share/audiomerge"
	defaultLogDir      = "~/.local/share/audiomerge/logs"
	defaultVideoCodec  = "libx264"
	defaultCRF         = 21
	defaultSpeedPreset = "fast"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ExportDir: defaultExportDir,
			PresetDir: defaultPresetDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Encoder: Encoder{
			VideoCodec:  defaultVideoCodec,
			CRF:         defaultCRF,
			SpeedPreset: defaultSpeedPreset,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
