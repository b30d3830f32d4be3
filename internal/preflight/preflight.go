package preflight

import "audiomerge/internal/config"

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll checks the configured directories.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Preset directory", cfg.Paths.PresetDir))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	// Export directory (when configured; merges fall back to the working directory)
	if cfg.Paths.ExportDir != "" {
		results = append(results, CheckDirectoryAccess("Export directory", cfg.Paths.ExportDir))
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
