package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Tool names resolved by ResolveTool.
const (
	FFmpeg  = "ffmpeg"
	FFprobe = "ffprobe"
)

// ResolveTool picks the command used for an ffmpeg-suite binary. An explicit
// configured value wins. Otherwise a bundled copy at <exe dir>/ffmpeg/bin/<name>
// is preferred, matching the layout release archives ship with, and the bare
// name is left for PATH lookup.
func ResolveTool(configured, name string) string {
	if trimmed := strings.TrimSpace(configured); trimmed != "" {
		return trimmed
	}
	exe, err := os.Executable()
	if err != nil {
		return name
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return resolveFrom(filepath.Dir(exe), name)
}

func resolveFrom(exeDir, name string) string {
	if candidate, ok := bundledCandidate(exeDir, name); ok {
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return candidate
		}
	}
	return name
}

// Requirements lists the binaries a merge needs, already resolved.
func Requirements(ffmpegCommand, ffprobeCommand string) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ResolveTool(ffmpegCommand, FFmpeg),
			Description: "Mixes the selected audio tracks and writes the output video",
		},
		{
			Name:        "FFprobe",
			Command:     ResolveTool(ffprobeCommand, FFprobe),
			Description: "Lists audio tracks and reports duration for progress",
			Optional:    true,
		},
	}
}

func bundledCandidate(exeDir, name string) (string, bool) {
	if exeDir == "" || name == "" {
		return "", false
	}
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(exeDir, "ffmpeg", "bin", name), true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
