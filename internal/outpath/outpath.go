// Package outpath names merged output files.
//
// The name combines the input base name with a short tag built from the
// selected track labels. Existing files are never overwritten: a numbered
// suffix is added instead. The existence check and the later file creation are
// not atomic, so two merges resolving the same name at the same time can race.
package outpath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"audiomerge/internal/services"
	"audiomerge/internal/textutil"
)

const (
	// Suffix is appended to every output base name.
	Suffix = "audio_merged"
	// Extension is the output container extension.
	Extension = ".mp4"

	tagRunes    = 2
	maxAttempts = 10000
)

// ErrExhausted reports that no free numbered name was found.
var ErrExhausted = errors.New("no free output name")

// Tag joins the lowercased first two characters of each label with "_".
func Tag(labels []string) string {
	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = textutil.Lower(textutil.Prefix(label, tagRunes))
	}
	return textutil.ReplaceUnsafe(strings.Join(parts, "_"))
}

// BaseName strips the directory and the last extension from path.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FileName composes the output file name without collision handling.
func FileName(inputBaseName string, labels []string) string {
	return fmt.Sprintf("%s-%s-%s%s", inputBaseName, Tag(labels), Suffix, Extension)
}

// Resolve returns an output path in exportDir (the working directory when
// empty) that does not exist yet. Calling it twice without creating the file
// returns the same path. A relative name starting with "-" gets a "./"
// prefix so ffmpeg does not read it as an option.
func Resolve(inputBaseName string, labels []string, exportDir string) (string, error) {
	candidate := filepath.Join(exportDir, FileName(inputBaseName, labels))
	if strings.HasPrefix(candidate, "-") {
		candidate = "." + string(filepath.Separator) + candidate
	}
	exists, err := pathExists(candidate)
	if err != nil {
		return "", err
	}
	if !exists {
		return candidate, nil
	}

	stem := strings.TrimSuffix(candidate, Extension)
	for n := 1; n <= maxAttempts; n++ {
		numbered := fmt.Sprintf("%s (%d)%s", stem, n, Extension)
		exists, err := pathExists(numbered)
		if err != nil {
			return "", err
		}
		if !exists {
			return numbered, nil
		}
	}
	return "", services.Wrap(services.ErrWrite, "outpath", "resolve", candidate, ErrExhausted)
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, services.Wrap(services.ErrWrite, "outpath", "stat", path, err)
	}
}
