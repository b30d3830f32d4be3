package preset

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"audiomerge/internal/logging"
	"audiomerge/internal/services"
	"audiomerge/internal/tracks"
)

// DefaultName is the preset loaded when no explicit preset is chosen.
const DefaultName = "default_preset.json"

var (
	ErrNotFound = fmt.Errorf("%w: preset not found", services.ErrNotFound)
	ErrDecode   = fmt.Errorf("%w: malformed preset", services.ErrDecode)
	ErrWrite    = fmt.Errorf("%w: preset write failed", services.ErrWrite)
)

// Store owns preset files inside a directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore returns a store rooted at dir. A nil logger discards output.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logging.NewComponentLogger(logger, "preset")}
}

// Dir returns the preset directory.
func (s *Store) Dir() string {
	return s.dir
}

// DefaultPath returns the location of the startup preset.
func (s *Store) DefaultPath() string {
	return filepath.Join(s.dir, DefaultName)
}

// Load reads the preset at path.
func (s *Store) Load(path string) ([]tracks.Track, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	lock := flock.New(lockPath(path))
	if err := lock.RLock(); err != nil {
		s.logger.Debug("preset read lock unavailable", logging.String("path", path), logging.Error(err))
	} else {
		defer func() { _ = lock.Unlock() }()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrDecode, path, err)
	}

	list, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.logger.Debug("loaded preset",
		logging.String("path", path),
		logging.Int("track_count", len(list)))
	return list, nil
}

// LoadDefault loads the startup preset. A missing default yields an empty list.
func (s *Store) LoadDefault() ([]tracks.Track, error) {
	list, err := s.Load(s.DefaultPath())
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return list, err
}

// Save writes all tracks to path, replacing any existing file.
func (s *Store) Save(path string, list []tracks.Track) error {
	data, err := Encode(list)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrWrite, dir, err)
	}

	lock := flock.New(lockPath(path))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("%w: lock %s: %v", ErrWrite, path, err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: write %s: %v", ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: write %s: %v", ErrWrite, path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: chmod %s: %v", ErrWrite, path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: rename %s: %v", ErrWrite, path, err)
	}

	s.logger.Info("saved preset",
		logging.String("path", path),
		logging.Int("track_count", len(list)))
	return nil
}

// List returns the preset file names in the store directory, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list presets: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func lockPath(path string) string {
	return path + ".lock"
}
