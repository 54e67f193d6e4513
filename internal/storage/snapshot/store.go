package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tworld/internal/game/engine"
)

// ErrInvalidName is returned for save names that are empty or contain a path.
var ErrInvalidName = errors.New("invalid save name")

// Store keeps snapshots as YAML files in a directory, one file per save name.
type Store struct {
	dir    string
	logger *zap.Logger
}

var _ engine.Store = (*Store)(nil)

// NewStore creates a Store rooted at dir. The directory is created on first save.
//
// Precondition: dir must be non-empty.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the save directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file a save name maps to.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return filepath.Join(s.dir, name+".yaml"), nil
}

// Save writes the state of g under name, replacing any previous save.
//
// Postcondition: the file is either the complete new snapshot or untouched.
func (s *Store) Save(g *engine.Game, name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	data, err := Marshal(Capture(g))
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating save directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	s.logger.Info("game saved", zap.String("name", name), zap.String("path", path))
	return nil
}

// Load restores g from the save called name.
//
// Postcondition: on error g is unchanged.
func (s *Store) Load(g *engine.Game, name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	snap, err := Unmarshal(data)
	if err != nil {
		return err
	}
	if err := Restore(g, snap); err != nil {
		return fmt.Errorf("restoring %s: %w", name, err)
	}

	s.logger.Info("game loaded", zap.String("name", name), zap.String("path", path))
	return nil
}

// List returns the save names present in the directory, sorted.
func (s *Store) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".yaml"))
	}
	return names, nil
}
