package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/tworld/internal/scripting"
)

// LoadFile reads a world file, choosing the decoder by extension: .yaml and
// .yml are YAML, .lua is a script that assigns a global `world` table.
//
// Precondition: path must point to a readable world file.
// Postcondition: Returns a validated World or a non-nil error.
func LoadFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return LoadYAML(data)
	case ".lua":
		return LoadLua(data, filepath.Base(path))
	default:
		return nil, fmt.Errorf("world file %s: unsupported extension %q", path, ext)
	}
}

// LoadYAML parses and validates a world from YAML bytes.
//
// Postcondition: Returns a validated World or a non-nil error.
func LoadYAML(data []byte) (*World, error) {
	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing world YAML: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("validating world: %w", err)
	}
	return &w, nil
}

// LoadLua runs src in a sandbox and decodes its global `world` table with
// the YAML schema.
func LoadLua(src []byte, name string) (*World, error) {
	v, err := scripting.Eval(string(src), name, "world", 0)
	if err != nil {
		return nil, err
	}
	// Re-encode so both formats share one decoder.
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: encoding world table: %w", name, err)
	}
	w, err := LoadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return w, nil
}
