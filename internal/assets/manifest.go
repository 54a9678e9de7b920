// Package assets loads the files declared in an asset manifest and keeps
// them available by name.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrDuplicateAsset is returned when two manifest entries share a name.
var ErrDuplicateAsset = errors.New("duplicate asset name")

// Entry declares one asset to load.
type Entry struct {
	Name string `yaml:"name" toml:"name"`
	Path string `yaml:"path" toml:"path"`
}

// Manifest is the asset collection loaded during the Loading phase.
type Manifest struct {
	BaseDir string  `yaml:"base_dir,omitempty" toml:"base_dir,omitempty"`
	Assets  []Entry `yaml:"assets" toml:"assets"`
}

// LoadManifest reads and validates a manifest. Files ending in .toml are
// parsed as TOML, anything else as YAML. A relative base_dir is resolved
// against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := unmarshalManifest(path, data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if !filepath.IsAbs(m.BaseDir) {
		m.BaseDir = filepath.Join(filepath.Dir(path), m.BaseDir)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks that every entry has a unique name and a path.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Assets))
	for i, e := range m.Assets {
		if e.Name == "" {
			return fmt.Errorf("asset %d: missing name", i)
		}
		if e.Path == "" {
			return fmt.Errorf("asset %q: missing path", e.Name)
		}
		if seen[e.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateAsset, e.Name)
		}
		seen[e.Name] = true
	}
	return nil
}

// Len returns the number of declared assets.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Assets)
}

// Resolve returns the on-disk path of e.
func (m *Manifest) Resolve(e Entry) string {
	if filepath.IsAbs(e.Path) {
		return e.Path
	}
	return filepath.Join(m.BaseDir, e.Path)
}

func unmarshalManifest(path string, data []byte, m *Manifest) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, m)
	}
	return yaml.Unmarshal(data, m)
}
