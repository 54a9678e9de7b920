package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	TickRate string `yaml:"tick_rate,omitempty" json:"tick_rate,omitempty"`

	// Top-level config sections
	Keys    *KeyOverrides     `yaml:"keys,omitempty" json:"keys,omitempty"`
	Input   *InputOverrides   `yaml:"input,omitempty" json:"input,omitempty"`
	Loading *LoadingOverrides `yaml:"loading,omitempty" json:"loading,omitempty"`
	Assets  *AssetOverrides   `yaml:"assets,omitempty" json:"assets,omitempty"`
	Stats   *StatsOverrides   `yaml:"stats,omitempty" json:"stats,omitempty"`
}

// KeyOverrides binds actions to terminal keys
type KeyOverrides struct {
	Quit    *string `yaml:"quit,omitempty" json:"quit,omitempty"`
	Inspect *string `yaml:"inspect,omitempty" json:"inspect,omitempty"`
}

// InputOverrides - keyboard polling settings
type InputOverrides struct {
	ReleaseAfter      *string `yaml:"release_after,omitempty" json:"release_after,omitempty"`
	ReleaseAfterTicks *int    `yaml:"release_after_ticks,omitempty" json:"release_after_ticks,omitempty"`
}

// LoadingOverrides - Loading phase settings
type LoadingOverrides struct {
	Manifest       *string `yaml:"manifest,omitempty" json:"manifest,omitempty"`
	Workers        *int    `yaml:"workers,omitempty" json:"workers,omitempty"`
	EmptyCompletes *bool   `yaml:"empty_completes,omitempty" json:"empty_completes,omitempty"`
}

// AssetOverrides - Ready phase asset settings
type AssetOverrides struct {
	Watch *bool `yaml:"watch,omitempty" json:"watch,omitempty"`
}

// StatsOverrides - session stats settings
type StatsOverrides struct {
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// Settings is the fully resolved configuration
type Settings struct {
	TickRate time.Duration

	QuitKey    string
	InspectKey string

	ReleaseAfter      time.Duration
	ReleaseAfterTicks int // 0 = derive from ReleaseAfter and TickRate

	Manifest       string // empty = no assets
	Workers        int
	EmptyCompletes bool // zero-asset loading finishes immediately

	WatchAssets  bool
	StatsEnabled bool
}

// DefaultTickRate is one tick per ~60 Hz frame.
const DefaultTickRate = 16 * time.Millisecond

// DefaultReleaseAfter outlasts common terminal auto-repeat delays.
const DefaultReleaseAfter = 660 * time.Millisecond

// DefaultSettings returns the default settings
func DefaultSettings() Settings {
	return Settings{
		TickRate:          DefaultTickRate,
		QuitKey:           "q",
		InspectKey:        "i",
		ReleaseAfter:      DefaultReleaseAfter,
		ReleaseAfterTicks: 0,
		Manifest:          "",
		Workers:           4,
		EmptyCompletes:    true,
		WatchAssets:       false,
		StatsEnabled:      true,
	}
}

// GetSettings returns settings with user overrides merged with defaults
func (c *Config) GetSettings() (Settings, error) {
	s := DefaultSettings()

	if c.TickRate != "" {
		d, err := time.ParseDuration(c.TickRate)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid tick_rate %q: %w", c.TickRate, err)
		}
		if d <= 0 {
			return Settings{}, fmt.Errorf("invalid tick_rate %q: must be positive", c.TickRate)
		}
		s.TickRate = d
	}

	if c.Keys != nil {
		if c.Keys.Quit != nil {
			s.QuitKey = *c.Keys.Quit
		}
		if c.Keys.Inspect != nil {
			s.InspectKey = *c.Keys.Inspect
		}
	}

	if c.Input != nil {
		if c.Input.ReleaseAfter != nil {
			d, err := time.ParseDuration(*c.Input.ReleaseAfter)
			if err != nil || d <= 0 {
				return Settings{}, fmt.Errorf("invalid input.release_after %q: must be a positive duration", *c.Input.ReleaseAfter)
			}
			s.ReleaseAfter = d
		}
		if c.Input.ReleaseAfterTicks != nil {
			if *c.Input.ReleaseAfterTicks < 0 {
				return Settings{}, fmt.Errorf("invalid input.release_after_ticks %d: must not be negative", *c.Input.ReleaseAfterTicks)
			}
			s.ReleaseAfterTicks = *c.Input.ReleaseAfterTicks
		}
	}

	if c.Loading != nil {
		l := c.Loading
		if l.Manifest != nil {
			s.Manifest = *l.Manifest
		}
		if l.Workers != nil {
			s.Workers = *l.Workers
		}
		if l.EmptyCompletes != nil {
			s.EmptyCompletes = *l.EmptyCompletes
		}
	}

	if c.Assets != nil && c.Assets.Watch != nil {
		s.WatchAssets = *c.Assets.Watch
	}

	if c.Stats != nil && c.Stats.Enabled != nil {
		s.StatsEnabled = *c.Stats.Enabled
	}

	if s.QuitKey == "" {
		return Settings{}, fmt.Errorf("keys.quit must not be empty")
	}
	if s.QuitKey == s.InspectKey {
		return Settings{}, fmt.Errorf("keys.quit and keys.inspect are both bound to %q", s.QuitKey)
	}

	return s, nil
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".gameshell"
	}
	return filepath.Join(configDir, "gameshell")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".gameshell.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from XDG config directory, then merges
// any local .gameshell.yaml config on top (local values take precedence).
func Load() (*Config, error) {
	return LoadFrom(ConfigPath(), LocalConfigPath())
}

// LoadFrom loads and merges the global and local config files at the given
// paths. Missing files are skipped.
func LoadFrom(globalPath, localPath string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}

		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}

		cfg = mergeConfig(cfg, &localCfg)
	}

	return cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{TickRate: global.TickRate}
	if local.TickRate != "" {
		result.TickRate = local.TickRate
	}

	result.Keys = mergeKeys(global.Keys, local.Keys)
	result.Input = mergeInput(global.Input, local.Input)
	result.Loading = mergeLoading(global.Loading, local.Loading)
	result.Assets = mergeAssets(global.Assets, local.Assets)
	result.Stats = mergeStats(global.Stats, local.Stats)

	return result
}

// pick returns local if set, otherwise global.
func pick[T any](global, local *T) *T {
	if local != nil {
		return local
	}
	return global
}

func mergeKeys(global, local *KeyOverrides) *KeyOverrides {
	if global == nil {
		return local
	}
	if local == nil {
		return global
	}
	return &KeyOverrides{
		Quit:    pick(global.Quit, local.Quit),
		Inspect: pick(global.Inspect, local.Inspect),
	}
}

func mergeInput(global, local *InputOverrides) *InputOverrides {
	if global == nil {
		return local
	}
	if local == nil {
		return global
	}
	return &InputOverrides{
		ReleaseAfter:      pick(global.ReleaseAfter, local.ReleaseAfter),
		ReleaseAfterTicks: pick(global.ReleaseAfterTicks, local.ReleaseAfterTicks),
	}
}

func mergeLoading(global, local *LoadingOverrides) *LoadingOverrides {
	if global == nil {
		return local
	}
	if local == nil {
		return global
	}
	return &LoadingOverrides{
		Manifest:       pick(global.Manifest, local.Manifest),
		Workers:        pick(global.Workers, local.Workers),
		EmptyCompletes: pick(global.EmptyCompletes, local.EmptyCompletes),
	}
}

func mergeAssets(global, local *AssetOverrides) *AssetOverrides {
	if global == nil {
		return local
	}
	if local == nil {
		return global
	}
	return &AssetOverrides{Watch: pick(global.Watch, local.Watch)}
}

func mergeStats(global, local *StatsOverrides) *StatsOverrides {
	if global == nil {
		return local
	}
	if local == nil {
		return global
	}
	return &StatsOverrides{Enabled: pick(global.Enabled, local.Enabled)}
}

// DefaultConfig returns a config with every default spelled out
func DefaultConfig() *Config {
	s := DefaultSettings()
	releaseAfter := s.ReleaseAfter.String()
	return &Config{
		TickRate: s.TickRate.String(),
		Keys: &KeyOverrides{
			Quit:    &s.QuitKey,
			Inspect: &s.InspectKey,
		},
		Input: &InputOverrides{
			ReleaseAfter: &releaseAfter,
		},
		Loading: &LoadingOverrides{
			Manifest:       &s.Manifest,
			Workers:        &s.Workers,
			EmptyCompletes: &s.EmptyCompletes,
		},
		Assets: &AssetOverrides{Watch: &s.WatchAssets},
		Stats:  &StatsOverrides{Enabled: &s.StatsEnabled},
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# gameshell configuration file
# See: gameshell config defaults  (for all available options)

# Time between ticks
tick_rate: 16ms

# Asset manifest loaded during the Loading phase (optional)
# loading:
#   manifest: assets.yaml
#   empty_completes: true

# Key bindings (optional)
# keys:
#   quit: q
#   inspect: i

# How long a key stays held without a repeat event (optional)
# input:
#   release_after: 660ms
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
