package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"vscroll/internal/eventbus"
	"vscroll/internal/virtualscroll"
)

// Source kinds
const (
	SourceSynthetic = "synthetic"
	SourceDir       = "dir"
)

// Config represents the application configuration
type Config struct {
	Version int            `toml:"version"`
	Scroll  ScrollSettings `toml:"scroll"`
	Source  SourceSettings `toml:"source"`
	UI      UISettings     `toml:"ui"`
}

// ScrollSettings tunes the windowing engine
type ScrollSettings struct {
	PageSize     int     `toml:"page_size"`
	SegmentSize  int     `toml:"segment_size"`
	TriggerRatio float64 `toml:"trigger_ratio"`
}

// SourceSettings selects where rows come from
type SourceSettings struct {
	Kind         string `toml:"kind"`
	Dir          string `toml:"dir"`
	Rows         int    `toml:"rows"`      // synthetic: rows available in each direction
	PageSize     int    `toml:"page_size"` // rows fetched per load
	Seed         int64  `toml:"seed"`
	MaxRowHeight int    `toml:"max_row_height"` // synthetic: detail lines per row
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowPlaceholders bool `toml:"show_placeholders"`
	ShowHelp         bool `toml:"show_help"`
}

// ScrollOptions converts the scroll section into engine options
func (c *Config) ScrollOptions() virtualscroll.Options {
	return virtualscroll.Options{
		PageSize:     c.Scroll.PageSize,
		SegmentSize:  c.Scroll.SegmentSize,
		TriggerRatio: c.Scroll.TriggerRatio,
	}
}

// Validate clamps values that would make the engine or the loader misbehave
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Scroll.PageSize < 0 {
		c.Scroll.PageSize = 0
	}
	if c.Scroll.SegmentSize < 1 {
		c.Scroll.SegmentSize = def.Scroll.SegmentSize
	}
	if c.Scroll.TriggerRatio <= 0 || c.Scroll.TriggerRatio > 1 {
		c.Scroll.TriggerRatio = def.Scroll.TriggerRatio
	}
	if c.Source.Kind != SourceSynthetic && c.Source.Kind != SourceDir {
		c.Source.Kind = def.Source.Kind
	}
	if c.Source.Rows < 0 {
		c.Source.Rows = 0
	}
	if c.Source.PageSize < 1 {
		c.Source.PageSize = def.Source.PageSize
	}
	if c.Source.MaxRowHeight < 1 {
		c.Source.MaxRowHeight = 1
	}
	if c.Source.Dir == "" {
		c.Source.Dir = "."
	}
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "vscroll", "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Path returns the default config file location
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the default location, falling back to
// defaults when no file exists yet
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to the default location
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Validate()

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	opts := virtualscroll.DefaultOptions()
	return &Config{
		Version: 1,
		Scroll: ScrollSettings{
			PageSize:     opts.PageSize,
			SegmentSize:  opts.SegmentSize,
			TriggerRatio: opts.TriggerRatio,
		},
		Source: SourceSettings{
			Kind:         SourceSynthetic,
			Dir:          ".",
			Rows:         100000,
			PageSize:     200,
			Seed:         1,
			MaxRowHeight: 3,
		},
		UI: UISettings{
			ShowPlaceholders: true,
			ShowHelp:         true,
		},
	}
}
