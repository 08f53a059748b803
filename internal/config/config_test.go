package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vscroll/internal/eventbus"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cs := &configService{filePath: path}

	cfg := DefaultConfig()
	cfg.Scroll.PageSize = 42
	cfg.Source.Kind = SourceDir
	cfg.Source.Dir = "/tmp"
	cfg.UI.ShowHelp = false

	require.NoError(t, cs.Save(cfg))

	loaded, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromPathKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[scroll]
page_size = 30

[source]
kind = "synthetic"
rows = 500
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := NewConfigService().LoadFromPath(path)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, 30, cfg.Scroll.PageSize)
	assert.Equal(t, def.Scroll.SegmentSize, cfg.Scroll.SegmentSize)
	assert.Equal(t, 500, cfg.Source.Rows)
	assert.Equal(t, def.Source.PageSize, cfg.Source.PageSize)
	assert.True(t, cfg.UI.ShowPlaceholders)
}

func TestLoadFromPathErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewConfigService().LoadFromPath(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[scroll\npage_size = "), 0644))
	_, err = NewConfigService().LoadFromPath(bad)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	cs := &configService{filePath: filepath.Join(t.TempDir(), "config.toml")}

	cfg, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	def := DefaultConfig()

	tests := []struct {
		name  string
		edit  func(c *Config)
		check func(t *testing.T, c *Config)
	}{
		{
			name: "negative page size renders everything",
			edit: func(c *Config) { c.Scroll.PageSize = -3 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 0, c.Scroll.PageSize)
			},
		},
		{
			name: "segment size at least one",
			edit: func(c *Config) { c.Scroll.SegmentSize = 0 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, def.Scroll.SegmentSize, c.Scroll.SegmentSize)
			},
		},
		{
			name: "trigger ratio out of range",
			edit: func(c *Config) { c.Scroll.TriggerRatio = 4 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, def.Scroll.TriggerRatio, c.Scroll.TriggerRatio)
			},
		},
		{
			name: "unknown source kind",
			edit: func(c *Config) { c.Source.Kind = "ftp" },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, SourceSynthetic, c.Source.Kind)
			},
		},
		{
			name: "row height at least one line",
			edit: func(c *Config) { c.Source.MaxRowHeight = 0 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 1, c.Source.MaxRowHeight)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			cfg.Validate()
			tt.check(t, cfg)
		})
	}
}

func TestScrollOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scroll.PageSize = 12

	opts := cfg.ScrollOptions()
	assert.Equal(t, 12, opts.PageSize)
	assert.Equal(t, cfg.Scroll.SegmentSize, opts.SegmentSize)
	assert.Equal(t, cfg.Scroll.TriggerRatio, opts.TriggerRatio)
}

func TestSavePublishesEvent(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	saved := make(chan string, 1)
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		saved <- e.(eventbus.ConfigSavedEvent).Path
	})

	path := filepath.Join(t.TempDir(), "config.toml")
	cs := &configService{bus: bus, filePath: path}
	require.NoError(t, cs.Save(DefaultConfig()))

	select {
	case got := <-saved:
		assert.Equal(t, path, got)
	case <-time.After(time.Second):
		t.Fatal("ConfigSaved was not published")
	}
}
