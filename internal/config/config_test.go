package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carrot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_ClassicRound(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10, cfg.Game.DurationSeconds)
	assert.Equal(t, 10, cfg.Game.Carrots)
	assert.Equal(t, 10, cfg.Game.Bugs)
	assert.False(t, cfg.Game.PadSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := writeFile(t, `
game:
  duration_seconds: 30
  carrots: 5
  bugs: 0
  pad_seconds: true
web:
  tick_interval: 250ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Game.DurationSeconds)
	assert.Equal(t, 5, cfg.Game.Carrots)
	assert.Equal(t, 0, cfg.Game.Bugs)
	assert.True(t, cfg.Game.PadSeconds)
	assert.Equal(t, 250*time.Millisecond, cfg.Web.TickInterval)
	// Untouched sections keep defaults.
	assert.Equal(t, 800, cfg.Field.Width)
	assert.Equal(t, ":8080", cfg.Web.Addr)
}

func TestLoad_ExplicitZeroOverridesDefault(t *testing.T) {
	cfg, err := Load(writeFile(t, `
field:
  placement_attempts: 0
sound:
  enabled: false
`))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Field.PlacementAttempts)
	assert.False(t, cfg.Sound.Enabled)
	// Missing keys in the same sections keep defaults.
	assert.Equal(t, 48, cfg.Field.ItemWidth)
	assert.Equal(t, 48000, cfg.Sound.SampleRate)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	_, err := Load(writeFile(t, "game:\n  carots: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carots")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero duration":   func(c *Config) { c.Game.DurationSeconds = 0 },
		"zero carrots":    func(c *Config) { c.Game.Carrots = 0 },
		"negative bugs":   func(c *Config) { c.Game.Bugs = -1 },
		"zero field":      func(c *Config) { c.Field.Width = 0 },
		"zero item":       func(c *Config) { c.Field.ItemHeight = 0 },
		"item too big":    func(c *Config) { c.Field.ItemWidth = c.Field.Width + 1 },
		"negative budget": func(c *Config) { c.Field.PlacementAttempts = -1 },
		"negative rate":   func(c *Config) { c.Sound.SampleRate = -1 },
		"zero web tick":   func(c *Config) { c.Web.TickInterval = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoad_InvalidValueWrapsErrInvalid(t *testing.T) {
	_, err := Load(writeFile(t, "game:\n  carrots: -2\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMarshal_RoundTrips(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)
	path := writeFile(t, string(data))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
