// Package config loads game settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full settings tree. Load starts from Default, so keys missing
// from a file keep their defaults; a key set explicitly, even to 0 or false,
// replaces the default.
type Config struct {
	Game  GameConfig  `yaml:"game"`
	Field FieldConfig `yaml:"field"`
	Sound SoundConfig `yaml:"sound"`
	Log   LogConfig   `yaml:"log"`
	Web   WebConfig   `yaml:"web"`
}

// GameConfig holds the rules of one round.
type GameConfig struct {
	DurationSeconds int  `yaml:"duration_seconds"`
	Carrots         int  `yaml:"carrots"`
	Bugs            int  `yaml:"bugs"`
	PadSeconds      bool `yaml:"pad_seconds"` // timer shows 0:05 instead of 0:5
}

// FieldConfig is the playfield geometry in window pixels. The terminal
// frontend derives its own geometry from the screen size.
type FieldConfig struct {
	Width             int   `yaml:"width"`
	Height            int   `yaml:"height"`
	ItemWidth         int   `yaml:"item_width"`
	ItemHeight        int   `yaml:"item_height"`
	PlacementAttempts int   `yaml:"placement_attempts"`
	Seed              int64 `yaml:"seed"` // 0 = seed from the clock
}

// SoundConfig controls audio output.
type SoundConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir"` // optional <cue>.wav overrides
	SampleRate int    `yaml:"sample_rate"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty = stderr
}

// WebConfig controls the browser frontend.
type WebConfig struct {
	Addr         string        `yaml:"addr"`
	TickInterval time.Duration `yaml:"tick_interval"`
}

// Default is the classic round: ten seconds, ten carrots, ten bugs.
func Default() Config {
	return Config{
		Game: GameConfig{
			DurationSeconds: 10,
			Carrots:         10,
			Bugs:            10,
		},
		Field: FieldConfig{
			Width:             800,
			Height:            300,
			ItemWidth:         48,
			ItemHeight:        48,
			PlacementAttempts: 64,
		},
		Sound: SoundConfig{
			Enabled:    true,
			SampleRate: 48000,
		},
		Log: LogConfig{
			Level: "info",
		},
		Web: WebConfig{
			Addr:         ":8080",
			TickInterval: 100 * time.Millisecond,
		},
	}
}

// Load reads path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	checks := []struct {
		bad bool
		msg string
	}{
		{c.Game.DurationSeconds <= 0, "game.duration_seconds must be > 0"},
		{c.Game.Carrots <= 0, "game.carrots must be > 0"},
		{c.Game.Bugs < 0, "game.bugs must be >= 0"},
		{c.Field.Width <= 0 || c.Field.Height <= 0, "field.width and field.height must be > 0"},
		{c.Field.ItemWidth <= 0 || c.Field.ItemHeight <= 0, "field.item_width and field.item_height must be > 0"},
		{c.Field.ItemWidth > c.Field.Width || c.Field.ItemHeight > c.Field.Height, "field items must fit inside the field"},
		{c.Field.PlacementAttempts < 0, "field.placement_attempts must be >= 0"},
		{c.Sound.SampleRate < 0, "sound.sample_rate must be >= 0"},
		{c.Web.TickInterval <= 0, "web.tick_interval must be > 0"},
	}
	for _, chk := range checks {
		if chk.bad {
			return fmt.Errorf("%w: %s", ErrInvalid, chk.msg)
		}
	}
	return nil
}

// Marshal renders cfg as YAML, used to print an example file.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
