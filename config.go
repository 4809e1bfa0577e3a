// config.go - Engine and host configuration

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

var ErrConfig = errors.New("invalid config")

// Config is the TOML file layout. Zero fields fall back to the defaults.
type Config struct {
	SampleRate      float32 `toml:"sample_rate"`
	BPM             float32 `toml:"bpm"`
	CrossfadeBlocks int     `toml:"crossfade_blocks"`
	FadeBlocks      int     `toml:"fade_blocks"`
	ArenaMiB        int     `toml:"arena_mib"`
	DefaultSlewMs   float32 `toml:"default_slew_ms"`
	StrictStates    bool    `toml:"strict_states"`
	LogLevel        string  `toml:"log_level"`
	LogModules      string  `toml:"log_modules"`

	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
}

type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

type RenderConfig struct {
	Seconds  float64 `toml:"seconds"`
	Workers  int     `toml:"workers"`  // Parallel renders; 0 means one per CPU
	Decimate int     `toml:"decimate"` // Plot keeps every Nth sample
}

func DefaultConfig() Config {
	return Config{
		SampleRate:      DEFAULT_SAMPLE_RATE,
		BPM:             DEFAULT_BPM,
		CrossfadeBlocks: DEFAULT_XFADE_BLOCKS,
		FadeBlocks:      DEFAULT_FADE_BLOCKS,
		ArenaMiB:        DEFAULT_ARENA_MIB,
		DefaultSlewMs:   DEFAULT_SLEW_MS,
		LogLevel:        "info",
		Server:          ServerConfig{Listen: ":7480"},
		Render:          RenderConfig{Seconds: 8, Decimate: 16},
	}
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges the engine cannot clamp on its own.
func (c *Config) Validate() error {
	switch {
	case c.SampleRate < 8000 || c.SampleRate > 192000:
		return fmt.Errorf("%w: sample_rate %g outside 8000..192000", ErrConfig, c.SampleRate)
	case c.BPM <= 0 || c.BPM > 999:
		return fmt.Errorf("%w: bpm %g outside 0..999", ErrConfig, c.BPM)
	case c.CrossfadeBlocks < MIN_CROSSFADE_BLOCKS || c.CrossfadeBlocks > MAX_CROSSFADE_BLOCKS:
		return fmt.Errorf("%w: crossfade_blocks %d outside %d..%d", ErrConfig,
			c.CrossfadeBlocks, MIN_CROSSFADE_BLOCKS, MAX_CROSSFADE_BLOCKS)
	case c.FadeBlocks < 1:
		return fmt.Errorf("%w: fade_blocks must be positive", ErrConfig)
	case c.ArenaMiB < 1 || c.ArenaMiB > 1024:
		return fmt.Errorf("%w: arena_mib %d outside 1..1024", ErrConfig, c.ArenaMiB)
	case c.DefaultSlewMs < 0:
		return fmt.Errorf("%w: default_slew_ms is negative", ErrConfig)
	case c.Render.Seconds < 0:
		return fmt.Errorf("%w: render.seconds is negative", ErrConfig)
	}
	return nil
}

// VMConfig projects the engine settings.
func (c *Config) VMConfig() VMConfig {
	return VMConfig{
		SampleRate:      c.SampleRate,
		BPM:             c.BPM,
		CrossfadeBlocks: c.CrossfadeBlocks,
		FadeBlocks:      c.FadeBlocks,
		ArenaMiB:        c.ArenaMiB,
		DefaultSlewMs:   c.DefaultSlewMs,
		StrictStates:    c.StrictStates,
	}
}

// ApplyLogging installs the configured logger on stderr.
func (c *Config) ApplyLogging() {
	InitLogger(os.Stderr, c.LogLevel, c.LogModules)
}
