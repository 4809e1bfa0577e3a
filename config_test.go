// config_test.go - Configuration and logging tests

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
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dsp.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
sample_rate = 44100
bpm = 96
crossfade_blocks = 4
log_modules = "vm,swap"

[server]
enabled = true
listen = "127.0.0.1:9000"

[render]
workers = 2
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, float32(44100), cfg.SampleRate)
	assert.Equal(t, float32(96), cfg.BPM)
	assert.Equal(t, 4, cfg.CrossfadeBlocks)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, 2, cfg.Render.Workers)
	assert.Equal(t, 8.0, cfg.Render.Seconds, "unset keys keep their defaults")
	assert.Equal(t, DEFAULT_ARENA_MIB, cfg.ArenaMiB)

	vc := cfg.VMConfig()
	assert.Equal(t, float32(44100), vc.SampleRate)
	assert.Equal(t, 4, vc.CrossfadeBlocks)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"sample rate": "sample_rate = 1000",
		"bpm":         "bpm = 0",
		"crossfade":   "crossfade_blocks = 9",
		"arena":       "arena_mib = 0",
		"slew":        "default_slew_ms = -1",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.ErrorIs(t, err, ErrConfig)
		})
	}

	_, err := LoadConfig(writeConfig(t, "bpm = ["))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfig)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLogger_ModuleFilter(t *testing.T) {
	t.Cleanup(func() { InitLogger(os.Stderr, "info", "") })

	var buf bytes.Buffer
	InitLogger(&buf, "debug", "render, swap")
	logInfo(LOG_VM, "hidden")
	logDebug(LOG_RENDER, "shown", "frames", 128)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "module=render")
	assert.Contains(t, out, "frames=128")

	buf.Reset()
	InitLogger(&buf, "warn", "")
	logInfo(LOG_VM, "quiet")
	logWarn(LOG_VM, "loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("TRACE"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel(" warning "))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("bogus"))
}
