// dsp_log.go - Module-tagged structured logging

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
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Log modules
const (
	LOG_VM      = "vm"
	LOG_STATE   = "state"
	LOG_SWAP    = "swap"
	LOG_SERVER  = "server"
	LOG_RENDER  = "render"
	LOG_CONSOLE = "console"
	LOG_SCRIPT  = "script"
)

type moduleLogger struct {
	inner   *slog.Logger
	mu      sync.RWMutex
	enabled map[string]bool // nil means every module
}

var dspLogger atomic.Pointer[moduleLogger]

func init() {
	InitLogger(os.Stderr, "info", "")
}

// ParseLogLevel maps a config name to a slog level. Unknown names mean info.
func ParseLogLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace", "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "crit":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger installs a text logger writing to w. modules is a comma
// separated allow list; empty enables all modules.
func InitLogger(w io.Writer, level string, modules string) {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLogLevel(level)})
	l := &moduleLogger{inner: slog.New(h)}
	l.setModules(modules)
	dspLogger.Store(l)
}

func (l *moduleLogger) setModules(modules string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if strings.TrimSpace(modules) == "" {
		l.enabled = nil
		return
	}
	l.enabled = make(map[string]bool)
	for _, m := range strings.Split(modules, ",") {
		if m = strings.TrimSpace(m); m != "" {
			l.enabled[m] = true
		}
	}
}

func (l *moduleLogger) allowed(module string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled == nil || l.enabled[module]
}

func logWrite(level slog.Level, module, msg string, kv ...any) {
	l := dspLogger.Load()
	if l == nil || !l.allowed(module) {
		return
	}
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	l.inner.Log(context.Background(), level, msg, append([]any{"module", module}, kv...)...)
}

func logDebug(module, msg string, kv ...any) { logWrite(slog.LevelDebug, module, msg, kv...) }
func logInfo(module, msg string, kv ...any)  { logWrite(slog.LevelInfo, module, msg, kv...) }
func logWarn(module, msg string, kv ...any)  { logWrite(slog.LevelWarn, module, msg, kv...) }
func logError(module, msg string, kv ...any) { logWrite(slog.LevelError, module, msg, kv...) }
