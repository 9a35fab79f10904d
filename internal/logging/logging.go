// Package logging wires go-logger for postkit. Commands print user-facing
// output through pkg/ui; this logger carries diagnostics, which stay quiet
// unless --verbose raises the level to debug.
package logging

import (
	"strings"
	"sync"

	glog "github.com/goliatone/go-logger/glog"
)

// Logger is the subset of go-logger used across postkit
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	mu   sync.RWMutex
	root *glog.BaseLogger
)

// Configure (re)creates the root logger at the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to warn.
func Configure(level string) {
	mu.Lock()
	defer mu.Unlock()

	root = glog.NewLogger(
		glog.WithLevel(normalizeLevel(level)),
		glog.WithLoggerTypeConsole(),
	)
}

// Get returns a named child logger, configuring the root logger on first use
func Get(name string) Logger {
	mu.RLock()
	r := root
	mu.RUnlock()

	if r == nil {
		Configure("")
		mu.RLock()
		r = root
		mu.RUnlock()
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return r
	}
	return r.GetLogger(name)
}

// Nop returns a logger that discards everything, for tests and defaults
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func normalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return glog.Debug
	case "info":
		return glog.Info
	case "error":
		return glog.Error
	default:
		return glog.Warn
	}
}
