// Package logging holds the shared structured logger used by the tensor
// engine packages.
//
// The default logger writes text records to stderr at Warn level, so lossy
// conversions and validation failures surface without flooding hot loops.
// Fatalf and NotNil are the fail-fast path for contract violations: they log
// at error level and panic.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(defaultLogger())
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// Logger returns the active logger.
func Logger() *slog.Logger {
	return current.Load()
}

// SetLogger replaces the active logger. A nil logger restores the default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = defaultLogger()
	}
	current.Store(l)
}

// Fatalf logs msg at error level and panics with it.
func Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	Logger().Error(msg)
	panic(msg)
}

// NotNil panics through Fatalf when p is nil.
func NotNil[T any](p *T, what string) {
	if p == nil {
		Fatalf("%s is nil", what)
	}
}
