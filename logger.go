package inochi2d

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/inochi2d/inochi2d-go/native"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called from any goroutine, even though the native
// calls themselves are thread-affine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for inochi2d and the native drivers.
// By default, inochi2d produces no log output. Call SetLogger to enable
// logging. Pass nil to restore the default silent behavior.
//
// Log levels used by inochi2d:
//   - [slog.LevelDebug]: handle lifecycle, camera and viewport changes
//   - [slog.LevelInfo]: library init and cleanup, driver loading
//   - [slog.LevelWarn]: puppet load failures
//
// Example:
//
//	inochi2d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	native.SetLogger(l)
}

// Logger returns the current logger used by inochi2d.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
