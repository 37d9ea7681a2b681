package galley

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/galley/atlas"
	"github.com/gogpu/galley/outline"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for galley and its sub-packages.
// By default, galley produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// Log levels used by galley:
//   - [slog.LevelDebug]: glyph rasterization, atlas growth, font parsing
//   - [slog.LevelInfo]: font construction
//   - [slog.LevelWarn]: glyphs substituted by the replacement glyph, atlas full
//
// Example:
//
//	galley.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	atlas.SetLogger(l)
	outline.SetLogger(l)
}

// Logger returns the current logger used by galley.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
