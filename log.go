package guibridge

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/go-theft-auto/guibridge/gui"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger used by the bridge. The default logger
// discards everything; pass nil to restore it.
//
// Rebuilds are logged at Info, skipped frames and texture traffic at Debug.
// The gui package logs through the same handler, gated by Config.Verbose.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
	gui.SetLogHandler(l.Handler())
}

func logger() *slog.Logger {
	return loggerPtr.Load()
}
