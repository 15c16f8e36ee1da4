package gui

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// level gates GUI debug output on top of whatever the handler allows.
// The package only logs at Debug, so it is silent until SetVerbose.
var level = new(slog.LevelVar)

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	SetLogHandler(nil)
}

// gated drops records below level before they reach the handler.
type gated struct {
	slog.Handler
}

func (g gated) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= level.Level() && g.Handler.Enabled(ctx, l)
}

func (g gated) WithAttrs(attrs []slog.Attr) slog.Handler {
	return gated{g.Handler.WithAttrs(attrs)}
}

func (g gated) WithGroup(name string) slog.Handler {
	return gated{g.Handler.WithGroup(name)}
}

// SetLogHandler routes GUI logging to h. Nil restores the default text
// handler on stderr.
func SetLogHandler(h slog.Handler) {
	if h == nil {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	loggerPtr.Store(slog.New(gated{h}).With("component", "gui"))
}

// SetVerbose enables or disables debug logging for GUI components.
// Call this from main() after parsing flags.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

func logger() *slog.Logger {
	return loggerPtr.Load()
}
