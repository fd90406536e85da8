// Package logging configures the process-wide slog logger: a human-readable
// handler on stderr at the requested level plus a rotated JSON debug log
// under the user's home directory.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDir      = ".podbridge/logs"
	logFileName = "podbridge.log"

	maxLogFileMB  = 10
	maxLogBackups = 2
)

// multiHandler fans out slog records to multiple handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// Setup installs the default slog logger: a text handler on stderr at the
// given level, and a rotated JSON file at Debug level under
// ~/.podbridge/logs. Returns a cleanup function closing the file sink.
func Setup(level slog.Level) (cleanup func(), err error) {
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}
	cleanup = func() {}

	home, homeErr := os.UserHomeDir()
	if homeErr == nil {
		sink := &lumberjack.Logger{
			Filename:   filepath.Join(home, logDir, logFileName),
			MaxSize:    maxLogFileMB,
			MaxBackups: maxLogBackups,
		}
		handlers = append(handlers, newJSONHandler(sink))
		cleanup = func() { sink.Close() }
	}

	if len(handlers) == 1 {
		slog.SetDefault(slog.New(handlers[0]))
	} else {
		slog.SetDefault(slog.New(&multiHandler{handlers: handlers}))
	}

	if homeErr != nil {
		return cleanup, fmt.Errorf("cannot determine home directory for log file: %w", homeErr)
	}
	return cleanup, nil
}

// newJSONHandler returns a debug-level slog JSON handler with source shortening.
func newJSONHandler(w *lumberjack.Logger) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if src, ok := a.Value.Any().(*slog.Source); ok {
					dir := filepath.Base(filepath.Dir(src.File))
					file := filepath.Base(src.File)
					a.Value = slog.StringValue(fmt.Sprintf("%s/%s:%d", dir, file, src.Line))
				}
			}
			return a
		},
	})
}
