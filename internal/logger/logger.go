package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

var defaultLogger *slog.Logger

// Options controls where and how much the CLI logs.
type Options struct {
	// Verbose lowers the level from Info to Debug.
	Verbose bool
	// LogFile, when set, additionally appends JSON records to this file.
	LogFile string
	// NoColor disables ANSI colours on the console handler.
	NoColor bool
}

// consoleHandler returns a tint handler when w is a terminal and a JSON handler otherwise.
func consoleHandler(w io.Writer, level slog.Level, noColor bool) slog.Handler {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    noColor,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// openLogFile opens path for appending, creating its directory if needed.
func openLogFile(path string) (*os.File, error) {
	// Create directory with appropriate permissions (0750: user rwx, group rx, others ---)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("error creating log directory for %s: %w", path, err)
	}
	// Open file for appending (0640: user rw, group r, others ---)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("error opening log file %s: %w", path, err)
	}
	return file, nil
}

// fanout sends every record to all of its handlers.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// InitLogger configures the package logger. It logs to stderr and, if requested,
// to a file. A log file that cannot be opened is reported and skipped.
// The returned function closes the log file.
func InitLogger(opts Options) (closeFn func() error) {
	return initLogger(os.Stderr, opts)
}

func initLogger(console io.Writer, opts Options) func() error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	handlers := fanout{consoleHandler(console, level, opts.NoColor)}
	closeFn := func() error { return nil }

	var fileErr error
	if opts.LogFile != "" {
		file, err := openLogFile(opts.LogFile)
		if err != nil {
			fileErr = err
		} else {
			handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}))
			closeFn = file.Close
		}
	}

	if len(handlers) == 1 {
		defaultLogger = slog.New(handlers[0])
	} else {
		defaultLogger = slog.New(handlers)
	}

	if fileErr != nil {
		Warn("File logging disabled", "error", fileErr)
	}
	return closeFn
}

// checkLogger ensures the logger is initialized before use, preventing nil panics.
func checkLogger() {
	if defaultLogger == nil {
		InitLogger(Options{})
	}
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	checkLogger()
	defaultLogger.Info(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	checkLogger()
	defaultLogger.Error(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	checkLogger()
	defaultLogger.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	checkLogger()
	defaultLogger.Warn(msg, args...)
}
