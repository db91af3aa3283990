// Package logger wraps log/slog with the five severities spec's ambient
// logging section calls for — TRACE, DEBUG, INFO, WARNING, ERROR, plus an
// OFF level that silences everything — and the teacher's
// text-or-JSON-by-config, file-or-stderr-by-config, lumberjack-rotated
// handler setup.
//
// TRACE sits below slog's built-in Debug level, DEBUG is that Debug level
// itself, and OFF sits above Error, so the five map onto a single ordered slog.Level range
// rather than needing a parallel severity type at the handler layer.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tachyon-project/tachyon-master/cfg"
)

// Custom severities, spaced around slog's built-in levels (Debug=-4,
// Info=0, Warn=4, Error=8) so TRACE sits below DEBUG and OFF sits above
// ERROR.
const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
	LevelOff   slog.Level = 12
)

var severityNames = map[slog.Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARNING",
	LevelError: "ERROR",
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		level := a.Value.Any().(slog.Level)
		name, ok := severityNames[level]
		if !ok {
			name = level.String()
		}
		a.Key = "severity"
		a.Value = slog.StringValue(name)
	}
	return a
}

var (
	mu            sync.Mutex
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	programLevel  = new(slog.LevelVar)
	closer        io.Closer
)

func levelFromSeverity(s cfg.LogSeverity) slog.Level {
	switch s {
	case cfg.TraceLogSeverity:
		return LevelTrace
	case cfg.DebugLogSeverity:
		return LevelDebug
	case cfg.InfoLogSeverity:
		return LevelInfo
	case cfg.WarningLogSeverity:
		return LevelWarn
	case cfg.ErrorLogSeverity:
		return LevelError
	default:
		return LevelOff
	}
}

func newHandler(w io.Writer, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: programLevel, ReplaceAttr: replaceAttr}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Init builds the process-wide default logger from a resolved
// LoggingConfig, per spec's ambient logging section. A non-empty FilePath
// routes output through a lumberjack.Logger for size/backup-count/
// compress-governed rotation instead of stderr.
func Init(c cfg.LoggingConfig) error {
	mu.Lock()
	defer mu.Unlock()

	programLevel.Set(levelFromSeverity(c.Severity))

	var w io.Writer = os.Stderr
	if c.FilePath != "" {
		lj := &lumberjack.Logger{
			Filename:   string(c.FilePath),
			MaxSize:    c.LogRotate.MaxFileSizeMb,
			MaxBackups: c.LogRotate.BackupFileCount,
			Compress:   c.LogRotate.Compress,
		}
		w = lj
		closer = lj
	}

	defaultLogger = slog.New(newHandler(w, c.Format))
	return nil
}

// Default returns the process-wide logger, for components (master,
// liveness, scheduler) that want a *slog.Logger to pass around rather
// than calling the package-level Xf helpers.
func Default() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return defaultLogger
}

// Close releases the underlying rotated log file, if one is open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	return closer.Close()
}

func log(level slog.Level, format string, args ...any) {
	l := Default()
	if !l.Enabled(context.Background(), level) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.Log(context.Background(), level, msg)
}

// Tracef logs at TRACE, the level below slog's Debug.
func Tracef(format string, args ...any) { log(LevelTrace, format, args...) }

// Debugf logs at DEBUG.
func Debugf(format string, args ...any) { log(LevelDebug, format, args...) }

// Infof logs at INFO.
func Infof(format string, args ...any) { log(LevelInfo, format, args...) }

// Warnf logs at WARNING.
func Warnf(format string, args ...any) { log(LevelWarn, format, args...) }

// Errorf logs at ERROR.
func Errorf(format string, args ...any) { log(LevelError, format, args...) }
