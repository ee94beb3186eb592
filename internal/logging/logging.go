// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// ScoreIDKey is the context key for the catalog id of the score being
	// processed.
	ScoreIDKey ContextKey = "score_id"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	// Initialize with a default logger (JSON format, Info level)
	InitLogger(LevelInfo, FormatJSON)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// ParseLevel maps a level name (debug, info, warn, error) to a Level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// ParseFormat maps "json" or "text" to a Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "json", "":
		return FormatJSON, true
	case "text":
		return FormatText, true
	}
	return FormatJSON, false
}

// InitLogger initializes the global logger with the specified level and format.
// Logs go to stderr so that exported documents can be piped from stdout.
func InitLogger(level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Customize timestamp format
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// WithScoreID adds a catalog score id to the context.
func WithScoreID(ctx context.Context, scoreID string) context.Context {
	return context.WithValue(ctx, ScoreIDKey, scoreID)
}

// GetScoreID retrieves the score id from the context.
func GetScoreID(ctx context.Context) string {
	if scoreID, ok := ctx.Value(ScoreIDKey).(string); ok {
		return scoreID
	}
	return ""
}

// LoggerFromContext returns a logger with context values attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if scoreID := GetScoreID(ctx); scoreID != "" {
		logger = logger.With("score_id", scoreID)
	}
	return logger
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// DebugContext logs a debug message with context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Debug(msg, args...)
}

// InfoContext logs an info message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Info(msg, args...)
}

// LinkerUnplaced logs a parsed object the linker could not place in the
// tree.
func LinkerUnplaced(parentKind, childKind string, args ...any) {
	allArgs := []any{
		"parent_kind", parentKind,
		"child_kind", childKind,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Debug("linker_unplaced", allArgs...)
}

// ScoreLoaded logs a document read from a source file.
func ScoreLoaded(path, format string, instruments int, args ...any) {
	allArgs := []any{
		"path", path,
		"format", format,
		"instruments", instruments,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("score_loaded", allArgs...)
}

// StoreEvent logs content store and catalog events.
func StoreEvent(event, hash string, args ...any) {
	allArgs := []any{
		"event", event,
		"hash", hash,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("store_event", allArgs...)
}

// ReaderWarning logs a recoverable problem found while reading a source
// document.
func ReaderWarning(format string, line int, msg string, args ...any) {
	allArgs := []any{
		"format", format,
		"line", line,
		"message", msg,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Warn("reader_warning", allArgs...)
}
