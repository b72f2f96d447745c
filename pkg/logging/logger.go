// Package logging provides structured logging with tool-invocation tracking.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"
)

// contextKey is used for storing logger in context.
type contextKey struct{}

// Logger wraps slog.Logger with invocation-scoped functionality.
// Output goes to stderr; stdout carries the MCP protocol frames.
type Logger struct {
	*slog.Logger
	tool      string
	startTime time.Time
	stepNum   int
}

// New creates a Logger. format is "text" or "json"; level is one of
// debug/info/warn/error (default info).
func New(format, level string) *Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{Key: "ts", Value: slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05.000"))}
			}
			return a
		},
	}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// Default returns a text logger at info level.
func Default() *Logger {
	return New("text", "info")
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a new Logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		tool:      l.tool,
		startTime: l.startTime,
		stepNum:   l.stepNum,
	}
}

// WithContext returns a new context with the logger attached.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext retrieves the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return l
	}
	return Default()
}

// StartInvocation creates a logger scoped to one tool invocation.
func (l *Logger) StartInvocation(toolName string, attrs ...any) *Logger {
	newLogger := &Logger{
		Logger:    l.Logger.With(append([]any{"tool", toolName}, attrs...)...),
		tool:      toolName,
		startTime: time.Now(),
		stepNum:   0,
	}
	newLogger.Info("invocation started")
	return newLogger
}

// Step logs an invocation step and returns a function to log its completion.
func (l *Logger) Step(stepName string, attrs ...any) func(error) {
	l.stepNum++
	stepStart := time.Now()
	stepLogger := l.With(append([]any{"step", stepName, "step_num", l.stepNum}, attrs...)...)
	stepLogger.Debug("step started")

	return func(err error) {
		elapsed := time.Since(stepStart)
		if err != nil {
			stepLogger.Error("step failed",
				"error", err.Error(),
				"elapsed_ms", elapsed.Milliseconds(),
			)
		} else {
			stepLogger.Debug("step completed",
				"elapsed_ms", elapsed.Milliseconds(),
			)
		}
	}
}

// EndInvocation logs invocation completion.
func (l *Logger) EndInvocation(err error) {
	elapsed := time.Since(l.startTime)
	if err != nil {
		l.Error("invocation failed",
			"error", err.Error(),
			"elapsed_ms", elapsed.Milliseconds(),
		)
	} else {
		l.Info("invocation completed",
			"elapsed_ms", elapsed.Milliseconds(),
		)
	}
}
