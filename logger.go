package shapego

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with shapego-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRepresenter adds the representer name and dataset type.
func (l *Logger) WithRepresenter(name, datasetType string) *Logger {
	return &Logger{
		Logger: l.Logger.With("representer", name, "dataset_type", datasetType),
	}
}

// WithPoints adds a reference point count field to the logger.
func (l *Logger) WithPoints(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("points", n),
	}
}

// WithAlignment adds the alignment mode to the logger.
func (l *Logger) WithAlignment(mode AlignmentMode) *Logger {
	return &Logger{
		Logger: l.Logger.With("alignment", mode.String()),
	}
}

// LogConversion logs a dataset or vector conversion.
func (l *Logger) LogConversion(ctx context.Context, op string, points int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "conversion failed",
			"op", op,
			"input_points", points,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "conversion completed",
			"op", op,
			"input_points", points,
		)
	}
}

// LogBatch logs a batch conversion.
func (l *Logger) LogBatch(ctx context.Context, count int, err error) {
	if err != nil {
		l.WarnContext(ctx, "batch conversion failed",
			"count", count,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "batch conversion completed",
			"count", count,
		)
	}
}

// LogSave logs a representer save.
func (l *Logger) LogSave(ctx context.Context, target string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"target", target,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "representer saved",
			"target", target,
		)
	}
}

// LogLoad logs a representer load.
func (l *Logger) LogLoad(ctx context.Context, source string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"source", source,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "representer loaded",
			"source", source,
		)
	}
}
