package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type ctxKey string

const correlationIDKey ctxKey = "correlationID"

// GenerateCorrelationID creates a new UUID for tracing one logical operation
// (an import run, a migration sweep) across log lines.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context containing the correlation ID.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// CorrelationIDFromContext extracts the correlation ID from the context, if present.
func CorrelationIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(correlationIDKey)
	if v == nil {
		return "", false
	}
	if id, ok := v.(string); ok {
		return id, true
	}
	return "", false
}

// FromContext returns a logger that includes the correlation_id attribute when present.
func FromContext(ctx context.Context) *slog.Logger {
	if id, ok := CorrelationIDFromContext(ctx); ok {
		return slog.Default().With(AttrKeyCorrelationID, id)
	}
	return slog.Default()
}

// InitLogger installs the configured handler as the process default.
func InitLogger(config Config) {
	InitLoggerWithWriter(config, os.Stdout)
}

// InitLoggerWithWriter installs the configured handler writing to w.
// Split out so tests can capture output.
func InitLoggerWithWriter(config Config, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level:     config.LogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	handler = handler.WithAttrs(config.BaseAttributes())
	slog.SetDefault(slog.New(handler))
}

// Debug logs at debug level using the process default logger.
func Debug(msg string, args ...any) {
	slog.Default().Debug(msg, args...)
}

// Info logs at info level using the process default logger.
func Info(msg string, args ...any) {
	slog.Default().Info(msg, args...)
}

// Warn logs at warn level using the process default logger.
func Warn(msg string, args ...any) {
	slog.Default().Warn(msg, args...)
}

// Error logs at error level using the process default logger.
func Error(msg string, args ...any) {
	slog.Default().Error(msg, args...)
}
