// Package logging wraps log/slog with a JSON handler and trace-id helpers.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a nil-safe structured logger.
type Logger struct {
	logger *slog.Logger
}

type Option func(*options)

type options struct {
	writer io.Writer
}

// WithWriter redirects output, mostly for tests.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

func New(level string, opts ...Option) (*Logger, error) {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	writer := cfg.writer
	if writer == nil {
		writer = os.Stdout
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{logger: slog.New(handler)}, nil
}

func MustNew(level string, opts ...Option) *Logger {
	logger, err := New(level, opts...)
	if err != nil {
		panic(err)
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return MustNew("error", WithWriter(io.Discard))
}

func parseLevel(level string) slog.Leveler {
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

// With returns a child logger carrying args on every entry.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.logger == nil {
		return l
	}
	return &Logger{logger: l.logger.With(args...)}
}

func (l *Logger) WithTraceID(traceID string) *Logger {
	return l.With("traceId", traceID)
}

func (l *Logger) WithContext(ctx context.Context) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxLoggerKey{}, l)
}

func FromContext(ctx context.Context) (*Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	logger, ok := ctx.Value(ctxLoggerKey{}).(*Logger)
	return logger, ok
}

// FromContextOr returns the request logger or fallback.
func FromContextOr(ctx context.Context, fallback *Logger) *Logger {
	if logger, ok := FromContext(ctx); ok {
		return logger
	}
	return fallback
}

type ctxLoggerKey struct{}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Log(context.Background(), level, msg, args...)
}

func (l *Logger) SetDefault() {
	if l == nil || l.logger == nil {
		return
	}
	slog.SetDefault(l.logger)
}

// AttachError appends the error attribute when err is not nil.
func AttachError(err error, args ...any) []any {
	if err == nil {
		return args
	}
	return append(args, "error", err.Error())
}
