package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lmittmann/tint"
)

var dl atomic.Pointer[slog.Logger]

type requestIDKey struct{}

// Init replaces the process-wide logger. Pretty output uses tint, everything
// else is JSON.
func Init(w io.Writer, logLevel string, pretty bool) error {
	level, err := ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	var handler slog.Handler
	if pretty {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}

	Set(slog.New(handler))
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return level, nil
}

func Set(l *slog.Logger) {
	dl.Store(l)
}

func L() *slog.Logger {
	if l := dl.Load(); l != nil {
		return l
	}
	return slog.Default()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelDebug, msg, attrs)
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelInfo, msg, attrs)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelWarn, msg, attrs)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelError, msg, attrs)
}

func log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	if id := RequestID(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	L().LogAttrs(ctx, level, msg, attrs...)
}
