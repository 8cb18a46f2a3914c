// Package logger provides the structured, levelled logger used across the
// service, built on log/slog.
//
// Handlers should log through WithCtx so every line carries the request ID
// stamped by the request logger middleware:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("booking created", "test_id", id)
//	// → time=... level=INFO msg="booking created" request_id=3f2c... test_id=65f0...
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/diagnocare/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

// baseHandler writes JSON in production and human-readable text elsewhere.
func baseHandler() slog.Handler {
	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// Tee makes L write to both the console handler and extra. Used to attach
// the MongoDB sink at boot.
func Tee(extra slog.Handler) {
	L = slog.New(NewMultiHandler(baseHandler(), extra))
	slog.SetDefault(L)
}

// Use replaces L outright (tests use this to capture output).
func Use(l *slog.Logger) {
	L = l
	slog.SetDefault(l)
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the request-scoped logger injected by the request logger
// middleware, or L when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }
