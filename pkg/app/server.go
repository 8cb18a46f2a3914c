package app

// pkg/app/server.go bridges Application to internal/server, which owns the
// listen and graceful-shutdown lifecycle.

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/diagnocare/internal/server"
	"github.com/shashiranjanraj/diagnocare/pkg/logger"
)

// Serve listens on addr until ctx is cancelled, drains in-flight requests,
// then runs the shutdown hooks.
func (a *Application) Serve(ctx context.Context, addr string) error {
	err := server.Run(ctx, addr, a.Handler())
	return errors.Join(err, a.Shutdown(context.Background()))
}

// Shutdown runs the shutdown hooks in reverse order and joins their errors.
func (a *Application) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if err := a.shutdown[i](ctx); err != nil {
			logger.Error("shutdown hook failed", "error", err)
			errs = append(errs, err)
		}
	}
	a.shutdown = nil
	return errors.Join(errs...)
}
