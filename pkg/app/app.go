// Package app assembles the HTTP handler: the global middleware stack, the
// /metrics endpoint and whatever routes the project registers.
//
//	a := app.New().
//	    Routes(func(r *router.Router) { routes.RegisterAPI(r, c, g) }).
//	    OnShutdown(k.Shutdown)
//	err := a.Serve(ctx, ":"+config.AppPort())
package app

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/diagnocare/pkg/router"
)

// Application is the HTTP side of the service. Build one with New, attach
// routes and shutdown hooks, then call Serve.
type Application struct {
	routesFns   []func(*router.Router)
	middlewares []router.Middleware
	shutdown    []func(context.Context) error
}

// New creates an empty Application.
func New() *Application {
	return &Application{}
}

// Routes registers a route-registration callback. Callbacks run in order
// when the handler is built.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Use appends middleware after the built-in global stack.
func (a *Application) Use(mw ...router.Middleware) *Application {
	a.middlewares = append(a.middlewares, mw...)
	return a
}

// OnShutdown registers a hook run after the HTTP server has drained, in
// reverse registration order.
func (a *Application) OnShutdown(fn func(context.Context) error) *Application {
	a.shutdown = append(a.shutdown, fn)
	return a
}

// Handler builds the full http.Handler.
func (a *Application) Handler() http.Handler {
	return buildRouter(a).Handler()
}

// RouteTable lists every route the application mounts.
func (a *Application) RouteTable() []router.RouteInfo {
	return buildRouter(a).Routes()
}
