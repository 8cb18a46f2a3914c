package app

// pkg/app/kernel.go builds the router from the Application config. It has no
// imports of project code; routes arrive through Application.Routes.

import (
	"github.com/shashiranjanraj/diagnocare/pkg/metrics"
	"github.com/shashiranjanraj/diagnocare/pkg/middleware"
	"github.com/shashiranjanraj/diagnocare/pkg/reqid"
	"github.com/shashiranjanraj/diagnocare/pkg/router"
)

func buildRouter(a *Application) *router.Router {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics, outermost for accurate total latency
	//  2. Recovery, so a panic anywhere below answers 500
	//  3. Request ID, before anything logs
	//  4. Logger, tags lines with the request ID
	//  5. CORS
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(a.middlewares...)

	r.Get("/metrics", "metrics", metrics.Handler())

	for _, fn := range a.routesFns {
		fn(r)
	}
	return r
}
