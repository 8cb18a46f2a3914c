// Package kernel wires DiagnoCare together: store, cache, event bus,
// services, controllers and the route table. Boot builds everything from
// config; New takes ready-made dependencies so tests can run the full HTTP
// stack over the in-memory store.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shashiranjanraj/diagnocare/app/controllers"
	"github.com/shashiranjanraj/diagnocare/app/models"
	"github.com/shashiranjanraj/diagnocare/app/repositories"
	"github.com/shashiranjanraj/diagnocare/app/routes"
	"github.com/shashiranjanraj/diagnocare/app/services"
	"github.com/shashiranjanraj/diagnocare/config"
	"github.com/shashiranjanraj/diagnocare/pkg/app"
	"github.com/shashiranjanraj/diagnocare/pkg/auth"
	"github.com/shashiranjanraj/diagnocare/pkg/cache"
	"github.com/shashiranjanraj/diagnocare/pkg/database"
	"github.com/shashiranjanraj/diagnocare/pkg/event"
	"github.com/shashiranjanraj/diagnocare/pkg/logger"
	"github.com/shashiranjanraj/diagnocare/pkg/payment"
	"github.com/shashiranjanraj/diagnocare/pkg/router"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
	"github.com/shashiranjanraj/diagnocare/pkg/workerpool"
)

// TokenTTL is how long issued access tokens stay valid.
const TokenTTL = time.Hour

const (
	eventWorkers = 4
	eventQueue   = 256
)

// Deps are the outside-world dependencies of the service.
type Deps struct {
	DB       store.Database
	Cache    *cache.Store // nil disables caching
	Tokens   *auth.TokenService
	Payments controllers.PaymentIntents

	FeaturedTTL time.Duration
}

// Kernel holds the wired service graph.
type Kernel struct {
	DB     store.Database
	Cache  *cache.Store
	Tokens *auth.TokenService
	Pool   *workerpool.Pool
	Bus    *event.Bus

	Auth     *services.AuthService
	Catalog  *services.CatalogService
	Bookings *services.BookingService

	controllers routes.Controllers
	logSink     *logger.MongoHandler
}

// New wires services and controllers over d.
func New(d Deps) *Kernel {
	pool := workerpool.New(eventWorkers, eventQueue)
	bus := event.NewBus(pool)

	users := repositories.NewUsers(d.DB)
	tests := repositories.NewTests(d.DB)
	bookings := repositories.NewBookings(d.DB)

	k := &Kernel{
		DB:     d.DB,
		Cache:  d.Cache,
		Tokens: d.Tokens,
		Pool:   pool,
		Bus:    bus,
	}
	k.Auth = services.NewAuthService(d.Tokens, users)
	k.Catalog = services.NewCatalogService(tests, d.Cache, d.FeaturedTTL, bus)
	k.Bookings = services.NewBookingService(d.DB, tests, bookings, bus)

	k.controllers = routes.Controllers{
		Auth:     controllers.NewAuthController(k.Auth),
		Users:    controllers.NewUserController(users),
		Content:  controllers.NewContentController(repositories.NewBanners(d.DB), repositories.NewRecommendations(d.DB)),
		Tests:    controllers.NewTestController(k.Catalog),
		Bookings: controllers.NewBookingController(k.Bookings),
		Payments: controllers.NewPaymentController(d.Payments),
	}
	return k
}

// Boot connects to everything config names and wires the service.
func Boot(ctx context.Context) (*Kernel, error) {
	db, raw, err := database.Connect(ctx, models.UniqueFields())
	if err != nil {
		return nil, fmt.Errorf("kernel: boot: %w", err)
	}

	c, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword())
	if err != nil {
		// The featured list is served straight from the store without Redis.
		logger.Warn("redis unavailable, caching disabled", "error", err)
		c = nil
	}

	k := New(Deps{
		DB:          db,
		Cache:       c,
		Tokens:      auth.NewTokenService(config.JWTSecret(), TokenTTL),
		Payments:    payment.NewAdapter(payment.NewStripe(config.StripeSecretKey()), config.StripeCurrency()),
		FeaturedTTL: config.FeaturedCacheTTL(),
	})

	if config.LogToMongo() && raw != nil {
		k.logSink = logger.NewMongoHandler(ctx, raw.Collection("logs"), slog.LevelInfo)
		logger.Tee(k.logSink)
	}
	return k, nil
}

// Application returns the HTTP application with every route mounted and
// Shutdown registered as its shutdown hook.
func (k *Kernel) Application() *app.Application {
	return app.New().
		Routes(func(r *router.Router) {
			routes.RegisterAPI(r, k.controllers, routes.Gates{Tokens: k.Tokens, Roles: k.Auth})
		}).
		OnShutdown(k.Shutdown)
}

// Handler is shorthand for Application().Handler().
func (k *Kernel) Handler() http.Handler {
	return k.Application().Handler()
}

// Shutdown drains background events, flushes the log sink, then closes the
// store and the cache.
func (k *Kernel) Shutdown(ctx context.Context) error {
	k.Pool.Shutdown()
	if k.logSink != nil {
		k.logSink.Close()
	}
	var errs []error
	if err := k.DB.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("kernel: close store: %w", err))
	}
	if err := k.Cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("kernel: close cache: %w", err))
	}
	return errors.Join(errs...)
}
