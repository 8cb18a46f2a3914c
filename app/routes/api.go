// Package routes mounts the HTTP API. Every route is public, behind
// Authenticate, or behind Authenticate then RequireAdmin.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/diagnocare/app/controllers"
	"github.com/shashiranjanraj/diagnocare/pkg/ctx"
	"github.com/shashiranjanraj/diagnocare/pkg/middleware"
	"github.com/shashiranjanraj/diagnocare/pkg/rbac"
	"github.com/shashiranjanraj/diagnocare/pkg/router"
)

// Controllers bundles what RegisterAPI mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Users    *controllers.UserController
	Content  *controllers.ContentController
	Tests    *controllers.TestController
	Bookings *controllers.BookingController
	Payments *controllers.PaymentController
}

// Gates are the two guards protected routes sit behind.
type Gates struct {
	Tokens middleware.TokenVerifier
	Roles  rbac.RoleLookup
}

func RegisterAPI(r *router.Router, c Controllers, g Gates) {
	r.Get("/", "home", ctx.Wrap(func(x *ctx.Context) {
		x.String(http.StatusOK, "DiagnoCare Server is running")
	}))
	r.NotFound(ctx.Wrap(func(x *ctx.Context) { x.NotFound() }))

	// ─── Public ───────────────────────────────────────────────────────────
	r.Post("/jwt", "auth.token", ctx.Wrap(c.Auth.Token))
	r.Post("/users", "users.register", ctx.Wrap(c.Auth.Register))
	r.Get("/banner", "banners.index", ctx.Wrap(c.Content.Banners))
	r.Get("/tests", "tests.index", ctx.Wrap(c.Tests.Index))
	r.Get("/featured-tests", "tests.featured", ctx.Wrap(c.Tests.Featured))

	// ─── Authenticated ────────────────────────────────────────────────────
	authed := r.Group("/", middleware.Authenticate(g.Tokens))
	authed.Get("/user/{email}", "users.show", ctx.Wrap(c.Users.Show))
	authed.Get("/recommend", "recommendations.index", ctx.Wrap(c.Content.Recommendations))
	authed.Get("/testDetails/{id}", "tests.show", ctx.Wrap(c.Tests.Show))
	authed.Post("/booking", "bookings.store", ctx.Wrap(c.Bookings.Store))
	authed.Post("/bookings", "bookings.book", ctx.Wrap(c.Bookings.Book))
	authed.Patch("/update-slots/{id}", "tests.slots", ctx.Wrap(c.Bookings.UpdateSlots))
	authed.Get("/booking/{email}", "bookings.by_email", ctx.Wrap(c.Bookings.ByEmail))
	authed.Delete("/booking-test/{id}", "bookings.cancel", ctx.Wrap(c.Bookings.Cancel))
	authed.Post("/create-payment-intent", "payments.intent", ctx.Wrap(c.Payments.CreateIntent))

	// ─── Admin ────────────────────────────────────────────────────────────
	admin := authed.Group("/", rbac.RequireAdmin(g.Roles))
	admin.Get("/users", "users.index", ctx.Wrap(c.Users.Index))
	admin.Patch("/roleUpdate/{id}", "users.role", ctx.Wrap(c.Users.UpdateRole))
	admin.Patch("/statusUpdate/{id}", "users.status", ctx.Wrap(c.Users.UpdateStatus))
	admin.Post("/banner", "banners.store", ctx.Wrap(c.Content.StoreBanner))
	admin.Patch("/bannerUpdate/{id}", "banners.update", ctx.Wrap(c.Content.UpdateBanner))
	admin.Post("/tests", "tests.store", ctx.Wrap(c.Tests.Store))
	admin.Delete("/test/{id}", "tests.delete", ctx.Wrap(c.Tests.Destroy))
	admin.Patch("/update-test/{id}", "tests.update", ctx.Wrap(c.Tests.Update))
	admin.Get("/reservation", "reservations.index", ctx.Wrap(c.Bookings.Reservations))
	admin.Get("/bookings/test/{bookingId}", "reservations.by_booking_id", ctx.Wrap(c.Bookings.ByBookingID))
	admin.Delete("/booking-reservation/{id}", "reservations.cancel", ctx.Wrap(c.Bookings.Cancel))
}
