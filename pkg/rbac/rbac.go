// Package rbac gates routes on the role stored for the authenticated user.
package rbac

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/diagnocare/pkg/logger"
	"github.com/shashiranjanraj/diagnocare/pkg/middleware"
	"github.com/shashiranjanraj/diagnocare/pkg/response"
)

// Admin is the role that unlocks administrative routes.
const Admin = "admin"

// RoleLookup resolves the stored role for an email.
type RoleLookup interface {
	RoleOf(ctx context.Context, email string) (string, error)
}

// RoleLookupFunc adapts a function to RoleLookup.
type RoleLookupFunc func(ctx context.Context, email string) (string, error)

func (f RoleLookupFunc) RoleOf(ctx context.Context, email string) (string, error) {
	return f(ctx, email)
}

// RequireAdmin allows the request through only when the user named by the
// token's email exists and holds the admin role. Mount it after
// middleware.Authenticate.
func RequireAdmin(lookup RoleLookup) func(http.Handler) http.Handler {
	return HasRole(lookup, Admin)
}

// HasRole allows the request through when the stored role is one of roles.
func HasRole(lookup RoleLookup, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := middleware.ClaimsFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w, "unauthorized access")
				return
			}

			role, err := lookup.RoleOf(r.Context(), claims.Email)
			if err != nil || !allowed[role] {
				if err != nil {
					logger.WithCtx(r.Context()).Debug("role lookup failed", "email", claims.Email, "error", err)
				}
				response.Unauthorized(w, "unauthorized access")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
