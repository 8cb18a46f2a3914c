package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/diagnocare/pkg/auth"
	"github.com/shashiranjanraj/diagnocare/pkg/logger"
	"github.com/shashiranjanraj/diagnocare/pkg/response"
)

// TokenVerifier is satisfied by *auth.TokenService.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type claimsKey struct{}

// Authenticate rejects requests without a valid "Authorization: Bearer"
// token and stores the decoded claims in the request context.
func Authenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				response.Unauthorized(w, "Unauthorized access")
				return
			}

			claims, err := v.Verify(token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("token rejected", "error", err)
				response.Unauthorized(w, "Unauthorized access")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims stores claims in ctx.
func WithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromCtx returns the claims stored by Authenticate.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok && c != nil
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
