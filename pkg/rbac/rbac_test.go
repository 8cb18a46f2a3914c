package rbac_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/diagnocare/pkg/auth"
	"github.com/shashiranjanraj/diagnocare/pkg/middleware"
	"github.com/shashiranjanraj/diagnocare/pkg/rbac"
)

var roles = rbac.RoleLookupFunc(func(_ context.Context, email string) (string, error) {
	switch email {
	case "admin@example.com":
		return "admin", nil
	case "user@example.com":
		return "default", nil
	}
	return "", errors.New("not found")
})

func TestRequireAdmin(t *testing.T) {
	h := rbac.RequireAdmin(roles)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		email  string
		claims bool
		status int
	}{
		{"admin", "admin@example.com", true, http.StatusOK},
		{"default role", "user@example.com", true, http.StatusUnauthorized},
		{"unknown user", "ghost@example.com", true, http.StatusUnauthorized},
		{"no claims", "", false, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tc.claims {
				req = req.WithContext(middleware.WithClaims(req.Context(), &auth.Claims{Email: tc.email}))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusUnauthorized {
				assert.JSONEq(t, `{"message":"unauthorized access"}`, rec.Body.String())
			}
		})
	}
}
