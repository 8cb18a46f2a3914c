package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/diagnocare/pkg/router"
)

func tag(name string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupMiddlewareOrderAndParams(t *testing.T) {
	r := router.New()
	api := r.Group("/", tag("group"))
	api.Patch("/update-test/{id}", "tests.update", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(chi.URLParam(req, "id")))
	}, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/update-test/abc", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", rec.Body.String())
	assert.Equal(t, []string{"group", "route"}, rec.Header().Values("X-Chain"))
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Delete("/test/{id}", "tests.delete", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("tests.delete", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/test/42", url)

	_, err = r.URL("tests.delete", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesListsEveryMount(t *testing.T) {
	r := router.New()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.Get("/", "home", noop)
	g := r.Group("/admin")
	g.Put("/users/{email}", "", noop)
	g.Post("/users", "users.store", noop)

	assert.Equal(t, []router.RouteInfo{
		{Method: http.MethodGet, Path: "/", Name: "home"},
		{Method: http.MethodPost, Path: "/admin/users", Name: "users.store"},
		{Method: http.MethodPut, Path: "/admin/users/{email}"},
	}, r.Routes())
}
