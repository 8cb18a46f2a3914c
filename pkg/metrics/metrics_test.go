package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/diagnocare/pkg/metrics"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/testDetails/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/testDetails/{id}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/testDetails/65f0c0ffee0000000000beef", nil))

	after := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/testDetails/{id}", "418"))
	assert.Equal(t, before+1, after)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(metrics.BookingsApplied.WithLabelValues("not_found"))
	metrics.RecordBooking("not_found")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.BookingsApplied.WithLabelValues("not_found")))

	hits := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("k"))
	misses := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("k"))
	metrics.RecordCache("k", true)
	metrics.RecordCache("k", false)
	assert.Equal(t, hits+1, testutil.ToFloat64(metrics.CacheHits.WithLabelValues("k")))
	assert.Equal(t, misses+1, testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("k")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	metrics.RecordPaymentIntent("ok")

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "diagnocare_payment_intents_total"))
}
