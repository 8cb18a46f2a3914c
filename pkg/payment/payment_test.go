package payment_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"github.com/shashiranjanraj/diagnocare/pkg/payment"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) CreatePaymentIntent(ctx context.Context, amount int64, currency string, methods []string) (string, error) {
	args := m.Called(ctx, amount, currency, methods)
	return args.String(0), args.Error(1)
}

func TestMinorUnitsTruncates(t *testing.T) {
	cases := map[float64]int64{
		19.99:  1999,
		19.999: 1999,
		0.1:    10,
		0.29:   29,
		100:    10000,
	}
	for price, want := range cases {
		got, err := payment.MinorUnits(price)
		require.NoError(t, err)
		assert.Equal(t, want, got, "price %v", price)
	}

	for _, bad := range []float64{0, -1, 0.001, math.NaN(), math.Inf(1)} {
		_, err := payment.MinorUnits(bad)
		assert.ErrorIs(t, err, payment.ErrInvalidAmount)
	}
}

func TestAdapterRequestsCardPayment(t *testing.T) {
	p := &mockProcessor{}
	p.On("CreatePaymentIntent", mock.Anything, int64(1999), "usd", []string{"card"}).
		Return("pi_123_secret_abc", nil).Once()

	secret, err := payment.NewAdapter(p, "usd").CreatePaymentIntent(context.Background(), 19.999)
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret_abc", secret)
	p.AssertExpectations(t)
}

func TestAdapterWrapsProcessorFailure(t *testing.T) {
	p := &mockProcessor{}
	p.On("CreatePaymentIntent", mock.Anything, int64(500), "usd", []string{"card"}).
		Return("", errors.New("card_declined")).Once()

	_, err := payment.NewAdapter(p, "usd").CreatePaymentIntent(context.Background(), 5)
	assert.ErrorIs(t, err, payment.ErrProcessor)
	assert.Contains(t, err.Error(), "card_declined")
}

func TestStripeProcessor(t *testing.T) {
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_1","object":"payment_intent","client_secret":"pi_1_secret_x"}`))
	}))
	defer srv.Close()

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	s := payment.NewStripeWithBackends("sk_test_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})

	secret, err := s.CreatePaymentIntent(context.Background(), 1999, "usd", []string{"card"})
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret_x", secret)
	assert.Equal(t, []string{"1999"}, form["amount"])
	assert.Equal(t, []string{"usd"}, form["currency"])
	assert.Equal(t, []string{"card"}, form["payment_method_types[0]"])
}
