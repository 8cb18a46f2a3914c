package payment

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Stripe is the Processor backed by the Stripe API.
type Stripe struct {
	api *client.API
}

// NewStripe creates a Stripe processor for secretKey.
func NewStripe(secretKey string) *Stripe {
	return NewStripeWithBackends(secretKey, nil)
}

// NewStripeWithBackends is NewStripe with explicit API backends (nil for
// the defaults).
func NewStripeWithBackends(secretKey string, backends *stripe.Backends) *Stripe {
	return &Stripe{api: client.New(secretKey, backends)}
}

func (s *Stripe) CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string, methods []string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice(methods),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}
