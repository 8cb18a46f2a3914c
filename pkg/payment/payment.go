// Package payment creates payment intents with the card processor.
//
//	adapter := payment.NewAdapter(payment.NewStripe(config.StripeSecretKey()), config.StripeCurrency())
//	secret, err := adapter.CreatePaymentIntent(ctx, 19.99) // charges 1999 minor units
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shashiranjanraj/diagnocare/pkg/logger"
	"github.com/shashiranjanraj/diagnocare/pkg/metrics"
)

// ErrProcessor wraps every failure reported by the processor.
var ErrProcessor = errors.New("payment: processor failed")

// ErrInvalidAmount is returned for prices that are not positive or not finite.
var ErrInvalidAmount = errors.New("payment: invalid amount")

// Processor is an external payment processor.
type Processor interface {
	CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string, methods []string) (clientSecret string, err error)
}

// Adapter converts prices to minor units and requests card payments.
type Adapter struct {
	processor Processor
	currency  string
}

// NewAdapter creates an Adapter charging in currency.
func NewAdapter(p Processor, currency string) *Adapter {
	return &Adapter{processor: p, currency: currency}
}

// CreatePaymentIntent requests a card payment for price and returns the
// client secret.
func (a *Adapter) CreatePaymentIntent(ctx context.Context, price float64) (string, error) {
	amount, err := MinorUnits(price)
	if err != nil {
		return "", err
	}

	secret, err := a.processor.CreatePaymentIntent(ctx, amount, a.currency, []string{"card"})
	if err != nil {
		metrics.RecordPaymentIntent("error")
		logger.WithCtx(ctx).Error("payment intent failed", "amount", amount, "currency", a.currency, "error", err)
		return "", fmt.Errorf("%w: %w", ErrProcessor, err)
	}

	metrics.RecordPaymentIntent("ok")
	return secret, nil
}

// MinorUnits truncates price*100 toward zero. The 1e-9 nudge keeps binary
// float error from turning 19.99 into 1998. A charge must come to at least
// one minor unit.
func MinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, ErrInvalidAmount
	}
	amount := int64(math.Floor(price*100 + 1e-9))
	if amount < 1 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}
