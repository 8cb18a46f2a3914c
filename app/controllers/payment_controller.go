package controllers

import (
	"context"

	"github.com/shashiranjanraj/diagnocare/pkg/ctx"
)

// PaymentIntents is satisfied by *payment.Adapter.
type PaymentIntents interface {
	CreatePaymentIntent(ctx context.Context, price float64) (string, error)
}

type PaymentController struct {
	intents PaymentIntents
}

func NewPaymentController(intents PaymentIntents) *PaymentController {
	return &PaymentController{intents: intents}
}

// Price is a pointer so an absent price fails binding while zero reaches
// MinorUnits and is answered as an invalid price.
type priceInput struct {
	Price *float64 `json:"price" validate:"required"`
}

// CreateIntent POST /create-payment-intent
func (c *PaymentController) CreateIntent(x *ctx.Context) {
	var in priceInput
	if !x.BindJSON(&in) {
		return
	}
	secret, err := c.intents.CreatePaymentIntent(x.Context(), *in.Price)
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(map[string]string{"clientSecret": secret})
}
