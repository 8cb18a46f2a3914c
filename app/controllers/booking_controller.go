package controllers

import (
	"github.com/shashiranjanraj/diagnocare/app/services"
	"github.com/shashiranjanraj/diagnocare/pkg/bind"
	"github.com/shashiranjanraj/diagnocare/pkg/ctx"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

type BookingController struct {
	bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

// Store POST /booking
func (c *BookingController) Store(x *ctx.Context) {
	doc, ok := fields(x)
	if !ok {
		return
	}
	id, err := c.bookings.Create(x.Context(), doc)
	inserted(x, id, err)
}

type bookInput struct {
	TestID  string      `json:"testId"  validate:"required"`
	Slots   *int64      `json:"slots"   validate:"required"`
	Booking bind.Object `json:"booking" validate:"required"`
}

// Book POST /bookings: slot update and booking insert in one transaction.
func (c *BookingController) Book(x *ctx.Context) {
	var in bookInput
	if !x.BindJSON(&in) {
		return
	}
	id, err := c.bookings.Book(x.Context(), in.TestID, *in.Slots, store.Document(in.Booking))
	if isNotFound(err) {
		x.NotFound("Booking not found")
		return
	}
	inserted(x, id, err)
}

type slotsInput struct {
	Slots *int64 `json:"slots" validate:"required"`
}

// UpdateSlots PATCH /update-slots/{id}
func (c *BookingController) UpdateSlots(x *ctx.Context) {
	var in slotsInput
	if !x.BindJSON(&in) {
		return
	}
	res, err := c.bookings.ApplySlots(x.Context(), x.Param("id"), *in.Slots)
	updated(x, res, err, "Booking not found")
}

// ByEmail GET /booking/{email}
func (c *BookingController) ByEmail(x *ctx.Context) {
	docs, err := c.bookings.ForEmail(x.Context(), x.Param("email"))
	list(x, docs, err)
}

// Reservations GET /reservation
func (c *BookingController) Reservations(x *ctx.Context) {
	docs, err := c.bookings.All(x.Context())
	list(x, docs, err)
}

// ByBookingID GET /bookings/test/{bookingId}
func (c *BookingController) ByBookingID(x *ctx.Context) {
	docs, err := c.bookings.ForBookingID(x.Context(), x.Param("bookingId"))
	list(x, docs, err)
}

// Cancel DELETE /booking-test/{id} and /booking-reservation/{id}
func (c *BookingController) Cancel(x *ctx.Context) {
	n, err := c.bookings.Cancel(x.Context(), x.Param("id"))
	deleted(x, n, err)
}
