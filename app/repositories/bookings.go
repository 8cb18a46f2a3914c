package repositories

import (
	"context"

	"github.com/shashiranjanraj/diagnocare/app/models"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

// Bookings is the bookings collection.
type Bookings struct {
	Resource
}

func NewBookings(db store.Database) *Bookings {
	return &Bookings{Resource: newResource(db, models.Bookings)}
}

// ByEmail returns the bookings made by email.
func (r *Bookings) ByEmail(ctx context.Context, email string) ([]store.Document, error) {
	return r.Where(ctx, store.Document{"email": email})
}

// ByBookingID returns the bookings whose bookingId field equals id.
func (r *Bookings) ByBookingID(ctx context.Context, id string) ([]store.Document, error) {
	return r.Where(ctx, store.Document{"bookingId": id})
}
