package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/diagnocare/app/repositories"
	"github.com/shashiranjanraj/diagnocare/pkg/event"
	"github.com/shashiranjanraj/diagnocare/pkg/logger"
	"github.com/shashiranjanraj/diagnocare/pkg/metrics"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

// BookingService records bookings and keeps test slot counters in step.
type BookingService struct {
	db       store.Database
	tests    *repositories.Tests
	bookings *repositories.Bookings
	bus      *event.Bus
}

// NewBookingService also logs every recorded booking off the request path.
func NewBookingService(db store.Database, tests *repositories.Tests, bookings *repositories.Bookings, bus *event.Bus) *BookingService {
	s := &BookingService{db: db, tests: tests, bookings: bookings, bus: bus}
	bus.ListenAsync(EventBookingCreated, s.audit)
	return s
}

// Create stores a booking document without touching the test.
func (s *BookingService) Create(ctx context.Context, booking store.Document) (string, error) {
	id, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return "", err
	}
	s.bus.Fire(ctx, EventBookingCreated, id)
	return id, nil
}

// ApplySlots sets the test's remaining slots and counts one booking.
func (s *BookingService) ApplySlots(ctx context.Context, testID string, slots int64) (store.UpdateResult, error) {
	res, err := s.tests.ApplyBooking(ctx, testID, slots)
	if err != nil {
		metrics.RecordBooking(outcome(err))
		return res, err
	}
	metrics.RecordBooking("applied")
	s.bus.Fire(ctx, EventTestsChanged, testID)
	return res, nil
}

// Book applies the slot update and inserts the booking in one transaction.
// When the test does not exist nothing is written.
func (s *BookingService) Book(ctx context.Context, testID string, slots int64, booking store.Document) (string, error) {
	var id string
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.tests.ApplyBooking(ctx, testID, slots); err != nil {
			return err
		}
		var err error
		id, err = s.bookings.Create(ctx, booking)
		return err
	})
	if err != nil {
		metrics.RecordBooking(outcome(err))
		return "", fmt.Errorf("services: book %s: %w", testID, err)
	}

	metrics.RecordBooking("booked")
	s.bus.Fire(ctx, EventBookingCreated, id)
	return id, nil
}

func (s *BookingService) ForEmail(ctx context.Context, email string) ([]store.Document, error) {
	return s.bookings.ByEmail(ctx, email)
}

func (s *BookingService) ForBookingID(ctx context.Context, bookingID string) ([]store.Document, error) {
	return s.bookings.ByBookingID(ctx, bookingID)
}

func (s *BookingService) All(ctx context.Context) ([]store.Document, error) {
	return s.bookings.All(ctx)
}

func (s *BookingService) Cancel(ctx context.Context, id string) (int64, error) {
	return s.bookings.Delete(ctx, id)
}

func (s *BookingService) audit(ctx context.Context, payload any) {
	logger.WithCtx(ctx).Info("booking recorded", "booking_id", payload)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
