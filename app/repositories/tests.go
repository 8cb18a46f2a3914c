package repositories

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/diagnocare/app/models"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

// Tests is the diagnostic tests collection.
type Tests struct {
	Resource
}

func NewTests(db store.Database) *Tests {
	return &Tests{Resource: newResource(db, models.Tests)}
}

// ApplyBooking sets the test's remaining slots and increments its bookings
// counter in one atomic update. Returns store.ErrNotFound when no test has
// id.
func (r *Tests) ApplyBooking(ctx context.Context, id string, slots int64) (store.UpdateResult, error) {
	res, err := r.col.Apply(ctx, id,
		store.Document{"slots": slots},
		store.Document{"bookings": int64(1)},
	)
	if err != nil {
		return res, fmt.Errorf("tests: apply booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return res, fmt.Errorf("tests: apply booking %s: %w", id, store.ErrNotFound)
	}
	return res, nil
}
