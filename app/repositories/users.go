package repositories

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/diagnocare/app/models"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

// Users is the users collection. Email is unique at the storage level.
type Users struct {
	Resource
}

func NewUsers(db store.Database) *Users {
	return &Users{Resource: newResource(db, models.Users)}
}

// FindByEmail returns the user with email, or store.ErrNotFound.
func (r *Users) FindByEmail(ctx context.Context, email string) (store.Document, error) {
	doc, err := r.col.FindOne(ctx, store.Document{"email": email})
	if err != nil {
		return nil, fmt.Errorf("users: find by email: %w", err)
	}
	return doc, nil
}

// Register inserts a new user with the default role. A repeat email fails
// with store.ErrDuplicate.
func (r *Users) Register(ctx context.Context, user store.Document) (string, error) {
	user["role"] = models.RoleDefault
	return r.Create(ctx, user)
}

// SetRole changes the role of the user with id.
func (r *Users) SetRole(ctx context.Context, id, role string) (store.UpdateResult, error) {
	return r.Update(ctx, id, store.Document{"role": role})
}
