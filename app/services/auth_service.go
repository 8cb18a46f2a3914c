package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/diagnocare/app/models"
	"github.com/shashiranjanraj/diagnocare/app/repositories"
	"github.com/shashiranjanraj/diagnocare/pkg/auth"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

// AuthService issues tokens, registers users and resolves roles.
type AuthService struct {
	tokens *auth.TokenService
	users  *repositories.Users
}

func NewAuthService(tokens *auth.TokenService, users *repositories.Users) *AuthService {
	return &AuthService{tokens: tokens, users: users}
}

// IssueToken signs claims as given. The user need not be registered.
func (s *AuthService) IssueToken(claims map[string]any) (string, error) {
	return s.tokens.Issue(claims)
}

// Register stores a new user. A taken email yields ErrUserExists and leaves
// the stored user untouched.
func (s *AuthService) Register(ctx context.Context, user store.Document) (string, error) {
	id, err := s.users.Register(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		return "", ErrUserExists
	}
	if err != nil {
		return "", fmt.Errorf("services: register: %w", err)
	}
	return id, nil
}

// RoleOf returns the stored role for email. Unknown users yield
// ErrUnauthorized.
func (s *AuthService) RoleOf(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	return models.Role(user), nil
}

// Promote gives the user with email the admin role.
func (s *AuthService) Promote(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	id, ok := user["_id"].(interface{ Hex() string })
	if !ok {
		return fmt.Errorf("services: promote %s: unexpected id type %T", email, user["_id"])
	}
	_, err = s.users.SetRole(ctx, id.Hex(), models.RoleAdmin)
	return err
}
