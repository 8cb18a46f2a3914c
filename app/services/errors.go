// Package services holds the business operations behind the HTTP surface.
package services

import (
	"errors"

	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

var (
	// ErrUnauthorized is returned when the caller's identity does not exist
	// or may not perform the operation.
	ErrUnauthorized = errors.New("services: unauthorized")
	// ErrUserExists is returned when registering an email that is taken.
	ErrUserExists = errors.New("services: user already exists")
)

// Event names fired on the bus.
const (
	EventTestsChanged   = "tests.changed"
	EventBookingCreated = "booking.created"
)

func isNotFound(err error) bool { return errors.Is(err, store.ErrNotFound) }
