package models

import "github.com/shashiranjanraj/diagnocare/pkg/store"

// Roles a user can hold.
const (
	RoleDefault = "default"
	RoleAdmin   = "admin"
)

// Role returns the user's role, RoleDefault when unset.
func Role(user store.Document) string {
	if r, ok := user["role"].(string); ok && r != "" {
		return r
	}
	return RoleDefault
}

// Email returns the user's email, or "".
func Email(doc store.Document) string {
	e, _ := doc["email"].(string)
	return e
}
