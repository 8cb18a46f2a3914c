// Package models names the collections and the few document fields the
// service interprets. Documents are otherwise schemaless.
package models

import (
	"github.com/shashiranjanraj/diagnocare/pkg/database"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

// Collections.
const (
	Banners         = "banner"
	Tests           = "tests"
	Recommendations = "recommend"
	Users           = "users"
	Bookings        = "bookings"
)

// UniqueFields lists the storage-level unique constraints.
func UniqueFields() []database.UniqueField {
	return []database.UniqueField{
		{Collection: Users, Field: "email"},
	}
}

// BookingsCount reads a test's bookings counter. Missing or non-numeric
// counters count as zero.
func BookingsCount(test store.Document) float64 {
	switch n := test["bookings"].(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case float32:
		return float64(n)
	}
	return 0
}
