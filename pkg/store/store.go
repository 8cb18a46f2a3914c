// Package store is the document storage layer behind every resource
// repository.
//
// A Collection exposes the same small contract for every resource (list,
// find, insert, field update, atomic set+increment, delete). A Database hands
// out named collections and runs multi-document work in a transaction.
//
// Two implementations exist: Mongo (production, backed by the official
// driver) and Memory (process-local, used for DB_DRIVER=memory and tests).
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when a single-document lookup matches nothing.
	ErrNotFound = errors.New("store: not found")
	// ErrInvalidID is returned for ids that are not 24-char hex ObjectIDs.
	ErrInvalidID = errors.New("store: invalid id")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("store: duplicate key")
)

// Document is a schemaless record. Stored documents always carry "_id".
type Document = bson.M

// UpdateResult mirrors the counts reported by the storage engine.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// Collection is the generic per-resource contract.
type Collection interface {
	Name() string
	ListAll(ctx context.Context) ([]Document, error)
	FindOne(ctx context.Context, filter Document) (Document, error)
	FindMany(ctx context.Context, filter Document) ([]Document, error)
	Insert(ctx context.Context, doc Document) (string, error)
	UpdateFields(ctx context.Context, id string, fields Document) (UpdateResult, error)
	// Apply sets and increments fields of one document in a single atomic update.
	Apply(ctx context.Context, id string, set, inc Document) (UpdateResult, error)
	DeleteOne(ctx context.Context, id string) (int64, error)
}

// Database hands out collections and runs transactional work.
type Database interface {
	Collection(name string) Collection
	// WithTransaction runs fn so that every collection call made with the
	// ctx passed to fn commits or aborts together.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Close(ctx context.Context) error
}

// ParseID converts a hex id into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// stripID returns fields without "_id"; ids are immutable.
func stripID(fields Document) Document {
	out := make(Document, len(fields))
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}
