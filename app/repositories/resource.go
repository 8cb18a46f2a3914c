// Package repositories holds one repository per collection. Each embeds
// Resource for the generic list/find/insert/update/delete contract and adds
// the queries its resource needs.
package repositories

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

// Resource is the generic repository over one collection.
type Resource struct {
	col store.Collection
}

func newResource(db store.Database, name string) Resource {
	return Resource{col: db.Collection(name)}
}

// All returns every document.
func (r Resource) All(ctx context.Context) ([]store.Document, error) {
	docs, err := r.col.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: all: %w", r.col.Name(), err)
	}
	return docs, nil
}

// Find returns the document with id.
func (r Resource) Find(ctx context.Context, id string) (store.Document, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	doc, err := r.col.FindOne(ctx, store.Document{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("%s: find %s: %w", r.col.Name(), id, err)
	}
	return doc, nil
}

// Where returns documents whose fields equal filter.
func (r Resource) Where(ctx context.Context, filter store.Document) ([]store.Document, error) {
	docs, err := r.col.FindMany(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: where: %w", r.col.Name(), err)
	}
	return docs, nil
}

// Create inserts doc and returns its id.
func (r Resource) Create(ctx context.Context, doc store.Document) (string, error) {
	id, err := r.col.Insert(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%s: create: %w", r.col.Name(), err)
	}
	return id, nil
}

// Update merges fields into the document with id. A zero MatchedCount is
// returned as-is; callers decide how to report it.
func (r Resource) Update(ctx context.Context, id string, fields store.Document) (store.UpdateResult, error) {
	res, err := r.col.UpdateFields(ctx, id, fields)
	if err != nil {
		return res, fmt.Errorf("%s: update %s: %w", r.col.Name(), id, err)
	}
	return res, nil
}

// Delete removes the document with id and returns how many were deleted.
func (r Resource) Delete(ctx context.Context, id string) (int64, error) {
	n, err := r.col.DeleteOne(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: delete %s: %w", r.col.Name(), id, err)
	}
	return n, nil
}
