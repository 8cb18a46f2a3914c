// Package controllers adapts HTTP requests to the services. Every handler
// takes a *ctx.Context and answers raw JSON documents, write results, or
// {"message": ...} on failure.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/diagnocare/app/services"
	"github.com/shashiranjanraj/diagnocare/pkg/ctx"
	"github.com/shashiranjanraj/diagnocare/pkg/payment"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

func init() {
	ctx.MapError(services.ErrUnauthorized, http.StatusUnauthorized, "unauthorized access")
	ctx.MapError(services.ErrUserExists, http.StatusOK, "User already exists")
	ctx.MapError(payment.ErrInvalidAmount, http.StatusBadRequest, "Invalid price")
	ctx.MapError(payment.ErrProcessor, http.StatusInternalServerError, "Failed to create payment intent")
}

// InsertResult answers a successful insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// DeleteResult answers a delete; DeletedCount is zero for unknown ids.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func inserted(x *ctx.Context, id string, err error) {
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(InsertResult{Acknowledged: true, InsertedID: id})
}

func deleted(x *ctx.Context, n int64, err error) {
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(DeleteResult{Acknowledged: true, DeletedCount: n})
}

// list answers docs as a JSON array, [] when empty.
func list(x *ctx.Context, docs []store.Document, err error) {
	if err != nil {
		x.Fail(err)
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}
	x.OK(docs)
}

func document(x *ctx.Context, doc store.Document, err error) {
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(doc)
}

// updated answers an update result, or 404 with notFound when nothing
// matched.
func updated(x *ctx.Context, res store.UpdateResult, err error, notFound string) {
	if err == nil && res.MatchedCount == 0 {
		err = store.ErrNotFound
	}
	if errors.Is(err, store.ErrNotFound) {
		x.NotFound(notFound)
		return
	}
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(res)
}

// fields binds a non-empty partial document.
func fields(x *ctx.Context) (store.Document, bool) {
	doc := x.BindDocument()
	if doc == nil {
		return nil, false
	}
	delete(doc, "_id")
	if len(doc) == 0 {
		x.ValidationError(map[string]string{"body": "At least one field is required."})
		return nil, false
	}
	return store.Document(doc), true
}

func isNotFound(err error) bool { return errors.Is(err, store.ErrNotFound) }
