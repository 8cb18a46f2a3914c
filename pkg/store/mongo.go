package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/diagnocare/pkg/metrics"
)

// MongoCollection adapts a driver collection to Collection.
type MongoCollection struct {
	col *mongo.Collection
}

// NewMongoCollection wraps col.
func NewMongoCollection(col *mongo.Collection) *MongoCollection {
	return &MongoCollection{col: col}
}

func (c *MongoCollection) Name() string { return c.col.Name() }

func (c *MongoCollection) ListAll(ctx context.Context) ([]Document, error) {
	return c.FindMany(ctx, Document{})
}

func (c *MongoCollection) FindOne(ctx context.Context, filter Document) (Document, error) {
	defer c.observe("find_one", time.Now())

	var doc Document
	err := c.col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: %s find one: %w", c.Name(), err)
	}
	return doc, nil
}

func (c *MongoCollection) FindMany(ctx context.Context, filter Document) ([]Document, error) {
	defer c.observe("find", time.Now())

	if filter == nil {
		filter = Document{}
	}
	cur, err := c.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("store: %s find: %w", c.Name(), err)
	}

	docs := []Document{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("store: %s decode: %w", c.Name(), err)
	}
	return docs, nil
}

func (c *MongoCollection) Insert(ctx context.Context, doc Document) (string, error) {
	defer c.observe("insert", time.Now())

	doc = stripID(doc)
	oid := primitive.NewObjectID()
	doc["_id"] = oid

	if _, err := c.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicate
		}
		return "", fmt.Errorf("store: %s insert: %w", c.Name(), err)
	}
	return oid.Hex(), nil
}

func (c *MongoCollection) UpdateFields(ctx context.Context, id string, fields Document) (UpdateResult, error) {
	return c.Apply(ctx, id, fields, nil)
}

func (c *MongoCollection) Apply(ctx context.Context, id string, set, inc Document) (UpdateResult, error) {
	defer c.observe("update", time.Now())

	oid, err := ParseID(id)
	if err != nil {
		return UpdateResult{}, err
	}

	update := bson.M{}
	if set = stripID(set); len(set) > 0 {
		update["$set"] = set
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}
	if len(update) == 0 {
		// Nothing to change; still report whether the document exists.
		n, err := c.col.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return UpdateResult{}, fmt.Errorf("store: %s count: %w", c.Name(), err)
		}
		return UpdateResult{Acknowledged: true, MatchedCount: n}, nil
	}

	res, err := c.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return UpdateResult{}, ErrDuplicate
		}
		return UpdateResult{}, fmt.Errorf("store: %s update: %w", c.Name(), err)
	}
	// The driver returns a result only for acknowledged writes.
	return UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (c *MongoCollection) DeleteOne(ctx context.Context, id string) (int64, error) {
	defer c.observe("delete", time.Now())

	oid, err := ParseID(id)
	if err != nil {
		return 0, err
	}
	res, err := c.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("store: %s delete: %w", c.Name(), err)
	}
	return res.DeletedCount, nil
}

func (c *MongoCollection) observe(op string, start time.Time) {
	metrics.ObserveStoreOp(c.Name(), op, start)
}

// ─── Database ─────────────────────────────────────────────────────────────────

// MongoDatabase implements Database on a connected client.
type MongoDatabase struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDatabase wraps the named database of client.
func NewMongoDatabase(client *mongo.Client, name string) *MongoDatabase {
	return &MongoDatabase{client: client, db: client.Database(name)}
}

// Raw exposes the driver database for index bootstrap and the log sink.
func (d *MongoDatabase) Raw() *mongo.Database { return d.db }

func (d *MongoDatabase) Collection(name string) Collection {
	return NewMongoCollection(d.db.Collection(name))
}

// WithTransaction runs fn inside a multi-document transaction. Requires a
// replica set or sharded cluster (Atlas always is).
func (d *MongoDatabase) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := d.client.StartSession()
	if err != nil {
		return fmt.Errorf("store: start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (d *MongoDatabase) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
