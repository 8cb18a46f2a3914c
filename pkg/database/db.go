// Package database opens the document store selected by DB_DRIVER and
// prepares its indexes.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shashiranjanraj/diagnocare/config"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

// UniqueField declares a unique index on collection.field.
type UniqueField struct {
	Collection string
	Field      string
}

// Connect opens the configured store. With DB_DRIVER=memory no network is
// touched and the Mongo database return value is nil.
func Connect(ctx context.Context, unique []UniqueField) (store.Database, *mongo.Database, error) {
	switch driver := config.DatabaseDriver(); driver {
	case "memory":
		opts := make([]store.MemoryOption, 0, len(unique))
		for _, u := range unique {
			opts = append(opts, store.WithUnique(u.Collection, u.Field))
		}
		return store.NewMemory(opts...), nil, nil

	case "mongo":
		client, err := ConnectMongo(ctx, config.MongoURI())
		if err != nil {
			return nil, nil, err
		}
		db := store.NewMongoDatabase(client, config.DatabaseName())
		if err := EnsureIndexes(ctx, db.Raw(), unique); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return db, db.Raw(), nil

	default:
		return nil, nil, fmt.Errorf("database: unsupported DB_DRIVER %q (supported: mongo, memory)", driver)
	}
}

// ConnectMongo dials uri with the stable v1 server API and pings the
// primary. Nested documents decode as maps so they serialise as JSON
// objects.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).SetStrict(true)).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(50)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique indexes. Existing identical indexes are
// left alone by the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database, unique []UniqueField) error {
	for _, u := range unique {
		_, err := db.Collection(u.Collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: u.Field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(u.Field + "_unique"),
		})
		if err != nil {
			return fmt.Errorf("database: index %s.%s: %w", u.Collection, u.Field, err)
		}
	}
	return nil
}
