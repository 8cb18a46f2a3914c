// Package seeders provides a registry of database seed functions.
//
// Define a seeder in any file in this package:
//
//	func init() {
//	    seeders.Register("tests", seedTests)
//	}
//
// Then run via CLI: diagnocare seed
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

// SeederFunc is the signature for a seed function.
type SeederFunc func(ctx context.Context, db store.Database) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// Names lists registered seeders in run order.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// RunAll executes every registered seeder in registration order, writing
// progress to out. It stops on the first error.
func RunAll(ctx context.Context, db store.Database, out io.Writer) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, db); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}

// insertAll writes docs into collection, skipping the lot when the
// collection already has data so seeding twice is harmless.
func insertAll(ctx context.Context, db store.Database, collection string, docs []store.Document) error {
	col := db.Collection(collection)
	existing, err := col.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, d := range docs {
		if _, err := col.Insert(ctx, d); err != nil {
			return err
		}
	}
	return nil
}
