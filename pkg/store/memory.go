package store

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is a process-local Database. Documents live in insertion order.
//
// WithTransaction serialises transactional work and restores a snapshot if
// fn fails. Writes made outside a transaction while one is running are not
// isolated from that rollback, so Memory suits development and tests only.
type Memory struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	cols   map[string]*memCollection
	unique map[string][]string
}

// MemoryOption configures a Memory database.
type MemoryOption func(*Memory)

// WithUnique declares a unique field on a collection, like a unique index.
func WithUnique(collection, field string) MemoryOption {
	return func(m *Memory) {
		m.unique[collection] = append(m.unique[collection], field)
	}
}

// NewMemory creates an empty in-memory database.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		cols:   map[string]*memCollection{},
		unique: map[string][]string{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Memory) Collection(name string) Collection {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.cols[name]
	if !ok {
		c = &memCollection{name: name, db: m, unique: m.unique[name]}
		m.cols[name] = c
	}
	return c
}

func (m *Memory) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.snapshot()
	if err := fn(ctx); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *Memory) Close(context.Context) error { return nil }

func (m *Memory) snapshot() map[string][]Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := make(map[string][]Document, len(m.cols))
	for name, c := range m.cols {
		docs := make([]Document, len(c.docs))
		for i, d := range c.docs {
			docs[i] = cloneDoc(d)
		}
		snap[name] = docs
	}
	return snap
}

func (m *Memory) restore(snap map[string][]Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, c := range m.cols {
		c.docs = snap[name]
	}
}

// ─── Collection ───────────────────────────────────────────────────────────────

type memCollection struct {
	name   string
	db     *Memory
	unique []string
	docs   []Document
}

func (c *memCollection) Name() string { return c.name }

func (c *memCollection) ListAll(ctx context.Context) ([]Document, error) {
	return c.FindMany(ctx, nil)
}

func (c *memCollection) FindOne(_ context.Context, filter Document) (Document, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	for _, d := range c.docs {
		if matches(d, filter) {
			return cloneDoc(d), nil
		}
	}
	return nil, ErrNotFound
}

func (c *memCollection) FindMany(_ context.Context, filter Document) ([]Document, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	out := []Document{}
	for _, d := range c.docs {
		if matches(d, filter) {
			out = append(out, cloneDoc(d))
		}
	}
	return out, nil
}

func (c *memCollection) Insert(_ context.Context, doc Document) (string, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	doc = cloneDoc(stripID(doc))
	for _, field := range c.unique {
		v, ok := doc[field]
		if !ok {
			continue
		}
		for _, existing := range c.docs {
			if ev, ok := existing[field]; ok && valuesEqual(ev, v) {
				return "", ErrDuplicate
			}
		}
	}

	oid := primitive.NewObjectID()
	doc["_id"] = oid
	c.docs = append(c.docs, doc)
	return oid.Hex(), nil
}

func (c *memCollection) UpdateFields(ctx context.Context, id string, fields Document) (UpdateResult, error) {
	return c.Apply(ctx, id, fields, nil)
}

func (c *memCollection) Apply(_ context.Context, id string, set, inc Document) (UpdateResult, error) {
	oid, err := ParseID(id)
	if err != nil {
		return UpdateResult{}, err
	}

	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	set = stripID(set)
	for _, field := range c.unique {
		v, ok := set[field]
		if !ok {
			continue
		}
		for _, existing := range c.docs {
			if existing["_id"] == oid {
				continue
			}
			if ev, ok := existing[field]; ok && valuesEqual(ev, v) {
				return UpdateResult{}, ErrDuplicate
			}
		}
	}

	for _, d := range c.docs {
		if d["_id"] != oid {
			continue
		}

		modified := false
		for k, v := range set {
			if cur, ok := d[k]; !ok || !valuesEqual(cur, v) {
				modified = true
			}
			d[k] = cloneValue(v)
		}
		for k, v := range inc {
			sum, err := addNumbers(d[k], v)
			if err != nil {
				return UpdateResult{}, fmt.Errorf("store: %s $inc %s: %w", c.name, k, err)
			}
			d[k] = sum
			modified = true
		}

		res := UpdateResult{Acknowledged: true, MatchedCount: 1}
		if modified {
			res.ModifiedCount = 1
		}
		return res, nil
	}
	return UpdateResult{Acknowledged: true}, nil
}

func (c *memCollection) DeleteOne(_ context.Context, id string) (int64, error) {
	oid, err := ParseID(id)
	if err != nil {
		return 0, err
	}

	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	for i, d := range c.docs {
		if d["_id"] == oid {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// matches implements top-level equality filters, which is all the
// repositories issue.
func matches(doc, filter Document) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return fmt.Sprint(a) == fmt.Sprint(b) && fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func addNumbers(cur, delta any) (any, error) {
	if cur == nil {
		cur = int64(0)
	}
	if ci, ok := asInt(cur); ok {
		if di, ok := asInt(delta); ok {
			return ci + di, nil
		}
	}
	cf, ok := toFloat(cur)
	if !ok {
		return nil, fmt.Errorf("cannot increment non-numeric %T", cur)
	}
	df, ok := toFloat(delta)
	if !ok {
		return nil, fmt.Errorf("non-numeric increment %T", delta)
	}
	return cf + df, nil
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func cloneDoc(d Document) Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return cloneDoc(t)
	case map[string]any:
		return map[string]any(cloneDoc(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
