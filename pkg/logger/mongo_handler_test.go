package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeInserter struct {
	mu   sync.Mutex
	docs []LogDocument
}

func (f *fakeInserter) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func (f *fakeInserter) snapshot() []LogDocument {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]LogDocument(nil), f.docs...)
}

func TestMongoHandlerFlushesOnClose(t *testing.T) {
	col := &fakeInserter{}
	h := newMongoHandler(col, slog.LevelInfo)
	log := slog.New(h)

	log.Debug("dropped by level")
	log.With("request_id", "abc").Info("booking created", "test_id", "t1")
	log.WithGroup("stripe").Warn("retry", "attempt", 2)

	h.Close()
	h.Close()

	docs := col.snapshot()
	require.Len(t, docs, 2)

	assert.Equal(t, "booking created", docs[0].Msg)
	assert.Equal(t, "INFO", docs[0].Level)
	assert.Equal(t, "abc", docs[0].RequestID)
	assert.Equal(t, "t1", docs[0].Attrs["test_id"])

	assert.Equal(t, "WARN", docs[1].Level)
	assert.EqualValues(t, 2, docs[1].Attrs["stripe.attempt"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := NewMultiHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(m)

	log.Info("hello")
	log.Error("boom")

	assert.Contains(t, a.String(), "hello")
	assert.Contains(t, a.String(), "boom")
	assert.NotContains(t, b.String(), "hello")
	assert.Contains(t, b.String(), "boom")
}

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	var buf bytes.Buffer
	scoped := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "r1")
	ctx := InjectLogger(context.Background(), scoped)

	WithCtx(ctx).Info("scoped")
	assert.Contains(t, buf.String(), "request_id=r1")
}
