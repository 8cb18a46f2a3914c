package event_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/diagnocare/pkg/event"
	"github.com/shashiranjanraj/diagnocare/pkg/workerpool"
)

func TestFireRunsListenersInOrder(t *testing.T) {
	bus := event.NewBus(nil)
	var got []string
	bus.Listen("tests.changed", func(_ context.Context, p any) { got = append(got, "a:"+p.(string)) })
	bus.Listen("tests.changed", func(_ context.Context, p any) { got = append(got, "b:"+p.(string)) })
	bus.Listen("other", func(context.Context, any) { got = append(got, "other") })

	bus.Fire(context.Background(), "tests.changed", "x")
	assert.Equal(t, []string{"a:x", "b:x"}, got)

	bus.Flush()
	bus.Fire(context.Background(), "tests.changed", "y")
	assert.Len(t, got, 2)
}

func TestAsyncListenersUsePoolAndDetachContext(t *testing.T) {
	pool := workerpool.New(2, 8)
	defer pool.Shutdown()
	bus := event.NewBus(pool)

	var wg sync.WaitGroup
	wg.Add(1)
	var listenerErr error
	bus.ListenAsync("booking.created", func(ctx context.Context, _ any) {
		defer wg.Done()
		time.Sleep(10 * time.Millisecond)
		listenerErr = ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.Fire(ctx, "booking.created", nil)
	cancel()
	wg.Wait()

	assert.NoError(t, listenerErr)
}

func TestSyncListenersFinishBeforeFireReturns(t *testing.T) {
	pool := workerpool.New(1, 4)
	defer pool.Shutdown()
	bus := event.NewBus(pool)

	release := make(chan struct{})
	defer close(release)
	bus.ListenAsync("tests.changed", func(context.Context, any) { <-release })

	var dropped bool
	bus.Listen("tests.changed", func(context.Context, any) { dropped = true })

	bus.Fire(context.Background(), "tests.changed", "t1")
	assert.True(t, dropped)
}
