// Package workerpool provides a bounded goroutine pool with backpressure.
//
// The event bus runs asynchronous listeners on a Pool so a burst of bookings
// can't spawn unbounded goroutines. When every worker is busy and the queue
// is full, Submit returns ErrPoolFull instead of blocking:
//
//	pool := workerpool.New(4, 64)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(task); errors.Is(err, workerpool.ErrPoolFull) {
//	    task() // run inline
//	}
package workerpool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/diagnocare/pkg/logger"
)

// ErrPoolFull is returned by Submit when the task queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// New starts size workers sharing a queue of queue pending tasks. Values
// below 1 are raised to 1; a zero queue defaults to twice the worker count.
func New(size, queue int) *Pool {
	if size <= 0 {
		size = 1
	}
	if queue <= 0 {
		queue = size * 2
	}

	p := &Pool{tasks: make(chan func(), queue)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Shutdown stops accepting tasks, runs everything already queued and waits
// for the workers to exit. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

// safeRun executes task and logs instead of crashing the worker on panic.
func safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "panic", fmt.Sprint(r))
		}
	}()
	task()
}
