// Package taskpool provides a bounded worker pool with deferred result
// handles. It backs the non-blocking form of every order operation.
package taskpool

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrSaturated is returned when the pool and its queue are full.
	// Backpressure rejects new work instead of queueing unboundedly.
	ErrSaturated = errors.New("task pool saturated")
	// ErrStopped is returned when submitting to a stopped pool.
	ErrStopped = errors.New("task pool stopped")
)

// Pool runs submitted tasks on a fixed set of workers over a bounded queue.
type Pool struct {
	queue chan func()
	wg    sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// New starts a pool with the given worker count and queue depth.
func New(workers, queueDepth int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueDepth < 0 {
		queueDepth = 0
	}
	p := &Pool{queue: make(chan func(), queueDepth)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer p.wg.Done()
			for task := range p.queue {
				task()
			}
		}()
	}
	return p
}

// Stop drains queued tasks and waits for the workers to exit. Submissions
// after Stop fail with ErrStopped.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) trySubmit(task func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrSaturated
	}
}

// Handle resolves to the outcome of a submitted task.
type Handle[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Wait blocks until the task resolves or ctx is done. The resolved outcome
// is stable across repeated calls.
func (h *Handle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit enqueues fn and returns a handle resolving to its result. The
// closure runs exactly as it would on the caller's goroutine.
func Submit[T any](p *Pool, fn func() (T, error)) (*Handle[T], error) {
	h := &Handle[T]{done: make(chan struct{})}
	task := func() {
		h.value, h.err = fn()
		close(h.done)
	}
	if err := p.trySubmit(task); err != nil {
		return nil, err
	}
	return h, nil
}
