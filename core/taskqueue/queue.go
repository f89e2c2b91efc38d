package taskqueue

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Submit after the queue was closed.
var ErrClosed = errors.New("task queue is closed")

// Task is a unit of background work. The context is the queue's shared
// context and is cancelled when the queue closes.
type Task func(ctx context.Context) error

// Queue runs submitted tasks with a bounded number of workers.
type Queue struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	mu     sync.Mutex
	errs   []error
	closed bool
}

// New creates a queue running at most limit tasks concurrently.
// A limit of zero or less means unbounded.
func New(parent context.Context, limit int) *Queue {
	ctx, cancel := context.WithCancel(parent)
	group := &errgroup.Group{}
	if limit > 0 {
		group.SetLimit(limit)
	}
	return &Queue{ctx: ctx, cancel: cancel, group: group}
}

// Submit enqueues a task. If all workers are busy, Submit blocks until
// one frees up. Task errors are collected and reported by Close.
func (q *Queue) Submit(task Task) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.mu.Unlock()

	q.group.Go(func() error {
		if err := q.ctx.Err(); err != nil {
			return err
		}
		if err := task(q.ctx); err != nil {
			q.mu.Lock()
			q.errs = append(q.errs, err)
			q.mu.Unlock()
			return err
		}
		return nil
	})
	return nil
}

// Close stops accepting tasks, waits for running ones, then cancels
// the shared context. It returns the errors of all failed tasks.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	_ = q.group.Wait()
	q.cancel()

	q.mu.Lock()
	defer q.mu.Unlock()
	return errors.Join(q.errs...)
}

// Cancel aborts the shared context without waiting for tasks. Running
// tasks observe the cancellation through their context.
func (q *Queue) Cancel() {
	q.cancel()
}
