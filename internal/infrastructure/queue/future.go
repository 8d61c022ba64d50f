package queue

import (
	"context"
	"fmt"
	"sync"
)

// Future is the result handle of a submitted task. It resolves exactly once.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.value = v
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future has resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future resolves or ctx ends. When ctx ends first the
// task keeps running and its result is still recorded on the future.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit queues fn on the pool and returns its future. Submission blocks only
// while the queue is full, until ctx ends. fn runs with a context that keeps
// ctx's values but not its cancellation, so a caller that stops waiting does
// not abort work already handed to a worker.
func Submit[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) (*Future[T], error) {
	f := newFuture[T]()
	t := task{
		ctx: context.WithoutCancel(ctx),
		run: func(ctx context.Context) (err error) {
			// Resolve the future even if fn panics; the pool recovers the panic.
			defer func() {
				if r := recover(); r != nil {
					var zero T
					f.resolve(zero, fmt.Errorf("task panicked: %v", r))
					panic(r)
				}
			}()
			v, err := fn(ctx)
			f.resolve(v, err)
			return err
		},
	}
	if err := p.enqueue(ctx, t); err != nil {
		return nil, err
	}
	return f, nil
}
