package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hiringgo/account-service/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	defaultBuffer  = 256
)

// ErrPoolClosed is returned by Submit once Stop has been called.
var ErrPoolClosed = errors.New("worker pool closed")

type task struct {
	ctx context.Context
	run func(ctx context.Context) error
}

// Pool runs submitted tasks on a fixed set of worker goroutines fed by a
// bounded channel.
type Pool struct {
	tasks   chan task
	workers int
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	start  sync.Once
}

// NewPool creates a Pool with numWorkers workers and a queue holding up to
// buffer pending tasks. Non-positive values fall back to the defaults.
func NewPool(numWorkers, buffer int, log zerolog.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Pool{
		tasks:   make(chan task, buffer),
		workers: numWorkers,
		log:     log,
	}
}

// Start launches the worker goroutines. Calling it more than once is a no-op.
func (p *Pool) Start() {
	p.start.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.runWorker(i)
		}
	})
}

// Stop rejects new submissions, lets the workers drain what is already
// queued and waits for them or for ctx, whichever comes first.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueue blocks until the task is queued, submitCtx ends, or the pool closes.
func (p *Pool) enqueue(submitCtx context.Context, t task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- t:
		metrics.WorkerQueueDepth.Set(float64(len(p.tasks)))
		return nil
	case <-submitCtx.Done():
		return submitCtx.Err()
	}
}

func (p *Pool) runWorker(id int) {
	defer p.wg.Done()
	for t := range p.tasks {
		metrics.WorkerQueueDepth.Set(float64(len(p.tasks)))

		start := time.Now()
		err := p.execute(t)
		result := "ok"
		if err != nil {
			result = "error"
			p.log.Debug().Err(err).Int("worker_id", id).Msg("task failed")
		}
		metrics.TaskDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}
}

// execute runs one task, converting a panic into an error so the worker
// survives.
func (p *Pool) execute(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("task panicked")
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return t.run(t.ctx)
}
