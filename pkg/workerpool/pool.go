// Package workerpool runs background tasks on a fixed number of goroutines.
//
// Submit never blocks: when every worker is busy and the queue is full it
// returns ErrPoolFull and the caller decides what to drop.
//
//	pool := workerpool.New("notifications", 4)
//	defer pool.Shutdown(ctx)
//
//	err := pool.Submit(ctx, func(ctx context.Context) {
//	    deliver(ctx, n)
//	})
package workerpool

import (
	"context"
	"errors"
	"sync"

	"github.com/eburutu/mart/pkg/logger"
)

var (
	ErrPoolFull   = errors.New("workerpool: pool is full")
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

// Task receives a context that keeps the submitter's values (request id,
// logger) but is not cancelled when the request finishes.
type Task func(ctx context.Context)

type job struct {
	ctx  context.Context
	task Task
}

// Pool is a bounded goroutine pool.
type Pool struct {
	name string
	jobs chan job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New starts size workers (at least one) with a queue of twice that.
func New(name string, size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		name: name,
		jobs: make(chan job, size*2),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit queues task without blocking.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job{ctx: context.WithoutCancel(ctx), task: task}:
		return nil
	default:
		return ErrPoolFull
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish or ctx
// to expire. Calling it again is a no-op.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
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

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		p.run(j)
	}
}

// run keeps a panicking task from taking the worker down with it.
func (p *Pool) run(j job) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithCtx(j.ctx).Error("workerpool: task panicked", "pool", p.name, "panic", rec)
		}
	}()
	j.task(j.ctx)
}
