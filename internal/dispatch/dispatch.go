// Package dispatch runs background tasks whose outcome nobody waits for.
//
// The policy is explicit: a task gets MaxAttempts tries (one by default),
// each optionally bounded by Timeout, and it runs on a context detached
// from the caller, so cancelling the caller never aborts work already
// handed off. A task that still fails is logged and dropped.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of background work.
type Task func(ctx context.Context) error

// Policy is fixed when the dispatcher is built.
type Policy struct {
	MaxAttempts int
	Timeout     time.Duration
}

// FireAndForget runs each task once with no deadline of its own.
var FireAndForget = Policy{MaxAttempts: 1}

// ErrDrainTimeout is returned when in-flight tasks outlive Drain's deadline.
var ErrDrainTimeout = errors.New("dispatch: drain timed out with tasks in flight")

// ErrClosed is reported to the log when a task arrives after Close.
var ErrClosed = errors.New("dispatch: closed")

// Stats counts task outcomes since construction.
type Stats struct {
	Dispatched int64
	Succeeded  int64
	Failed     int64
	Rejected   int64
}

type counters struct {
	dispatched, succeeded, failed, rejected atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Dispatched: c.dispatched.Load(),
		Succeeded:  c.succeeded.Load(),
		Failed:     c.failed.Load(),
		Rejected:   c.rejected.Load(),
	}
}

// Dispatcher starts one goroutine per task.
type Dispatcher struct {
	policy Policy
	log    *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	stats  counters
}

// New builds a Dispatcher. A nil logger discards output.
func New(policy Policy, log *zap.Logger) *Dispatcher {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{policy: policy, log: log}
}

// Go hands task off and returns immediately.
func (d *Dispatcher) Go(ctx context.Context, name string, task Task) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.stats.rejected.Add(1)
		d.log.Warn("background task rejected", zap.String("task", name), zap.Error(ErrClosed))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	d.stats.dispatched.Add(1)
	detached := context.WithoutCancel(ctx)
	go func() {
		defer d.wg.Done()
		d.finish(name, run(detached, d.policy, task))
	}()
}

func (d *Dispatcher) finish(name string, err error) {
	if err != nil {
		d.stats.failed.Add(1)
		d.log.Warn("background task failed, dropping", zap.String("task", name), zap.Error(err))
		return
	}
	d.stats.succeeded.Add(1)
	d.log.Debug("background task done", zap.String("task", name))
}

func run(ctx context.Context, p Policy, task Task) error {
	var err error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err = runOnce(ctx, p.Timeout, task); err == nil {
			return nil
		}
	}
	return err
}

func runOnce(ctx context.Context, timeout time.Duration, task Task) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return task(ctx)
}

// Drain stops accepting tasks and waits up to timeout for in-flight ones.
// A zero timeout waits indefinitely.
func (d *Dispatcher) Drain(timeout time.Duration) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	if timeout <= 0 {
		<-done
		return nil
	}
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return ErrDrainTimeout
	}
}

// Stats returns the current counters.
func (d *Dispatcher) Stats() Stats {
	return d.stats.snapshot()
}

// Inline runs tasks synchronously in the caller's goroutine with the same
// policy and logging. Tests use it to observe propagation deterministically.
type Inline struct {
	policy Policy
	log    *zap.Logger
	stats  counters
}

func NewInline(policy Policy, log *zap.Logger) *Inline {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Inline{policy: policy, log: log}
}

func (i *Inline) Go(ctx context.Context, name string, task Task) {
	i.stats.dispatched.Add(1)
	if err := run(context.WithoutCancel(ctx), i.policy, task); err != nil {
		i.stats.failed.Add(1)
		i.log.Warn("background task failed, dropping", zap.String("task", name), zap.Error(err))
		return
	}
	i.stats.succeeded.Add(1)
}

func (i *Inline) Stats() Stats {
	return i.stats.snapshot()
}
