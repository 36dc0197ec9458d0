// Package coalesce merges bursts of requests into a single call.
//
// A Coalescer holds at most one pending request. Every Submit replaces it
// and restarts a quiescence window; only when the window elapses without a
// new Submit is the latest request handed to the fire function. Earlier
// requests are dropped, never merged.
//
// Each submission is numbered from a monotonically increasing sequence, so
// the fire function (or its caller) can tell whether a result belongs to the
// most recent request.
package coalesce

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultWindow is the quiescence window used when none is configured.
const DefaultWindow = 500 * time.Millisecond

// FireFunc receives the latest request once the window has elapsed.
type FireFunc[T any] func(ctx context.Context, seq uint64, req T)

type options struct {
	clock  Clock
	ctx    context.Context
	logger *slog.Logger
}

// Option configures a Coalescer.
type Option func(*options)

// WithClock replaces the wall clock, typically with a ManualClock.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithContext sets the context passed to timer-driven fires.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithLogger sets the logger for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Coalescer debounces requests of type T.
//
// Fires triggered by the window run on the clock's goroutine; fires triggered
// by Flush run on the caller's. Two fires for different sequence numbers may
// overlap if the first is still running when the second window elapses;
// callers that need mutual exclusion must provide it.
type Coalescer[T any] struct {
	window time.Duration
	fire   FireFunc[T]
	clock  Clock
	ctx    context.Context
	logger *slog.Logger

	mu         sync.Mutex
	idle       *sync.Cond // signalled when running drops to zero
	running    int        // timer-driven fires in progress
	timer      Timer
	req        T
	hasPending bool
	pendingSeq uint64
	seq        uint64
}

// New creates a Coalescer that calls fire after window of quiescence.
func New[T any](window time.Duration, fire FireFunc[T], opts ...Option) *Coalescer[T] {
	o := options{
		clock:  RealClock{},
		ctx:    context.Background(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if window <= 0 {
		window = DefaultWindow
	}
	c := &Coalescer[T]{
		window: window,
		fire:   fire,
		clock:  o.clock,
		ctx:    o.ctx,
		logger: o.logger,
	}
	c.idle = sync.NewCond(&c.mu)
	return c
}

// Submit replaces the pending request with req and restarts the window.
// It returns the sequence number assigned to req.
func (c *Coalescer[T]) Submit(req T) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	seq := c.seq
	c.req = req
	c.hasPending = true
	c.pendingSeq = seq

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.clock.AfterFunc(c.window, func() { c.fireIfCurrent(seq) })
	c.logger.Debug("coalesce: request queued", "seq", seq, "window", c.window)
	return seq
}

// fireIfCurrent runs the pending request if seq still names it. A timer
// that could not be stopped in time finds a newer sequence and does nothing.
func (c *Coalescer[T]) fireIfCurrent(seq uint64) {
	c.mu.Lock()
	req, ok := c.takeLocked(seq)
	if ok {
		c.running++
	}
	c.mu.Unlock()
	if !ok {
		return
	}
	defer func() {
		c.mu.Lock()
		c.running--
		if c.running == 0 {
			c.idle.Broadcast()
		}
		c.mu.Unlock()
	}()
	c.fire(c.ctx, seq, req)
}

func (c *Coalescer[T]) takeLocked(seq uint64) (T, bool) {
	if !c.hasPending || c.pendingSeq != seq {
		var zero T
		return zero, false
	}
	req := c.req
	var zero T
	c.req = zero
	c.hasPending = false
	c.timer = nil
	return req, true
}

// Flush waits for any timer-driven fire still running, then fires the
// pending request immediately on the caller's goroutine. It reports whether
// a fire was awaited or made. Flush must not be called from the fire
// function.
func (c *Coalescer[T]) Flush(ctx context.Context) bool {
	c.mu.Lock()
	awaited := c.running > 0
	for c.running > 0 {
		c.idle.Wait()
	}
	if !c.hasPending {
		c.mu.Unlock()
		return awaited
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	seq := c.pendingSeq
	req, _ := c.takeLocked(seq)
	c.mu.Unlock()

	c.logger.Debug("coalesce: flushed", "seq", seq)
	c.fire(ctx, seq, req)
	return true
}

// Cancel drops the pending request. It reports whether one was dropped.
func (c *Coalescer[T]) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasPending {
		return false
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	var zero T
	c.req = zero
	c.hasPending = false
	return true
}

// Pending reports whether a request is waiting for its window to elapse.
func (c *Coalescer[T]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasPending
}

// Seq returns the sequence number of the most recent submission.
func (c *Coalescer[T]) Seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Window returns the quiescence window.
func (c *Coalescer[T]) Window() time.Duration { return c.window }
