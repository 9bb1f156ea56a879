package persistence

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrOutboxClosed is returned when enqueueing after Close.
var ErrOutboxClosed = errors.New("outbox closed")

// ErrOutboxFull is returned when the queue has no free slot.
var ErrOutboxFull = errors.New("outbox full")

type OutboxOptions struct {
	QueueSize  int
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

func DefaultOutboxOptions() OutboxOptions {
	return OutboxOptions{
		QueueSize:  256,
		Timeout:    10 * time.Second,
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
	}
}

type op struct {
	name string
	run  func(ctx context.Context) error
}

// Outbox runs remote writes on a single worker in FIFO order. Enqueue never
// blocks; a write that keeps failing after its retries is logged and dropped.
type Outbox struct {
	opts OutboxOptions
	log  *zap.Logger

	mu     sync.Mutex
	closed bool
	ch     chan op

	base   context.Context
	cancel context.CancelFunc
	done   chan struct{}

	pending atomic.Int64
	dropped atomic.Int64
}

func NewOutbox(opts OutboxOptions, log *zap.Logger) *Outbox {
	def := DefaultOutboxOptions()
	if opts.QueueSize <= 0 {
		opts.QueueSize = def.QueueSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	base, cancel := context.WithCancel(context.Background())
	o := &Outbox{
		opts:   opts,
		log:    log,
		ch:     make(chan op, opts.QueueSize),
		base:   base,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go o.run()
	return o
}

// Enqueue schedules fn. It fails fast when the queue is full or closed.
func (o *Outbox) Enqueue(name string, fn func(ctx context.Context) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrOutboxClosed
	}
	o.pending.Add(1)
	select {
	case o.ch <- op{name: name, run: fn}:
		return nil
	default:
		o.pending.Add(-1)
		o.dropped.Add(1)
		o.log.Error("remote write dropped, queue full", zap.String("op", name), zap.Int("queue_size", o.opts.QueueSize))
		return ErrOutboxFull
	}
}

// Pending is the number of queued or in-flight writes.
func (o *Outbox) Pending() int64 { return o.pending.Load() }

// Dropped is the number of writes given up on.
func (o *Outbox) Dropped() int64 { return o.dropped.Load() }

// Close stops accepting writes and waits for the queue to drain. If ctx ends
// first, in-flight work is cancelled and ctx's error is returned.
func (o *Outbox) Close(ctx context.Context) error {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.ch)
	}
	o.mu.Unlock()

	select {
	case <-o.done:
		o.cancel()
		return nil
	case <-ctx.Done():
		o.cancel()
		<-o.done
		return ctx.Err()
	}
}

func (o *Outbox) run() {
	defer close(o.done)
	for op := range o.ch {
		o.execute(op)
		o.pending.Add(-1)
	}
}

func (o *Outbox) execute(op op) {
	var err error
	for attempt := 0; attempt <= o.opts.MaxRetries; attempt++ {
		if attempt > 0 && !o.wait(time.Duration(attempt)*o.opts.Backoff) {
			break
		}
		ctx, cancel := context.WithTimeout(o.base, o.opts.Timeout)
		err = op.run(ctx)
		cancel()
		if err == nil {
			o.log.Debug("remote write done", zap.String("op", op.name), zap.Int("attempt", attempt+1))
			return
		}
		if o.base.Err() != nil {
			break
		}
		o.log.Warn("remote write failed", zap.String("op", op.name), zap.Int("attempt", attempt+1), zap.Error(err))
	}
	o.dropped.Add(1)
	o.log.Error("remote write abandoned", zap.String("op", op.name), zap.Error(err))
}

func (o *Outbox) wait(d time.Duration) bool {
	if d <= 0 {
		return o.base.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-o.base.Done():
		return false
	case <-t.C:
		return true
	}
}
