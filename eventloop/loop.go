package eventloop

import (
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"
)

const submitQueueSize = 64

// Loop is a single-goroutine run loop. Closures may be submitted from any
// goroutine; they execute one at a time on the loop goroutine, in FIFO
// order. The HTTP engine owns one Loop and drives deferred RPC callbacks
// through it.
type Loop struct {
	log   *slog.Logger
	clock clock.Clock

	submit chan func()
	quit   chan struct{}
	done   chan struct{}
}

// New returns a Loop backed by the wall clock. Call Start before use.
func New(log *slog.Logger) *Loop {
	return NewWithClock(log, clock.New())
}

// NewWithClock returns a Loop with an injected clock, for tests.
func NewWithClock(log *slog.Logger, clk clock.Clock) *Loop {
	return &Loop{
		log:    log,
		clock:  clk,
		submit: make(chan func(), submitQueueSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start spawns the loop goroutine.
func (l *Loop) Start() {
	go l.run()
}

// Stop shuts the loop down and waits for the loop goroutine to exit.
// Closures still queued at that point are dropped.
func (l *Loop) Stop() {
	close(l.quit)
	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.submit:
			fn()
		case <-l.quit:
			return
		}
	}
}

// Submit queues fn for execution on the loop goroutine. Safe to call from
// any goroutine. After Stop the closure is silently dropped.
func (l *Loop) Submit(fn func()) {
	select {
	case l.submit <- fn:
	case <-l.quit:
	}
}

// Timer is one scheduled one-shot callback. It is owned by the loop: after
// the callback runs the handle is spent, and Cancel becomes a no-op.
type Timer struct {
	timer    *clock.Timer
	canceled atomic.Bool
	fired    atomic.Bool
}

// ScheduleAfter arranges for fn to run on the loop goroutine once delay has
// elapsed. Safe to call from any goroutine. The returned handle can cancel
// the callback up until the moment it starts executing.
func (l *Loop) ScheduleAfter(delay time.Duration, fn func()) *Timer {
	t := &Timer{}
	t.timer = l.clock.AfterFunc(delay, func() {
		l.Submit(func() {
			if t.canceled.Load() {
				return
			}
			if !t.fired.CompareAndSwap(false, true) {
				return
			}
			fn()
		})
	})
	return t
}

// Cancel stops the timer. Idempotent; has no effect once the callback has
// started running.
func (t *Timer) Cancel() {
	t.canceled.Store(true)
	t.timer.Stop()
}
