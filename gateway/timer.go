package gateway

import (
	"time"

	"github.com/strandbit/node-rpc-gateway/eventloop"
	"github.com/strandbit/node-rpc-gateway/interfaces"
)

// TimerProvider exposes the HTTP engine's event loop to the method
// registry as its deferred-timer provider. Scheduling is safe from any
// request goroutine; callbacks fire on the loop goroutine.
type TimerProvider struct {
	loop *eventloop.Loop
}

// NewTimerProvider binds a provider to the engine's event loop.
func NewTimerProvider(loop *eventloop.Loop) *TimerProvider {
	return &TimerProvider{loop: loop}
}

// Name identifies this provider in the registry.
func (p *TimerProvider) Name() string {
	return "http"
}

// NewTimer schedules fn to run once on the event loop after delay.
func (p *TimerProvider) NewTimer(fn func(), delay time.Duration) interfaces.TimerHandle {
	return p.loop.ScheduleAfter(delay, fn)
}
