package interfaces

import (
	"context"
	"encoding/json"
	"time"
)

// Dispatcher executes a single RPC call against the method registry.
// Failures are reported through the returned error; *jsonrpc.Error values
// pass through to the caller unchanged, anything else is treated as an
// internal failure.
type Dispatcher interface {
	Execute(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// WarmupIndicator reports whether the node is still initializing. While in
// warmup the gateway rejects every call with a dedicated error carrying the
// returned status message.
type WarmupIndicator interface {
	IsInWarmup() (bool, string)
}

// TimerHandle is one scheduled one-shot callback. Cancel is idempotent and
// safe to call from any goroutine; it is a no-op once the callback fired.
type TimerHandle interface {
	Cancel()
}

// TimerProvider schedules deferred callbacks on behalf of RPC methods.
// Callbacks run on the provider's own execution context, never on the
// goroutine that scheduled them.
type TimerProvider interface {
	Name() string
	NewTimer(fn func(), delay time.Duration) TimerHandle
}

// MethodRegistry is the full contract the gateway needs from the method
// dispatch table: call execution, warmup state, and timer-provider
// registration in lockstep with the gateway lifecycle.
type MethodRegistry interface {
	Dispatcher
	WarmupIndicator

	// RegisterTimerProvider installs the deferred-timer provider. At most
	// one provider may be active; registering a second one fails.
	RegisterTimerProvider(p TimerProvider) error

	// UnregisterTimerProvider removes the provider if it is the active one.
	// Timers already scheduled through it may still fire.
	UnregisterTimerProvider(p TimerProvider)
}
