package rpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/strandbit/node-rpc-gateway/interfaces"
	"github.com/strandbit/node-rpc-gateway/jsonrpc"
)

// Method is one RPC method handler. Params is always valid JSON, either an
// array or an object. Returning a *jsonrpc.Error surfaces that exact code
// and message to the caller; any other error is reported as an internal
// failure.
type Method func(ctx context.Context, params json.RawMessage) (any, error)

// Table is the node's method dispatch table. It also tracks warmup state
// and holds the deferred-timer provider the gateway registers at start.
type Table struct {
	log *slog.Logger

	mu      sync.RWMutex
	methods map[string]Method
	quiet   map[string]bool

	timerMu        sync.Mutex
	timerProvider  interfaces.TimerProvider
	deadlineTimers map[string]interfaces.TimerHandle

	inWarmup     atomic.Bool
	warmupMu     sync.Mutex
	warmupStatus string
}

// NewTable returns an empty dispatch table. The node starts in warmup;
// calls are rejected until SetWarmupFinished.
func NewTable(log *slog.Logger) *Table {
	t := &Table{
		log:            log,
		methods:        make(map[string]Method),
		quiet:          make(map[string]bool),
		deadlineTimers: make(map[string]interfaces.TimerHandle),
		warmupStatus:   "RPC in warm-up",
	}
	t.inWarmup.Store(true)
	return t
}

// Register installs a method handler, replacing any previous one under the
// same name.
func (t *Table) Register(name string, m Method) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.methods[name]; ok {
		t.log.Warn("overwriting rpc method", "method", name)
	}
	t.methods[name] = m
}

// SetQuiet suppresses the per-call debug log line for a noisy method.
func (t *Table) SetQuiet(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.quiet[name] = true
}

// Methods returns the registered method names, sorted.
func (t *Table) Methods() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.methods))
	for name := range t.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute looks up and runs a method. A panicking handler is recovered
// here and converted into an internal RPC error; nothing propagates as an
// unhandled fault.
func (t *Table) Execute(ctx context.Context, method string, params json.RawMessage) (result any, err error) {
	t.mu.RLock()
	m, ok := t.methods[method]
	quiet := t.quiet[method]
	t.mu.RUnlock()

	if !ok {
		return nil, jsonrpc.NewError(jsonrpc.CodeMethodNotFound, "Method not found")
	}
	if !quiet {
		t.log.Debug("executing rpc method", "method", method)
	}

	defer func() {
		if r := recover(); r != nil {
			t.log.Error("rpc method panicked", "method", method, "panic", r)
			result = nil
			err = jsonrpc.Errorf(jsonrpc.CodeInternalError, "method %s failed: %v", method, r)
		}
	}()
	return m(ctx, params)
}

// SetWarmupStatus updates the status message reported while in warmup.
func (t *Table) SetWarmupStatus(status string) {
	t.warmupMu.Lock()
	t.warmupStatus = status
	t.warmupMu.Unlock()
	t.log.Info("rpc warmup status", "status", status)
}

// SetWarmupFinished leaves warmup. Calling it twice is an error.
func (t *Table) SetWarmupFinished() error {
	if !t.inWarmup.CompareAndSwap(true, false) {
		return errors.New("rpc warmup already finished")
	}
	t.log.Info("rpc warmup finished")
	return nil
}

// IsInWarmup reports the warmup flag and the current status message.
func (t *Table) IsInWarmup() (bool, string) {
	t.warmupMu.Lock()
	status := t.warmupStatus
	t.warmupMu.Unlock()
	return t.inWarmup.Load(), status
}

// RegisterTimerProvider installs the deferred-timer provider. The table
// holds at most one; registering over an existing provider fails.
func (t *Table) RegisterTimerProvider(p interfaces.TimerProvider) error {
	t.timerMu.Lock()
	defer t.timerMu.Unlock()
	if t.timerProvider != nil {
		return errors.New("rpc timer provider already registered")
	}
	t.timerProvider = p
	t.log.Debug("rpc timer provider registered", "provider", p.Name())
	return nil
}

// UnregisterTimerProvider removes p if it is the active provider. Timers
// already scheduled are left alone and may still fire; owners cancel them
// explicitly if they must not.
func (t *Table) UnregisterTimerProvider(p interfaces.TimerProvider) {
	t.timerMu.Lock()
	defer t.timerMu.Unlock()
	if t.timerProvider == p {
		t.timerProvider = nil
		t.log.Debug("rpc timer provider unregistered", "provider", p.Name())
	}
}

// RunLater schedules fn to run once after delay, under a name. Scheduling
// under a name that already has a pending timer cancels and replaces it.
// Fails with an internal RPC error when no timer provider is registered.
func (t *Table) RunLater(name string, fn func(), delay time.Duration) error {
	t.timerMu.Lock()
	defer t.timerMu.Unlock()
	if t.timerProvider == nil {
		return jsonrpc.NewError(jsonrpc.CodeInternalError, "No timer handler registered for RPC")
	}
	if old, ok := t.deadlineTimers[name]; ok {
		old.Cancel()
	}
	t.log.Debug("queueing deferred run", "name", name, "delay", delay, "provider", t.timerProvider.Name())
	t.deadlineTimers[name] = t.timerProvider.NewTimer(fn, delay)
	return nil
}
