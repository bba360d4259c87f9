package gateway

import (
	"net/http"

	"github.com/strandbit/node-rpc-gateway/eventloop"
	"github.com/strandbit/node-rpc-gateway/interfaces"
)

// RPCPath is the single path the JSON-RPC handler is mounted on.
const RPCPath = "/"

// HandlerRegistry is the part of the HTTP engine the gateway drives:
// dynamic registration of the RPC root handler.
type HandlerRegistry interface {
	RegisterHandler(path string, handler http.Handler)
	UnregisterHandler(path string)
}

// Gateway ties the request translator and the deferred-timer provider to
// the HTTP engine and the method registry, in lockstep:
// Stopped -> Started -> Interrupted -> Stopped.
type Gateway struct {
	cfg      *Config
	engine   HandlerRegistry
	loop     *eventloop.Loop
	registry interfaces.MethodRegistry

	timerProvider *TimerProvider
	started       bool
}

// New builds a gateway. Call Start to mount it.
func New(cfg *Config, engine HandlerRegistry, loop *eventloop.Loop, registry interfaces.MethodRegistry) *Gateway {
	return &Gateway{
		cfg:      cfg,
		engine:   engine,
		loop:     loop,
		registry: registry,
	}
}

// Start validates the configured credentials, mounts the request
// translator on the RPC path and registers the timer provider with the
// method registry. A failure leaves nothing registered.
func (g *Gateway) Start() error {
	g.cfg.Log.Info("Starting HTTP RPC gateway")

	creds, err := NewCredentials(g.cfg.Username, g.cfg.Password, g.cfg.RequireCredentials)
	if err != nil {
		return err
	}

	failDelay := g.cfg.AuthFailDelay
	if failDelay == 0 {
		failDelay = DefaultAuthFailDelay
	}
	auth := NewAuthenticator(creds, g.cfg.Log)
	handler := NewHandler(auth, g.registry, g.registry, failDelay, g.cfg.Log)
	g.engine.RegisterHandler(RPCPath, handler)

	provider := NewTimerProvider(g.loop)
	if err := g.registry.RegisterTimerProvider(provider); err != nil {
		g.engine.UnregisterHandler(RPCPath)
		return err
	}
	g.timerProvider = provider
	g.started = true
	return nil
}

// Interrupt signals that no new work should begin. Nothing is unregistered
// here; the HTTP engine is expected to stop accepting requests first.
func (g *Gateway) Interrupt() {
	g.cfg.Log.Info("Interrupting HTTP RPC gateway")
}

// Stop unmounts the request translator and unregisters the timer provider.
// Idempotent: safe to call twice or without a prior Start. Timers already
// scheduled through the provider may still fire afterwards unless their
// owners cancel them.
func (g *Gateway) Stop() {
	if !g.started {
		return
	}
	g.cfg.Log.Info("Stopping HTTP RPC gateway")
	g.engine.UnregisterHandler(RPCPath)
	g.registry.UnregisterTimerProvider(g.timerProvider)
	g.timerProvider = nil
	g.started = false
}
