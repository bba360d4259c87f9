package rpcserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"go.uber.org/atomic"

	"github.com/strandbit/node-rpc-gateway/jsonrpc"
)

// NodeState carries the state the built-in methods operate on.
type NodeState struct {
	log     *slog.Logger
	started time.Time
	locked  atomic.Bool
}

// RegisterNodeMethods installs the built-in node methods on the table and
// returns the state they share.
func RegisterNodeMethods(t *Table, log *slog.Logger) *NodeState {
	s := &NodeState{log: log, started: time.Now()}

	t.Register("ping", s.ping)
	t.Register("uptime", s.uptime)
	t.Register("help", func(ctx context.Context, params json.RawMessage) (any, error) {
		return strings.Join(t.Methods(), "\n"), nil
	})
	t.Register("lockafter", s.lockAfterMethod(t))
	t.Register("islocked", s.islocked)
	t.SetQuiet("ping")

	return s
}

func (s *NodeState) ping(ctx context.Context, params json.RawMessage) (any, error) {
	return "pong", nil
}

func (s *NodeState) uptime(ctx context.Context, params json.RawMessage) (any, error) {
	return int64(time.Since(s.started).Seconds()), nil
}

func (s *NodeState) islocked(ctx context.Context, params json.RawMessage) (any, error) {
	return s.locked.Load(), nil
}

// lockAfterMethod builds the lockafter handler: unlock now, re-lock after
// the requested number of seconds. The deferred re-lock goes through the
// table's timer provider, so it fires on the event loop regardless of what
// happens to the request that scheduled it.
func (s *NodeState) lockAfterMethod(t *Table) Method {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var args []int64
		if err := json.Unmarshal(params, &args); err != nil || len(args) != 1 {
			return nil, jsonrpc.NewError(jsonrpc.CodeInvalidParams, "lockafter expects [seconds]")
		}
		seconds := args[0]
		if seconds <= 0 {
			return nil, jsonrpc.NewError(jsonrpc.CodeInvalidParams, "seconds must be positive")
		}

		s.locked.Store(false)
		if err := t.RunLater("lockafter", func() {
			s.locked.Store(true)
			s.log.Info("node locked by deferred timer")
		}, time.Duration(seconds)*time.Second); err != nil {
			return nil, err
		}
		return true, nil
	}
}

// IsLocked reports the current lock flag.
func (s *NodeState) IsLocked() bool {
	return s.locked.Load()
}
