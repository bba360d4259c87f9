package rpcserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strandbit/node-rpc-gateway/jsonrpc"
)

func nodeTable(t *testing.T) (*Table, *NodeState, *fakeTimerProvider) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	table := NewTable(logger)
	state := RegisterNodeMethods(table, logger)
	provider := &fakeTimerProvider{}
	require.NoError(t, table.RegisterTimerProvider(provider))
	return table, state, provider
}

func TestPing(t *testing.T) {
	table, _, _ := nodeTable(t)

	result, err := table.Execute(context.Background(), "ping", json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Equal(t, "pong", result)
}

func TestHelpListsMethods(t *testing.T) {
	table, _, _ := nodeTable(t)

	result, err := table.Execute(context.Background(), "help", json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Contains(t, result, "ping")
	assert.Contains(t, result, "lockafter")
}

func TestUptimeNonNegative(t *testing.T) {
	table, _, _ := nodeTable(t)

	result, err := table.Execute(context.Background(), "uptime", json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.(int64), int64(0))
}

func TestLockAfter_SchedulesDeferredLock(t *testing.T) {
	table, state, provider := nodeTable(t)

	result, err := table.Execute(context.Background(), "lockafter", json.RawMessage(`[60]`))
	require.NoError(t, err)
	assert.Equal(t, true, result)
	assert.False(t, state.IsLocked())

	require.Len(t, provider.fns, 1)
	assert.Equal(t, time.Minute, provider.delays[0])

	// Firing the deferred callback locks the node.
	provider.fns[0]()
	assert.True(t, state.IsLocked())

	locked, err := table.Execute(context.Background(), "islocked", json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Equal(t, true, locked)
}

func TestLockAfter_RescheduleReplacesTimer(t *testing.T) {
	table, _, provider := nodeTable(t)

	_, err := table.Execute(context.Background(), "lockafter", json.RawMessage(`[60]`))
	require.NoError(t, err)
	_, err = table.Execute(context.Background(), "lockafter", json.RawMessage(`[120]`))
	require.NoError(t, err)

	require.Len(t, provider.handles, 2)
	assert.True(t, provider.handles[0].canceled)
	assert.False(t, provider.handles[1].canceled)
}

func TestLockAfter_InvalidParams(t *testing.T) {
	table, _, _ := nodeTable(t)

	for _, params := range []string{`[]`, `["x"]`, `[0]`, `[-5]`, `{"seconds":5}`, `[1,2]`} {
		_, err := table.Execute(context.Background(), "lockafter", json.RawMessage(params))
		var jerr *jsonrpc.Error
		require.ErrorAs(t, err, &jerr, "params %s", params)
		assert.Equal(t, jsonrpc.CodeInvalidParams, jerr.Code, "params %s", params)
	}
}
