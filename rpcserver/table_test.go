package rpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strandbit/node-rpc-gateway/interfaces"
	"github.com/strandbit/node-rpc-gateway/jsonrpc"
)

func testTable() *Table {
	return NewTable(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeTimerHandle records cancellation.
type fakeTimerHandle struct {
	canceled bool
}

func (h *fakeTimerHandle) Cancel() { h.canceled = true }

// fakeTimerProvider records scheduled callbacks without running them.
type fakeTimerProvider struct {
	handles []*fakeTimerHandle
	delays  []time.Duration
	fns     []func()
}

func (p *fakeTimerProvider) Name() string { return "fake" }

func (p *fakeTimerProvider) NewTimer(fn func(), delay time.Duration) interfaces.TimerHandle {
	h := &fakeTimerHandle{}
	p.handles = append(p.handles, h)
	p.delays = append(p.delays, delay)
	p.fns = append(p.fns, fn)
	return h
}

func TestExecute_Success(t *testing.T) {
	table := testTable()
	table.Register("echo", func(ctx context.Context, params json.RawMessage) (any, error) {
		return string(params), nil
	})

	result, err := table.Execute(context.Background(), "echo", json.RawMessage(`[1]`))
	require.NoError(t, err)
	assert.Equal(t, "[1]", result)
}

func TestExecute_MethodNotFound(t *testing.T) {
	table := testTable()

	_, err := table.Execute(context.Background(), "nope", json.RawMessage(`[]`))
	var jerr *jsonrpc.Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, jsonrpc.CodeMethodNotFound, jerr.Code)
	assert.Equal(t, "Method not found", jerr.Message)
}

func TestExecute_PanicIsRecovered(t *testing.T) {
	table := testTable()
	table.Register("boom", func(ctx context.Context, params json.RawMessage) (any, error) {
		panic("kaput")
	})

	result, err := table.Execute(context.Background(), "boom", json.RawMessage(`[]`))
	assert.Nil(t, result)

	var jerr *jsonrpc.Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, jsonrpc.CodeInternalError, jerr.Code)
	assert.Contains(t, jerr.Message, "kaput")
}

func TestExecute_MethodErrorPassesThrough(t *testing.T) {
	table := testTable()
	table.Register("fail", func(ctx context.Context, params json.RawMessage) (any, error) {
		return nil, jsonrpc.NewError(jsonrpc.CodeInvalidParams, "bad params")
	})

	_, err := table.Execute(context.Background(), "fail", json.RawMessage(`[]`))
	var jerr *jsonrpc.Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, jsonrpc.CodeInvalidParams, jerr.Code)
}

func TestWarmupLifecycle(t *testing.T) {
	table := testTable()

	warming, status := table.IsInWarmup()
	assert.True(t, warming)
	assert.Equal(t, "RPC in warm-up", status)

	table.SetWarmupStatus("loading block index")
	warming, status = table.IsInWarmup()
	assert.True(t, warming)
	assert.Equal(t, "loading block index", status)

	require.NoError(t, table.SetWarmupFinished())
	warming, _ = table.IsInWarmup()
	assert.False(t, warming)

	// Finishing twice is a programming error.
	assert.Error(t, table.SetWarmupFinished())
}

func TestTimerProvider_ZeroOrOne(t *testing.T) {
	table := testTable()
	first := &fakeTimerProvider{}
	second := &fakeTimerProvider{}

	require.NoError(t, table.RegisterTimerProvider(first))
	assert.Error(t, table.RegisterTimerProvider(second))

	// Unregistering a provider that is not active is a no-op.
	table.UnregisterTimerProvider(second)
	assert.Error(t, table.RegisterTimerProvider(second))

	table.UnregisterTimerProvider(first)
	require.NoError(t, table.RegisterTimerProvider(second))
}

func TestRunLater_NoProvider(t *testing.T) {
	table := testTable()

	err := table.RunLater("relock", func() {}, time.Second)
	var jerr *jsonrpc.Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, jsonrpc.CodeInternalError, jerr.Code)
}

func TestRunLater_ReplacesSameName(t *testing.T) {
	table := testTable()
	provider := &fakeTimerProvider{}
	require.NoError(t, table.RegisterTimerProvider(provider))

	require.NoError(t, table.RunLater("relock", func() {}, time.Second))
	require.NoError(t, table.RunLater("relock", func() {}, 2*time.Second))
	require.NoError(t, table.RunLater("other", func() {}, 3*time.Second))

	require.Len(t, provider.handles, 3)
	assert.True(t, provider.handles[0].canceled, "replaced timer must be canceled")
	assert.False(t, provider.handles[1].canceled)
	assert.False(t, provider.handles[2].canceled)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, provider.delays)
}

func TestRegisterOverwrite(t *testing.T) {
	table := testTable()
	table.Register("m", func(ctx context.Context, params json.RawMessage) (any, error) {
		return 1, nil
	})
	table.Register("m", func(ctx context.Context, params json.RawMessage) (any, error) {
		return 2, nil
	})

	result, err := table.Execute(context.Background(), "m", json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Equal(t, 2, result)
}

func TestMethodsSorted(t *testing.T) {
	table := testTable()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		table.Register(name, func(ctx context.Context, params json.RawMessage) (any, error) {
			return nil, errors.New("unused")
		})
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, table.Methods())
}
