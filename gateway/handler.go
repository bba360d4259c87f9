package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/strandbit/node-rpc-gateway/interfaces"
	"github.com/strandbit/node-rpc-gateway/jsonrpc"
	"github.com/strandbit/node-rpc-gateway/metrics"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// Handler translates authenticated HTTP requests into JSON-RPC calls
// against the method registry and writes the response envelope back.
type Handler struct {
	auth      *Authenticator
	registry  interfaces.Dispatcher
	warmup    interfaces.WarmupIndicator
	failDelay time.Duration
	log       *slog.Logger
}

// NewHandler builds the request translator.
func NewHandler(auth *Authenticator, registry interfaces.Dispatcher, warmup interfaces.WarmupIndicator, failDelay time.Duration, log *slog.Logger) *Handler {
	return &Handler{
		auth:      auth,
		registry:  registry,
		warmup:    warmup,
		failDelay: failDelay,
		log:       log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Method gating precedes authentication.
	if r.Method != http.MethodPost {
		metrics.IncRequest(http.StatusMethodNotAllowed)
		http.Error(w, "JSONRPC server handles only POST requests", http.StatusMethodNotAllowed)
		return
	}

	// All authentication failures collapse to the same empty 401 so the
	// response discloses nothing about why the attempt failed.
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		metrics.IncRequest(http.StatusUnauthorized)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if !h.auth.Authorized(authHeader) {
		h.log.Warn("incorrect rpc credentials", "remoteAddr", r.RemoteAddr)
		metrics.IncAuthFailure()
		metrics.IncRequest(http.StatusUnauthorized)
		// Deter brute-forcing. Sleeps on the request goroutine, holding
		// no locks.
		time.Sleep(h.failDelay)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		h.writeError(w, jsonrpc.NewError(jsonrpc.CodeParseError, "Parse error"), nil)
		return
	}
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		h.writeError(w, jsonrpc.NewError(jsonrpc.CodeParseError, "Parse error"), nil)
		return
	}

	// Readiness is only disclosed to authenticated callers.
	if warming, status := h.warmup.IsInWarmup(); warming {
		h.writeError(w, jsonrpc.NewError(jsonrpc.CodeInWarmup, status), nil)
		return
	}

	switch jsonrpc.Kind(raw) {
	case '{':
		resp := h.execSingle(r.Context(), raw)
		if resp.Error != nil {
			h.writeJSON(w, StatusForCode(resp.Error.Code), resp)
			return
		}
		h.writeJSON(w, http.StatusOK, resp)

	case '[':
		var calls []json.RawMessage
		if err := json.Unmarshal(raw, &calls); err != nil {
			h.writeError(w, jsonrpc.NewError(jsonrpc.CodeParseError, "Parse error"), nil)
			return
		}
		// Elements run sequentially in input order; per-element failures
		// stay inside their own envelope and the batch itself is a 200.
		responses := make([]jsonrpc.Response, 0, len(calls))
		for _, call := range calls {
			responses = append(responses, h.execSingle(r.Context(), call))
		}
		h.writeJSON(w, http.StatusOK, responses)

	default:
		h.writeError(w, jsonrpc.NewError(jsonrpc.CodeParseError, "Top-level object parse error"), nil)
	}
}

// execSingle runs one call and always produces a well-formed envelope
// echoing the request id, including when parsing or dispatch failed.
func (h *Handler) execSingle(ctx context.Context, raw json.RawMessage) jsonrpc.Response {
	call, jerr := jsonrpc.ParseCall(raw)
	if jerr != nil {
		metrics.IncRPCError(jerr.Code)
		return jsonrpc.NewErrorResponse(jerr, call.ID)
	}

	result, err := h.registry.Execute(ctx, call.Method, call.Params)
	if err != nil {
		jerr := asRPCError(err)
		metrics.IncRPCError(jerr.Code)
		return jsonrpc.NewErrorResponse(jerr, call.ID)
	}
	return jsonrpc.NewResponse(result, call.ID)
}

// asRPCError converts a registry failure into the wire error union.
// *jsonrpc.Error values pass through with their code and message; anything
// else gets the generic parse error code with the error text as message.
func asRPCError(err error) *jsonrpc.Error {
	var jerr *jsonrpc.Error
	if errors.As(err, &jerr) {
		return jerr
	}
	return jsonrpc.NewError(jsonrpc.CodeParseError, err.Error())
}

func (h *Handler) writeError(w http.ResponseWriter, jerr *jsonrpc.Error, id json.RawMessage) {
	metrics.IncRPCError(jerr.Code)
	h.writeJSON(w, StatusForCode(jerr.Code), jsonrpc.NewErrorResponse(jerr, id))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	metrics.IncRequest(status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("failed to encode rpc response", "err", err)
	}
}
