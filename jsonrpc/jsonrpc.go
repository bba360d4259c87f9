package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Error codes used across the RPC interface. The gateway only needs to
// distinguish three of them for HTTP status mapping; the rest belong to the
// method registry's code space.
const (
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeParseError     = -32700

	// CodeInWarmup is returned for every call while the node is still
	// initializing.
	CodeInWarmup = -28
)

// Error is a JSON-RPC error object. It implements the error interface so
// method handlers can return it directly.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewError returns an *Error with the given code and message.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf returns an *Error with a formatted message.
func Errorf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Message
}

// Response is a single JSON-RPC response envelope. Result and Error are
// serialized unconditionally, one of them as null.
type Response struct {
	Result any             `json:"result"`
	Error  *Error          `json:"error"`
	ID     json.RawMessage `json:"id"`
}

// NewResponse wraps a successful result, echoing the request id.
func NewResponse(result any, id json.RawMessage) Response {
	return Response{Result: result, Error: nil, ID: id}
}

// NewErrorResponse wraps an error, echoing the request id. Result stays null.
func NewErrorResponse(err *Error, id json.RawMessage) Response {
	return Response{Result: nil, Error: err, ID: id}
}

// Call is one parsed JSON-RPC request.
type Call struct {
	Method string
	Params json.RawMessage
	ID     json.RawMessage
}

// rawCall mirrors the request object with every field left undecoded, so
// a missing field can be told apart from a mistyped one.
type rawCall struct {
	Method json.RawMessage `json:"method"`
	Params json.RawMessage `json:"params"`
	ID     json.RawMessage `json:"id"`
}

var emptyParams = json.RawMessage("[]")

// ParseCall decodes a single request object. The id is extracted before any
// validation so that error envelopes built from the returned *Error can
// still echo it; callers must use call.ID even when err is non-nil.
func ParseCall(raw json.RawMessage) (call Call, jerr *Error) {
	if kind(raw) != '{' {
		return call, NewError(CodeInvalidRequest, "Invalid Request object")
	}

	var req rawCall
	if err := json.Unmarshal(raw, &req); err != nil {
		return call, NewError(CodeInvalidRequest, "Invalid Request object")
	}
	call.ID = req.ID

	if req.Method == nil || kind(req.Method) == 'n' {
		return call, NewError(CodeInvalidRequest, "Missing method")
	}
	if err := json.Unmarshal(req.Method, &call.Method); err != nil {
		return call, NewError(CodeInvalidRequest, "Method must be a string")
	}

	switch k := kind(req.Params); {
	case req.Params == nil || k == 'n':
		call.Params = emptyParams
	case k == '[' || k == '{':
		call.Params = req.Params
	default:
		return call, NewError(CodeInvalidRequest, "Params must be an array or object")
	}

	return call, nil
}

// kind returns the first non-space byte of a JSON value, which identifies
// its type ('{', '[', '"', 'n' for null, digits, 't'/'f'). Returns 0 for
// empty input.
func kind(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// Kind exposes the top-level JSON type detection for the gateway, which
// needs to distinguish single calls from batches.
func Kind(raw json.RawMessage) byte {
	return kind(raw)
}
