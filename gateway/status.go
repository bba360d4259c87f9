package gateway

import (
	"net/http"

	"github.com/strandbit/node-rpc-gateway/jsonrpc"
)

// StatusForCode maps a JSON-RPC error code to an HTTP status. The mapping
// is total: unrecognized codes, parse errors, warmup and method-thrown
// errors all land in the 500 bucket.
func StatusForCode(code int) int {
	switch code {
	case jsonrpc.CodeInvalidRequest:
		return http.StatusBadRequest
	case jsonrpc.CodeMethodNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
