/*
Package gateway implements the authenticated JSON-RPC front-end of the
node's HTTP interface.

The gateway owns four concerns:

  - Authentication: HTTP Basic credentials are checked against the single
    user:secret pair computed at startup, using a timing-safe comparison.
    Every failure collapses to the same 401 with an empty body, and the
    response is delayed to deter brute-forcing.
  - Translation: the request body is parsed as a single JSON-RPC call or a
    batch; each call is dispatched to the method registry and the result or
    error is wrapped back into a response envelope. Batch elements are
    isolated: one failing element never aborts the rest, and output order
    matches input order.
  - Status mapping: JSON-RPC error codes map to HTTP statuses (invalid
    request 400, method not found 404, everything else 500).
  - Lifecycle: Start validates credentials, mounts the handler on the RPC
    root path and registers the deferred-timer provider with the method
    registry; Stop unregisters both and is idempotent. A failed Start
    leaves nothing registered.

Requests are rejected while the node is in warmup, but only after
authentication, so unauthenticated callers learn nothing about readiness.
*/
package gateway
