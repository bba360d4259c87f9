/*
Package rpcserver implements the node's method dispatch table.

The table maps method names to handlers and is consumed by the HTTP
gateway through the interfaces.MethodRegistry contract. Beyond dispatch it
owns two pieces of node-global state:

  - warmup: while the node initializes, the gateway rejects every call with
    a dedicated error carrying the live warmup status message;
  - deferred timers: methods that need a delayed action (for example a
    security re-lock) schedule it through RunLater, which forwards to the
    timer provider the gateway registers at start. Timers are keyed by
    name, and rescheduling a name replaces the pending timer.

A small set of built-in node methods (ping, uptime, help, lockafter,
islocked) is provided so a daemon has a working surface out of the box.
*/
package rpcserver
