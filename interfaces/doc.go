/*
Package interfaces defines the contracts between the RPC gateway, the
method registry, and the deferred-timer machinery.

Keeping these in a standalone package lets the gateway be tested against
small fakes and keeps the dependency direction one-way: gateway and
rpcserver both depend on interfaces, never on each other.
*/
package interfaces
