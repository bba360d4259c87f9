// Package httpserver runs the HTTP engine the RPC gateway mounts itself on.
//
// The server keeps a dynamic path-to-handler map so the gateway can register
// and unregister the RPC endpoint at runtime. It additionally exposes health
// probes (/livez, /readyz), drain control (/drain, /undrain), an optional
// pprof surface, and a separate Prometheus metrics listener. It also owns the
// single-goroutine event loop that deferred RPC callbacks execute on.
package httpserver
