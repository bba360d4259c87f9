// Package metrics exposes the service's Prometheus metrics and a small
// standalone server for scraping them on a separate listen address.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rpcgateway"

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "JSON-RPC HTTP requests handled, by HTTP status.",
	}, []string{"status"})

	authFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Rejected authentication attempts.",
	})

	rpcErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_errors_total",
		Help:      "JSON-RPC error envelopes produced, by error code.",
	}, []string{"code"})

	info = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "info",
		Help:      "Static service information.",
	}, []string{"service"})
)

// IncRequest counts one handled request with its HTTP status.
func IncRequest(status int) {
	requestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}

// IncAuthFailure counts one rejected authentication attempt.
func IncAuthFailure() {
	authFailuresTotal.Inc()
}

// IncRPCError counts one produced error envelope.
func IncRPCError(code int) {
	rpcErrorsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
}

// MetricsServer serves /metrics on its own address, next to the API server.
type MetricsServer struct {
	srv *http.Server
}

// New builds the metrics server. The name is exported as a build_info-style
// gauge so dashboards can tell services apart.
func New(name, listenAddr string) (*MetricsServer, error) {
	info.WithLabelValues(name).Set(1)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:         listenAddr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

// ListenAndServe blocks serving scrapes until Shutdown.
func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
