// Package healthserver exposes liveness, readiness, and Prometheus metrics
// endpoints for the mcp-datasource server.
package healthserver

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds the Prometheus collectors exported on /metrics. Only the
// REST cache hit/miss counters are updated (by the REST client pool); the
// request counter, request-duration histogram and active-connections gauge
// are registered but nothing in this module records against them.
type Metrics struct {
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	RestCacheHitsTotal  prometheus.Counter
	RestCacheMissTotal  prometheus.Counter
	ActiveConnections   prometheus.Gauge
	registry            *prometheus.Registry
}

// NewMetrics registers and returns the server's metric collectors against a
// fresh registry (never the global default, so multiple servers in the same
// test process don't collide).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcp_requests_total",
			Help: "Total RPC requests handled, by method.",
		}, []string{"method"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mcp_request_duration_seconds",
			Help:    "RPC request handling latency, by method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		RestCacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcp_rest_cache_hits_total",
			Help: "REST client pool cache hits.",
		}),
		RestCacheMissTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcp_rest_cache_misses_total",
			Help: "REST client pool cache misses.",
		}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mcp_active_connections",
			Help: "Live socket-transport connections.",
		}),
		registry: reg,
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.RestCacheHitsTotal, m.RestCacheMissTotal, m.ActiveConnections)
	return m
}

// Server is a non-blocking liveness/readiness/metrics HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// Start builds and starts a health/metrics server listening on addr. It
// returns immediately; the server runs on its own goroutine. readyChecker,
// if non-nil, gates /readyz.
func Start(logger *zap.Logger, addr string, metrics *Metrics, readyChecker func() bool) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if readyChecker == nil || readyChecker() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
	})

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 40 * time.Second,
	}

	srv := &Server{httpServer: httpServer, logger: logger}

	go func() {
		logger.Info("starting health/metrics server", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", zap.Error(err))
		}
	}()

	return srv
}

// Stop gracefully shuts the health server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
