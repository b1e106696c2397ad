package gpu

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const mib = 1024 * 1024

// Metrics exposes the current GPU sample as Prometheus gauges.
type Metrics struct {
	registry    *prometheus.Registry
	memoryUsed  prometheus.Gauge
	memoryTotal prometheus.Gauge
	utilization prometheus.Gauge
}

// NewMetrics creates and registers the GPU gauges on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		memoryUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wobkit_gpu_memory_used_bytes",
			Help: "GPU memory currently in use.",
		}),
		memoryTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wobkit_gpu_memory_total_bytes",
			Help: "Total GPU memory.",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wobkit_gpu_utilization_ratio",
			Help: "GPU utilization as a ratio between 0 and 1.",
		}),
	}
	m.registry.MustRegister(m.memoryUsed, m.memoryTotal, m.utilization)
	return m
}

// Observe updates the gauges from a sample.
func (m *Metrics) Observe(s Sample) {
	m.memoryUsed.Set(s.MemoryUsedMiB * mib)
	m.memoryTotal.Set(s.MemoryTotalMiB * mib)
	m.utilization.Set(s.Utilization / 100)
}

// Handler returns the /metrics HTTP handler for the gauges.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs an HTTP server exposing /metrics on addr until the context is
// cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server failed: %w", err)
	}
}
