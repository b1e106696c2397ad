package gpu

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/guptarohit/asciigraph"
)

// Querier fetches one GPU sample.
type Querier func(ctx context.Context) (Sample, error)

// MonitorConfig controls the terminal monitor loop.
type MonitorConfig struct {
	Interval        time.Duration
	Width           int // chart width in samples, typically the terminal width
	Height          int
	ShowUtilization bool
}

// Monitor polls the GPU on an interval and redraws a chart of recent
// samples.
type Monitor struct {
	cfg     MonitorConfig
	query   Querier
	history *History
	metrics *Metrics
	logger  *slog.Logger
}

// NewMonitor creates a monitor. A nil query uses nvidia-smi.
func NewMonitor(cfg MonitorConfig, query Querier) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Width <= 0 {
		cfg.Width = 80
	}
	if cfg.Height <= 0 {
		cfg.Height = 10
	}
	if query == nil {
		query = Query
	}
	return &Monitor{
		cfg:     cfg,
		query:   query,
		history: NewHistory(cfg.Width),
		logger:  slog.Default(),
	}
}

// WithMetrics attaches Prometheus gauges that get updated on every sample.
func (m *Monitor) WithMetrics(metrics *Metrics) *Monitor {
	m.metrics = metrics
	return m
}

// Run polls until the context is cancelled, writing a redrawn chart to w
// after each sample. Query errors are logged and polling continues.
func (m *Monitor) Run(ctx context.Context, w io.Writer) error {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		sample, err := m.query(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.logger.Warn("failed to query GPU", "error", err)
		} else {
			m.history.Push(sample)
			if m.metrics != nil {
				m.metrics.Observe(sample)
			}
			fmt.Fprint(w, "\033[2J\033[H")
			fmt.Fprintln(w, m.Render())
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Render draws the current history as an ASCII chart with a summary footer.
func (m *Monitor) Render() string {
	latest, ok := m.history.Latest()
	if !ok {
		return "waiting for samples"
	}

	out := asciigraph.Plot(m.history.UsedGB(),
		asciigraph.Height(m.cfg.Height),
		asciigraph.Caption("GPU memory used (GB)"))
	if m.cfg.ShowUtilization {
		out += "\n\n" + asciigraph.Plot(m.history.Utilization(),
			asciigraph.Height(m.cfg.Height),
			asciigraph.Caption("GPU utilization (%)"))
	}
	out += "\n" + FooterLine(latest)
	return out
}

// FooterLine renders the one-line summary shown under the chart.
func FooterLine(s Sample) string {
	return fmt.Sprintf("used %.0f MiB / free %.0f MiB / total %.0f MiB | utilization %.0f%%",
		s.MemoryUsedMiB, s.MemoryFreeMiB(), s.MemoryTotalMiB, s.Utilization)
}
