package gpu

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSample(t *testing.T) {
	s, err := ParseSample("1234, 8192, 45\n")
	require.NoError(t, err)
	assert.InDelta(t, 1234, s.MemoryUsedMiB, 0.001)
	assert.InDelta(t, 8192, s.MemoryTotalMiB, 0.001)
	assert.InDelta(t, 45, s.Utilization, 0.001)
	assert.InDelta(t, 6958, s.MemoryFreeMiB(), 0.001)
}

func TestParseSample_MultiGPUUsesFirstLine(t *testing.T) {
	s, err := ParseSample("100, 8192, 10\n200, 8192, 20\n")
	require.NoError(t, err)
	assert.InDelta(t, 100, s.MemoryUsedMiB, 0.001)
}

func TestParseSample_Invalid(t *testing.T) {
	_, err := ParseSample("")
	require.Error(t, err)
	_, err = ParseSample("1234, 8192")
	require.Error(t, err)
	_, err = ParseSample("a, b, c")
	require.Error(t, err)
}

func TestHistory_EvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Push(Sample{MemoryUsedMiB: float64(i) * 1024})
	}
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []float64{3, 4, 5}, h.UsedGB())

	latest, ok := h.Latest()
	require.True(t, ok)
	assert.InDelta(t, 5*1024, latest.MemoryUsedMiB, 0.001)
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(4)
	_, ok := h.Latest()
	assert.False(t, ok)
	assert.Empty(t, h.UsedGB())
}

func TestFooterLine(t *testing.T) {
	line := FooterLine(Sample{MemoryUsedMiB: 1024, MemoryTotalMiB: 4096, Utilization: 50})
	assert.Equal(t, "used 1024 MiB / free 3072 MiB / total 4096 MiB | utilization 50%", line)
}

func TestMonitor_RenderIncludesCaptionAndFooter(t *testing.T) {
	m := NewMonitor(MonitorConfig{Width: 10, Height: 4}, nil)
	m.history.Push(Sample{MemoryUsedMiB: 2048, MemoryTotalMiB: 8192, Utilization: 30})
	m.history.Push(Sample{MemoryUsedMiB: 3072, MemoryTotalMiB: 8192, Utilization: 60})

	out := m.Render()
	assert.Contains(t, out, "GPU memory used (GB)")
	assert.Contains(t, out, "total 8192 MiB")
	assert.NotContains(t, out, "GPU utilization (%)")
}

func TestMonitor_RenderWithUtilization(t *testing.T) {
	m := NewMonitor(MonitorConfig{Width: 10, Height: 4, ShowUtilization: true}, nil)
	m.history.Push(Sample{MemoryUsedMiB: 2048, MemoryTotalMiB: 8192, Utilization: 30})

	assert.Contains(t, m.Render(), "GPU utilization (%)")
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	calls := 0
	query := func(context.Context) (Sample, error) {
		calls++
		return Sample{MemoryUsedMiB: 100, MemoryTotalMiB: 1000, Utilization: 1}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	m := NewMonitor(MonitorConfig{Interval: 10 * time.Millisecond, Width: 5}, query)
	err := m.Run(ctx, io.Discard)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, calls, 1)
}

func TestMonitor_RunContinuesAfterQueryError(t *testing.T) {
	calls := 0
	query := func(context.Context) (Sample, error) {
		calls++
		if calls == 1 {
			return Sample{}, fmt.Errorf("nvidia-smi missing")
		}
		return Sample{MemoryUsedMiB: 1, MemoryTotalMiB: 2}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	m := NewMonitor(MonitorConfig{Interval: 10 * time.Millisecond, Width: 5}, query)
	var buf strings.Builder
	_ = m.Run(ctx, &buf)
	assert.GreaterOrEqual(t, calls, 2)
	assert.Contains(t, buf.String(), "used 1 MiB")
}

func TestMetrics_Observe(t *testing.T) {
	metrics := NewMetrics()
	metrics.Observe(Sample{MemoryUsedMiB: 1024, MemoryTotalMiB: 4096, Utilization: 75})

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "wobkit_gpu_memory_used_bytes 1.073741824e+09")
	assert.Contains(t, body, "wobkit_gpu_memory_total_bytes 4.294967296e+09")
	assert.Contains(t, body, "wobkit_gpu_utilization_ratio 0.75")
}
