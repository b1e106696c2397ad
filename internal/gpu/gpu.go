// Package gpu monitors NVIDIA GPU memory and utilization by polling
// nvidia-smi, rendering a terminal chart and optionally exporting
// Prometheus gauges.
package gpu

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Sample is one nvidia-smi reading.
type Sample struct {
	MemoryUsedMiB  float64
	MemoryTotalMiB float64
	Utilization    float64 // 0..100
}

// MemoryFreeMiB returns the free memory implied by the sample.
func (s Sample) MemoryFreeMiB() float64 {
	return s.MemoryTotalMiB - s.MemoryUsedMiB
}

// UsedGB returns used memory in gigabytes, the unit the chart plots.
func (s Sample) UsedGB() float64 {
	return s.MemoryUsedMiB / 1024
}

var queryArgs = []string{
	"--query-gpu=memory.used,memory.total,utilization.gpu",
	"--format=csv,noheader,nounits",
}

// Query runs nvidia-smi and returns the first GPU's sample.
func Query(ctx context.Context) (Sample, error) {
	out, err := exec.CommandContext(ctx, "nvidia-smi", queryArgs...).Output()
	if err != nil {
		return Sample{}, fmt.Errorf("nvidia-smi failed: %w", err)
	}
	return ParseSample(string(out))
}

// ParseSample parses one line of nvidia-smi CSV output, e.g. "1234, 8192, 45".
// Multi-GPU output uses the first line.
func ParseSample(output string) (Sample, error) {
	line := strings.TrimSpace(output)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return Sample{}, fmt.Errorf("unexpected nvidia-smi output %q", line)
	}

	values := make([]float64, 3)
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Sample{}, fmt.Errorf("unexpected nvidia-smi field %q: %w", field, err)
		}
		values[i] = v
	}
	return Sample{
		MemoryUsedMiB:  values[0],
		MemoryTotalMiB: values[1],
		Utilization:    values[2],
	}, nil
}

// History is a fixed-capacity ring of recent samples.
type History struct {
	samples []Sample
	cap     int
}

// NewHistory creates a history holding at most capacity samples.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{cap: capacity}
}

// Push appends a sample, evicting the oldest when full.
func (h *History) Push(s Sample) {
	h.samples = append(h.samples, s)
	if len(h.samples) > h.cap {
		h.samples = h.samples[len(h.samples)-h.cap:]
	}
}

// UsedGB returns the used-memory series in gigabytes, oldest first.
func (h *History) UsedGB() []float64 {
	out := make([]float64, len(h.samples))
	for i, s := range h.samples {
		out[i] = s.UsedGB()
	}
	return out
}

// Utilization returns the utilization series in percent, oldest first.
func (h *History) Utilization() []float64 {
	out := make([]float64, len(h.samples))
	for i, s := range h.samples {
		out[i] = s.Utilization
	}
	return out
}

// Latest returns the most recent sample, if any.
func (h *History) Latest() (Sample, bool) {
	if len(h.samples) == 0 {
		return Sample{}, false
	}
	return h.samples[len(h.samples)-1], true
}

// Len returns the number of stored samples.
func (h *History) Len() int {
	return len(h.samples)
}
