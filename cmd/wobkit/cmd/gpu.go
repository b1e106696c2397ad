package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/openwob/wobkit/internal/gpu"
)

// gpuCmd represents the gpu command.
var gpuCmd = &cobra.Command{
	Use:   "gpu",
	Short: "Monitor GPU memory and utilization in the terminal",
	Long: `Poll nvidia-smi and draw a live chart of GPU memory use, sized to the
terminal. Useful while the tagging model is running. With
--metrics-addr the samples are also exposed as Prometheus gauges.

Examples:
  wobkit gpu
  wobkit gpu --interval 2 --utilization
  wobkit gpu --metrics-addr :9090`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runGPU,
}

func init() {
	rootCmd.AddCommand(gpuCmd)

	gpuCmd.Flags().Float64("interval", 0, "seconds between samples (default from config)")
	gpuCmd.Flags().Bool("utilization", false, "also chart GPU utilization")
	gpuCmd.Flags().String("metrics-addr", "", "expose Prometheus /metrics on this address (default from config)")
}

func runGPU(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	interval := cfg.GPU.IntervalSec
	if v, _ := cmd.Flags().GetFloat64("interval"); v > 0 {
		interval = v
	}
	metricsAddr := cfg.GPU.MetricsAddr
	if v, _ := cmd.Flags().GetString("metrics-addr"); v != "" {
		metricsAddr = v
	}
	showUtilization, _ := cmd.Flags().GetBool("utilization")

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 10 {
		// Leave room for the chart's axis labels.
		width = w - 10
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	monitor := gpu.NewMonitor(gpu.MonitorConfig{
		Interval:        time.Duration(interval * float64(time.Second)),
		Width:           width,
		ShowUtilization: showUtilization,
	}, nil)

	if metricsAddr != "" {
		metrics := gpu.NewMetrics()
		monitor.WithMetrics(metrics)
		go func() {
			if err := metrics.Serve(ctx, metricsAddr); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "metrics server: %v\n", err)
			}
		}()
	}

	if err := monitor.Run(ctx, cmd.OutOrStdout()); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
