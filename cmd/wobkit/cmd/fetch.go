package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openwob/wobkit/internal/fetch"
)

// fetchCmd represents the fetch command.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download disclosure publications and their PDFs",
	Long: `Download every publication listed by the publication index: a
titles.csv with all publications, plus a directory per publication
holding its title, the list of PDF links found on its page and the
downloaded PDFs. Already-downloaded files are kept; a file named "skip"
in a publication directory suppresses its downloads.

Examples:
  wobkit fetch
  wobkit fetch --out-dir publications
  wobkit fetch --index-url https://example.org/search --base-url https://example.org/`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().String("index-url", "", "publication index URL (default from config)")
	fetchCmd.Flags().String("base-url", "", "base URL publication links are relative to (default from config)")
	fetchCmd.Flags().StringP("out-dir", "o", ".", "directory to download into")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	indexURL := cfg.Fetch.IndexURL
	if v, _ := cmd.Flags().GetString("index-url"); v != "" {
		indexURL = v
	}
	baseURL := cfg.Fetch.BaseURL
	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		baseURL = v
	}
	outDir, _ := cmd.Flags().GetString("out-dir")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := fetch.NewClient(fetch.Config{
		IndexURL: indexURL,
		BaseURL:  baseURL,
		OutDir:   outDir,
		Timeout:  time.Duration(cfg.Fetch.TimeoutSec) * time.Second,
	})
	if err := client.Run(ctx); err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Done, publications in %s\n", outDir)
	return nil
}
