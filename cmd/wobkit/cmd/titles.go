package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openwob/wobkit/internal/workspace"
)

// titlesCmd groups the titles subcommands.
var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Collect and match publication titles",
}

// titlesScanCmd represents the titles scan command.
var titlesScanCmd = &cobra.Command{
	Use:   "scan [dir] [csv]",
	Short: "Collect title.txt files into a CSV",
	Long: `Walk a directory tree for title.txt files and write a folder,title CSV
listing every publication found.

Examples:
  wobkit titles scan publications titles.csv`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runTitlesScan,
}

// titlesMatchCmd represents the titles match command.
var titlesMatchCmd = &cobra.Command{
	Use:   "match [csv] [dir]",
	Short: "Match CSV titles to publication folders",
	Long: `Match each title in a CSV against the title.txt files under a
directory. Titles compare Unicode-normalized, so accent encoding
differences do not break matches. Unmatched titles are printed; matches
are written to <name>_updated.csv with one row per matched folder.

Examples:
  wobkit titles match titles.csv publications`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runTitlesMatch,
}

func init() {
	rootCmd.AddCommand(titlesCmd)
	titlesCmd.AddCommand(titlesScanCmd)
	titlesCmd.AddCommand(titlesMatchCmd)
}

func runTitlesScan(cmd *cobra.Command, args []string) error {
	titles, err := workspace.ScanTitles(args[0])
	if err != nil {
		return err
	}
	if err := workspace.WriteTitlesCSV(titles, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d titles)\n", args[1], len(titles))
	return nil
}

func runTitlesMatch(cmd *cobra.Command, args []string) error {
	results, err := workspace.MatchTitles(args[0], args[1])
	if err != nil {
		return err
	}

	matched := 0
	for _, r := range results {
		if len(r.Folders) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No folder for title: %s\n", r.Title)
			continue
		}
		matched++
	}

	outPath := workspace.MatchedCSVPath(args[0])
	if err := workspace.WriteMatchedCSV(results, outPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d of %d titles matched)\n", outPath, matched, len(results))
	return nil
}
