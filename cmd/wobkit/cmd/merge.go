package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openwob/wobkit/internal/ner"
)

// mergeCmd represents the merge command.
var mergeCmd = &cobra.Command{
	Use:   "merge [csv...]",
	Short: "Merge entity CSV files into one sorted CSV",
	Long: `Concatenate Text,Tag,Count CSV files produced by the ner command and
sort the combined rows. The sort compares numerically when every value
in the sort column is a number.

Examples:
  wobkit merge a.ner.csv b.ner.csv
  wobkit merge *.ner.csv --sort-by Count --sort-direction desc -o all.csv`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().String("sort-by", "Count", "column to sort on")
	mergeCmd.Flags().String("sort-direction", "desc", "sort direction (asc, desc)")
	mergeCmd.Flags().StringP("output", "o", "combined.csv", "output file")
}

func runMerge(cmd *cobra.Command, args []string) error {
	sortBy, _ := cmd.Flags().GetString("sort-by")
	direction, _ := cmd.Flags().GetString("sort-direction")
	output, _ := cmd.Flags().GetString("output")

	if err := ner.MergeCSVs(args, output, ner.MergeOptions{
		SortBy:        sortBy,
		SortDirection: direction,
	}); err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
	return nil
}
