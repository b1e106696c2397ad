package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openwob/wobkit/internal/workspace"
)

// missingCmd represents the missing command.
var missingCmd = &cobra.Command{
	Use:   "missing [a] [b]",
	Short: "Show items present in one list but not the other",
	Long: `Compare two files of newline-separated items, typically document IDs,
and print the items unique to each side.

Examples:
  wobkit missing inventory-ids.txt disk-ids.txt`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runMissing,
}

func init() {
	rootCmd.AddCommand(missingCmd)
}

func runMissing(cmd *cobra.Command, args []string) error {
	diff, err := workspace.CompareFiles(args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Only in %s (%d):\n", args[0], len(diff.OnlyInA))
	for _, item := range diff.OnlyInA {
		fmt.Fprintf(out, "  %s\n", item)
	}
	fmt.Fprintf(out, "Only in %s (%d):\n", args[1], len(diff.OnlyInB))
	for _, item := range diff.OnlyInB {
		fmt.Fprintf(out, "  %s\n", item)
	}
	return nil
}
