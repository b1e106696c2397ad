package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openwob/wobkit/internal/inventory"
)

// inventoryCmd groups the inventory subcommands.
var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Clean up and check disclosure inventory spreadsheets",
}

// inventoryNormalizeCmd represents the inventory normalize command.
var inventoryNormalizeCmd = &cobra.Command{
	Use:   "normalize [xlsx] [matter]",
	Short: "Normalize a raw inventory spreadsheet",
	Long: `Normalize a raw inventory: drop unnamed columns, rename columns to the
standard names, fill the Matter column with the given matter, convert
dates to local time and clean up document IDs. The result is written
next to the input as Normalized_<name>.

Examples:
  wobkit inventory normalize inventaris.xlsx woo-2023-12`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runInventoryNormalize,
}

// inventoryDatesCmd represents the inventory dates command.
var inventoryDatesCmd = &cobra.Command{
	Use:   "dates [xlsx...]",
	Short: "Report how many inventory rows carry a date",
	Long: `Report, per spreadsheet, the percentage of rows with a filled Datum
cell. Files that cannot be read are reported and do not stop the rest.

Examples:
  wobkit inventory dates inventaris.xlsx
  wobkit inventory dates workspaces/*/Normalized_*.xlsx`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runInventoryDates,
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
	inventoryCmd.AddCommand(inventoryNormalizeCmd)
	inventoryCmd.AddCommand(inventoryDatesCmd)

	inventoryNormalizeCmd.Flags().String("timezone", "", "timezone for date conversion (default from config)")
}

func runInventoryNormalize(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	timezone := cfg.Inventory.Timezone
	if v, _ := cmd.Flags().GetString("timezone"); v != "" {
		timezone = v
	}

	normalizer, err := inventory.NewNormalizer(args[1], timezone)
	if err != nil {
		return err
	}
	outPath, err := normalizer.NormalizeFile(args[0])
	if err != nil {
		return fmt.Errorf("normalization failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
	return nil
}

func runInventoryDates(cmd *cobra.Command, args []string) error {
	for _, result := range inventory.CheckDates(args) {
		fmt.Fprintln(cmd.OutOrStdout(), result.String())
	}
	return nil
}
