package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openwob/wobkit/internal/workspace"
)

// workspaceCmd groups the workspace subcommands.
var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Build and inspect per-case workspace folders",
}

// workspaceCreateCmd represents the workspace create command.
var workspaceCreateCmd = &cobra.Command{
	Use:   "create [csv]",
	Short: "Create workspace folders from an id,folder CSV",
	Long: `Create a workspace folder per CSV row: workspaces/<id> (the id
zero-padded to three digits) with pdfs.txt and every spreadsheet copied
from the source folder.

Examples:
  wobkit workspace create mapping.csv`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runWorkspaceCreate,
}

// workspaceSheetsCmd represents the workspace sheets command.
var workspaceSheetsCmd = &cobra.Command{
	Use:   "sheets [folders.txt] [csv]",
	Short: "List the spreadsheets in each folder",
	Long: `Read folder paths from a file (one per line) and write a folder,sheet
CSV listing the .xlsx files in each. Missing folders are reported.

Examples:
  wobkit workspace sheets folders.txt sheets.csv`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runWorkspaceSheets,
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceSheetsCmd)
}

func runWorkspaceCreate(cmd *cobra.Command, args []string) error {
	if err := workspace.CreateWorkspaces(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Workspaces created under %s\n", workspace.WorkspacesDir)
	return nil
}

func runWorkspaceSheets(cmd *cobra.Command, args []string) error {
	results, err := workspace.ListSheets(args[0])
	if err != nil {
		return err
	}
	if err := workspace.WriteSheetsCSV(results, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
	return nil
}
