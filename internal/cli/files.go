package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hatlabs/cockpit-package-manager/internal/ui"
)

var filesCmd = &cobra.Command{
	Use:   "files [package]",
	Short: "List files installed by a package",
	Long: `List the files an installed package owns.

Examples:
  pkmgr files coreutils`,
	Args: cobra.ExactArgs(1),
	RunE: runFiles,
}

func runFiles(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := args[0]

	var files []string
	err := ui.WithSpinner("Loading file list", func() error {
		id, err := client.Resolve(ctx, name)
		if err != nil {
			return err
		}
		files, err = client.ListFiles(ctx, id)
		return err
	})
	if err != nil {
		return reportError(err)
	}

	if len(files) == 0 {
		ui.MutedMsg("No file list available for %s", name)
		return nil
	}

	ui.HeaderMsg("Files in %s (%d)", name, len(files))
	for _, f := range files {
		ui.Println("  %s", f)
	}

	return nil
}
