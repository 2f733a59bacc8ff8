package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hatlabs/cockpit-package-manager/internal/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info [package]",
	Short: "Show package information",
	Long: `Display detailed information about a package: description, license,
category, size and its dependency list.

Examples:
  pkmgr info vim
  pkmgr info nginx`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	pkg := args[0]

	result, err := client.Info(ctx, pkg)
	if err != nil {
		return reportError(err)
	}

	ui.PrintPackageInfo(result)

	if result.Installed {
		ui.SuccessMsg("Package is installed")
	} else {
		ui.MutedMsg("Package is not installed")
	}

	return nil
}
