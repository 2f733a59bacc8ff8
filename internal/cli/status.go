package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hatlabs/cockpit-package-manager/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the package service is usable",
	Long: `Probe the system bus for a usable package service. Reports whether
the service answered and whether the package cache mount is writable.

Examples:
  pkmgr status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ui.HeaderMsg("Service Status")

	if client.Detect(ctx) {
		ui.SuccessMsg("Package service is available")
	} else {
		ui.ErrorMsg("Package service is not available")
		ui.MutedMsg("  The service may not be installed, or %s is read-only", cfg.Service.CacheMount)
		return ErrNoService
	}

	ui.MutedMsg("  Cache mount: %s", cfg.Service.CacheMount)

	return nil
}
