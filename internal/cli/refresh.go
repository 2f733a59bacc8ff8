package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hatlabs/cockpit-package-manager/internal/history"
	"github.com/hatlabs/cockpit-package-manager/internal/ui"
)

var refreshForce bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the package metadata cache",
	Long: `Ask the package service to refresh its repository metadata.

With --force the cache is rebuilt even if the service considers it
fresh.

Examples:
  pkmgr refresh
  pkmgr refresh --force`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVarP(&refreshForce, "force", "f", false, "rebuild the cache even if fresh")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	entry := history.NewEntry(history.OpRefresh, nil)

	sp := ui.NewSpinner("Refreshing package cache")
	sp.Start()

	err := client.RefreshCache(ctx, refreshForce, sp.Progress())

	if err != nil {
		sp.Stop()
		entry.MarkFailed(errorCode(err), err)
		recordHistory(entry)
		return reportError(err)
	}

	sp.Success("Package cache refreshed")
	entry.MarkSuccess()
	recordHistory(entry)

	groupCache.Invalidate()

	return nil
}
