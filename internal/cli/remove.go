package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hatlabs/cockpit-package-manager/internal/history"
	"github.com/hatlabs/cockpit-package-manager/internal/ui"
)

var removeCmd = &cobra.Command{
	Use:     "remove [packages...]",
	Aliases: []string{"uninstall"},
	Short:   "Remove one or more packages",
	Long: `Remove installed packages. Dependencies that were pulled in for a
package are removed with it when nothing else needs them.

Packages the system itself depends on are refused by the service.

Examples:
  pkmgr remove vim              # Remove a package
  pkmgr remove -y git curl      # Remove without confirmation`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ui.InfoMsg("Removing %d package(s)", len(args))
	for _, pkg := range args {
		ui.MutedMsg("  - %s", pkg)
	}

	if !cfg.General.AutoConfirm {
		confirmed, err := ui.Confirm("Proceed with removal?", false)
		if err != nil {
			return err
		}
		if !confirmed {
			return ErrAborted
		}
	}

	var lastErr error
	for _, pkg := range args {
		if err := removePackage(ctx, pkg); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// removePackage removes a single installed package with progress feedback
// and records the outcome in history.
func removePackage(ctx context.Context, name string) error {
	entry := history.NewEntry(history.OpRemove, []string{name})

	sp := ui.NewSpinner(fmt.Sprintf("Removing %s", name))
	sp.Start()

	err := client.Remove(ctx, name, sp.Progress())

	if err != nil {
		sp.Stop()
		entry.MarkFailed(errorCode(err), err)
		recordHistory(entry)
		return reportError(err)
	}

	sp.Success(fmt.Sprintf("Removed %s", name))
	entry.MarkSuccess()
	recordHistory(entry)

	groupCache.Invalidate()

	return nil
}
