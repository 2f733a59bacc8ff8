package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hatlabs/cockpit-package-manager/internal/history"
	"github.com/hatlabs/cockpit-package-manager/internal/ui"
	"github.com/hatlabs/cockpit-package-manager/pkg/packagekit"
)

var installCmd = &cobra.Command{
	Use:   "install [packages...]",
	Short: "Install one or more packages",
	Long: `Install packages from the configured repositories.

Each name is resolved to the newest available version for the system
architecture before installation.

Examples:
  pkmgr install vim git curl    # Install several packages
  pkmgr install -y neovim       # Install without confirmation`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ui.InfoMsg("Installing %d package(s)", len(args))
	for _, pkg := range args {
		ui.MutedMsg("  - %s", pkg)
	}

	if !cfg.General.AutoConfirm {
		confirmed, err := ui.Confirm("Proceed with installation?", true)
		if err != nil {
			return err
		}
		if !confirmed {
			return ErrAborted
		}
	}

	var lastErr error
	for _, pkg := range args {
		if err := installPackage(ctx, pkg); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// installPackage installs a single package with progress feedback and
// records the outcome in history.
func installPackage(ctx context.Context, name string) error {
	entry := history.NewEntry(history.OpInstall, []string{name})

	sp := ui.NewSpinner(fmt.Sprintf("Installing %s", name))
	sp.Start()

	err := client.Install(ctx, name, sp.Progress())

	if err != nil {
		sp.Stop()
		entry.MarkFailed(errorCode(err), err)
		recordHistory(entry)
		return reportError(err)
	}

	sp.Success(fmt.Sprintf("Installed %s", name))
	entry.MarkSuccess()
	recordHistory(entry)

	// Installed state changed; category counts are stale.
	groupCache.Invalidate()

	return nil
}

// errorCode extracts the service error code for history, if any.
func errorCode(err error) string {
	if txErr, ok := packagekit.AsTransactionError(err); ok {
		return string(txErr.Code)
	}
	return ""
}

// recordHistory persists an entry, ignoring storage failures.
func recordHistory(entry *history.Entry) {
	store, err := history.Open()
	if err != nil {
		return
	}
	_ = store.Record(entry) //nolint:errcheck
	_ = store.Close()       //nolint:errcheck
}
