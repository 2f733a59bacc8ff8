package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hatlabs/cockpit-package-manager/internal/ui"
	"github.com/hatlabs/cockpit-package-manager/pkg/packagekit"
)

var dependsReverse bool

var dependsCmd = &cobra.Command{
	Use:   "depends [package]",
	Short: "List package dependencies",
	Long: `List the direct dependencies of a package, or with --reverse the
packages that depend on it.

Examples:
  pkmgr depends nginx           # What nginx needs
  pkmgr depends --reverse libssl # What needs libssl`,
	Args: cobra.ExactArgs(1),
	RunE: runDepends,
}

func init() {
	dependsCmd.Flags().BoolVarP(&dependsReverse, "reverse", "r", false, "list packages depending on this one")
}

func runDepends(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := args[0]

	var related []string
	err := ui.WithSpinner("Loading dependency information", func() error {
		id, err := client.Resolve(ctx, name)
		if err != nil {
			return err
		}
		if dependsReverse {
			related, err = client.ListReverseDependencies(ctx, id)
		} else {
			related, err = client.ListDependencies(ctx, id)
		}
		return err
	})
	if err != nil {
		return reportError(err)
	}

	if len(related) == 0 {
		if dependsReverse {
			ui.MutedMsg("Nothing depends on %s", name)
		} else {
			ui.MutedMsg("%s has no dependencies", name)
		}
		return nil
	}

	if dependsReverse {
		ui.HeaderMsg("Packages depending on %s (%d)", name, len(related))
	} else {
		ui.HeaderMsg("Dependencies of %s (%d)", name, len(related))
	}

	for _, raw := range related {
		if id, err := packagekit.ParsePackageID(raw); err == nil {
			ui.Println("  %s %s", ui.Bold(id.Name), ui.Green(id.Version))
		} else {
			ui.Println("  %s", raw)
		}
	}

	return nil
}
