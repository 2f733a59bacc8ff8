package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hatlabs/cockpit-package-manager/internal/ui"
	"github.com/hatlabs/cockpit-package-manager/pkg/packagekit"
)

var searchDetails bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for packages",
	Long: `Search the package repositories by name.

By default only package names are matched. With --details the search
also covers summaries and descriptions, which is slower but finds
packages whose name does not contain the query.

Examples:
  pkmgr search nginx            # Match package names
  pkmgr search --details http   # Also match descriptions`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchDetails, "details", false, "also search summaries and descriptions")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := args[0]

	ui.InfoMsg("Searching for '%s'...", query)

	sp := ui.NewSpinner("Searching")
	sp.Start()

	var results []packagekit.Package
	var err error
	if searchDetails {
		results, err = client.SearchDetails(ctx, query, sp.Progress())
	} else {
		results, err = client.SearchNames(ctx, query, sp.Progress())
	}
	sp.Stop()
	if err != nil {
		return reportError(err)
	}

	if len(results) == 0 {
		ui.InfoMsg("No packages found matching '%s'", query)
		return nil
	}

	ui.PrintSearchResults(results)

	return offerInstall(ctx, results)
}

// offerInstall offers to install a selected package from search results.
func offerInstall(ctx context.Context, results []packagekit.Package) error {
	if cfg.General.AutoConfirm {
		return nil
	}

	candidates := make([]packagekit.Package, 0, len(results))
	for _, pkg := range results {
		if !pkg.Installed {
			candidates = append(candidates, pkg)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	pkg, err := ui.SelectPackage(candidates, "Select a package to install")
	if err != nil || pkg == nil {
		return nil
	}

	prompt := fmt.Sprintf("Install %s %s?", pkg.ID.Name, pkg.ID.Version)
	confirmed, _ := ui.Confirm(prompt, true) //nolint:errcheck
	if confirmed {
		return installPackage(ctx, pkg.ID.Name)
	}

	return nil
}
