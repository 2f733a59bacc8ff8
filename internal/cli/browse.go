package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hatlabs/cockpit-package-manager/internal/ui"
	"github.com/hatlabs/cockpit-package-manager/pkg/packagekit"
)

var browseCmd = &cobra.Command{
	Use:   "browse [category]",
	Short: "Browse packages by category",
	Long: `Browse the repositories by package category.

Without arguments, lists every category with its package and installed
counts. With a category name, lists the packages in that category.

Category listings are cached briefly; install and remove operations
invalidate the cache.

Examples:
  pkmgr browse                  # List categories
  pkmgr browse editors          # List packages in a category`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if len(args) == 0 {
		return browseCategories(ctx)
	}
	return browseCategory(ctx, args[0])
}

// browseCategories lists every known category with package counts.
func browseCategories(ctx context.Context) error {
	sp := ui.NewSpinner("Loading categories")
	sp.Start()

	infos := make([]packagekit.GroupInfo, 0, len(packagekit.Groups()))
	for _, g := range packagekit.Groups() {
		pkgs, err := groupPackages(ctx, g)
		if err != nil {
			sp.Stop()
			return reportError(err)
		}
		info := packagekit.ComputeGroupInfo(g, pkgs)
		if info.PackageCount > 0 {
			infos = append(infos, info)
		}
	}
	sp.Stop()

	ui.PrintGroups(infos)

	if cfg.General.AutoConfirm || len(infos) == 0 {
		return nil
	}

	tokens := make([]string, len(infos))
	for i, info := range infos {
		tokens[i] = info.ID
	}
	token, err := ui.SelectCategory(tokens, "Browse a category")
	if err != nil || token == "" {
		return nil
	}
	return browseCategory(ctx, token)
}

// browseCategory lists the packages in one category.
func browseCategory(ctx context.Context, token string) error {
	g := packagekit.GroupFromToken(token)
	if g == packagekit.GroupUnknown {
		ui.ErrorMsg("Unknown category: %s", token)
		ui.MutedMsg("Run 'pkmgr browse' to list categories")
		return nil
	}

	sp := ui.NewSpinner("Loading packages")
	sp.Start()
	pkgs, err := groupPackages(ctx, g)
	sp.Stop()
	if err != nil {
		return reportError(err)
	}

	ui.HeaderMsg("%s (%d packages)", g.DisplayName(), len(pkgs))
	ui.PrintPackages(pkgs)

	return offerInstall(ctx, pkgs)
}

// groupPackages returns the packages in a category, consulting the browse
// cache first.
func groupPackages(ctx context.Context, g packagekit.Group) ([]packagekit.Package, error) {
	if pkgs, ok := groupCache.Get(g); ok {
		return pkgs, nil
	}

	pkgs, err := client.SearchGroups(ctx, []packagekit.Group{g}, nil)
	if err != nil {
		return nil, err
	}

	groupCache.Put(g, pkgs)
	return pkgs, nil
}
