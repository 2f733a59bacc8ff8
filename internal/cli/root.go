// Package cli implements the command-line interface for pkmgr.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hatlabs/cockpit-package-manager/internal/cache"
	"github.com/hatlabs/cockpit-package-manager/internal/config"
	"github.com/hatlabs/cockpit-package-manager/internal/ui"
	"github.com/hatlabs/cockpit-package-manager/pkg/packagekit"
)

var (
	// Global flags
	cfgFile string
	yes     bool
	verbose bool
	noColor bool

	// Global state
	cfg        *config.Config
	conns      *packagekit.ConnectionManager
	client     *packagekit.Client
	groupCache *cache.GroupCache
)

// Build metadata - set at build time via ldflags
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pkmgr",
	Short: "Manage system packages through the PackageKit service",
	Long: `Pkmgr searches, installs and removes system packages by talking to
the PackageKit daemon over the system bus. It works across any
distribution PackageKit supports and never shells out to apt, dnf
or their kin directly.

Examples:
  pkmgr search nginx            # Search available packages
  pkmgr install vim             # Install a package
  pkmgr browse                  # Browse packages by category
  pkmgr info curl               # Show package details`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "assume yes to all prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(dependsCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initializeApp sets up the application state.
func initializeApp() error {
	// Load configuration
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// Apply global flag overrides
	if yes {
		cfg.General.AutoConfirm = true
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.Color = false
	}

	if cfg.Output.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	// Initialize UI
	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode)

	// Wire up the service client
	conns = packagekit.NewConnectionManager(packagekit.SystemBus)
	client = packagekit.NewClient(conns)
	client.SetWaitGrace(cfg.WaitGrace())
	client.SetCacheMount(cfg.Service.CacheMount)

	groupCache = cache.New(cfg.BrowseCacheTTL())

	return nil
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print pkmgr version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("pkmgr version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
