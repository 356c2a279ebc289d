// =============================================================================
// AssetDesk - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'serve', 'merge') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (assetdesk)
//   ├── serveCmd (assetdesk serve)
//   ├── mergeCmd (assetdesk merge)
//   └── versionCmd (assetdesk version)
//
// The root command owns the global flags (--config, --verbose) and the
// logging initialization that every subcommand relies on.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"assetdesk/internal/config"
	"assetdesk/internal/logging"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "assetdesk",

	Short: "AssetDesk - Consolidate branch IT asset inventories into one report",

	Long: `AssetDesk merges IT asset inventory files exported by individual branches
(XLSX or CSV) into a single table and turns it into reports.

Key Features:
  - Decodes XLSX workbooks with an automatic CSV fallback per file
  - Applies a simple serial-number rule (prefix=... or suffix=...)
  - Summarizes asset status (total / needs repair / scheduled for disposal)
  - Renders per-department and per-type charts
  - Exports the merged table as XLSX and the repair list as PDF

Example Usage:
  assetdesk serve                       # Start the upload/report server
  assetdesk merge hq.xlsx branch2.csv   # Merge files and write the exports
  assetdesk merge --rule prefix=HQ- *.csv`,

	// If no subcommand is provided, print the help message.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags shared by all subcommands.
func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	// --verbose flag: Enables verbose/debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig loads the main configuration and initializes logging.
// Shared by the serve and merge commands.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logging.Setup(level, cfg.LogFormat)

	return cfg, nil
}
