// =============================================================================
// AssetDesk - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which starts the HTTP server: the
// interactive upload/summary/chart/export surface.
//
// COMMAND USAGE:
//   assetdesk serve [flags]
//
// =============================================================================

package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"assetdesk/internal/fontcache"
	"assetdesk/internal/server"

	"github.com/spf13/cobra"
)

// listenAddr overrides the configured listen address when set.
var listenAddr string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP upload and report server",
	Long: `The serve command starts the HTTP server. Users upload a batch of asset
files (XLSX or CSV), get back the merged summary, and pull charts and the
two downloads (merged workbook, repair-list PDF) for that batch.

The PDF font resource is fetched once in the background at startup; if the
fetch fails, only the PDF export is affected and it is retried on demand.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// init registers the serve command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(
		&listenAddr,
		"listen",
		"",
		"Listen address (overrides the configured listen_addr)",
	)
}

// runServe loads configuration and runs the server until interrupted.
func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	fonts := fontcache.New(cfg.FontURL, cfg.FontCachePath)
	go fonts.Warm()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, fonts).ListenAndServe(ctx)
}
