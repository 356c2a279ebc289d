// =============================================================================
// AssetDesk - Main Entry Point
// =============================================================================
//
// AssetDesk consolidates IT asset inventories exported by individual branches
// (XLSX or CSV) into a single table, applies an optional serial-number rule,
// summarizes asset status, and produces downloadable reports (a merged
// workbook and a repair-list PDF).
//
// USAGE:
//   assetdesk serve            - Start the HTTP upload/report server
//   assetdesk merge <files>    - Merge files headlessly and write the exports
//   assetdesk version          - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"assetdesk/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
