// =============================================================================
// AssetDesk - Merge Command
// =============================================================================
//
// This file defines the 'merge' command, the headless counterpart of the
// upload flow: merge the given files, apply the serial rule, print the
// status summary, and write the exports to the output directory.
//
// COMMAND USAGE:
//   assetdesk merge [flags] <file>...
//
// FLAGS:
//   --rule           : Serial rule string (prefix=... or suffix=...)
//   --status-column  : Status column (default: auto-detect "Status")
//   --out            : Output directory (overrides the configured output_dir)
//   --charts         : Also write the two chart PNGs
//
// PROCESSING PIPELINE:
//   1. Read and decode every input file (abort on the first failure)
//   2. Concatenate into one table
//   3. Apply the serial rule, if any
//   4. Summarize status counts and print them
//   5. Write merged_assets.xlsx, repair_list.pdf, and optionally the charts
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"time"

	"assetdesk/internal/chart"
	"assetdesk/internal/config"
	"assetdesk/internal/export"
	"assetdesk/internal/fontcache"
	"assetdesk/internal/loader"
	"assetdesk/internal/serialrule"
	"assetdesk/internal/summary"
	"assetdesk/internal/table"
	"assetdesk/pkg/utils"

	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// mergeRule is the serial rule string.
var mergeRule string

// mergeStatusColumn is the explicit status column selection.
var mergeStatusColumn string

// mergeOutDir overrides the configured output directory when set.
var mergeOutDir string

// mergeCharts enables writing the two chart PNGs.
var mergeCharts bool

// =============================================================================
// MERGE COMMAND DEFINITION
// =============================================================================

// mergeCmd represents the 'merge' command.
var mergeCmd = &cobra.Command{
	Use:   "merge <file>...",
	Short: "Merge asset files and write the exports",
	Long: `The merge command decodes the given XLSX/CSV files, concatenates them into
one table, applies the optional serial rule, prints the status summary, and
writes the merged workbook and the repair-list PDF to the output directory.

One undecodable file aborts the whole merge; nothing is written.

Example Usage:
  assetdesk merge hq.xlsx branch2.csv
  assetdesk merge --rule prefix=HQ- --out ./reports *.csv`,

	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMerge(args)
	},
}

// init registers the merge command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(
		&mergeRule,
		"rule",
		"",
		"Serial rule string (prefix=... or suffix=...)",
	)

	mergeCmd.Flags().StringVar(
		&mergeStatusColumn,
		"status-column",
		"",
		"Status column name (default: auto-detect)",
	)

	mergeCmd.Flags().StringVar(
		&mergeOutDir,
		"out",
		"",
		"Output directory (overrides the configured output_dir)",
	)

	mergeCmd.Flags().BoolVar(
		&mergeCharts,
		"charts",
		false,
		"Also write the department and type chart PNGs",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runMerge executes the headless pipeline.
func runMerge(paths []string) error {
	startTime := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if mergeOutDir != "" {
		cfg.OutputDir = mergeOutDir
	}

	// =========================================================================
	// STEP 1: READ AND MERGE INPUT FILES
	// =========================================================================

	fmt.Println("=== AssetDesk Merge ===")
	fmt.Printf("Reading %d file(s)...\n", len(paths))

	uploads := make([]loader.Upload, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		uploads = append(uploads, loader.Upload{Name: path, Data: data})
	}

	merged, stats, err := loader.MergeBatch(uploads)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: APPLY SERIAL RULE
	// =========================================================================

	rule := serialrule.Parse(mergeRule)
	if mergeRule != "" && rule.IsNone() {
		fmt.Printf("Ignoring unrecognized rule %q\n", mergeRule)
	}
	if col, applied := serialrule.Apply(merged, rule, cfg.Detection.SerialKeywords); applied {
		fmt.Printf("Applied serial rule to column %q\n", col)
	}

	// =========================================================================
	// STEP 3: SUMMARIZE STATUS
	// =========================================================================

	statusCol := mergeStatusColumn
	if statusCol == "" && merged.HasColumn(cfg.Status.PreferredColumn) {
		statusCol = cfg.Status.PreferredColumn
	}
	if statusCol != "" && !merged.HasColumn(statusCol) {
		return fmt.Errorf("status column %q not found in merged table", statusCol)
	}

	fmt.Println("\n=== Merge Complete ===")
	fmt.Printf("Files merged:    %d\n", stats.Files)
	fmt.Printf("Total rows:      %d\n", stats.Rows)
	fmt.Printf("Columns:         %d\n", stats.Columns)

	if statusCol != "" {
		m := summary.Summarize(merged, statusCol, cfg.Status.NeedsRepair, cfg.Status.Disposal)
		fmt.Printf("Needs repair:    %d\n", m.NeedsRepair)
		fmt.Printf("For disposal:    %d\n", m.Disposal)
	} else {
		fmt.Println("Status column:   not found (skipping summary and PDF)")
	}

	// =========================================================================
	// STEP 4: WRITE EXPORTS
	// =========================================================================

	fm := utils.NewFileManager(cfg.OutputDir)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	xlsxData, err := export.XLSX(merged)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	xlsxPath, err := fm.WriteExport(export.XLSXFileName, xlsxData)
	if err != nil {
		return err
	}
	fmt.Printf("  ✓ %s\n", xlsxPath)

	if statusCol != "" {
		if err := writeRepairPDF(cfg.FontURL, cfg.FontCachePath, fm, merged, statusCol, cfg.Status.NeedsRepair); err != nil {
			// The PDF must not take the workbook export down with it.
			fmt.Printf("  ✗ %s: %v\n", export.PDFFileName, err)
		}
	}

	if mergeCharts {
		writeCharts(cfg, fm, merged)
	}

	fmt.Printf("Time elapsed:    %s\n", time.Since(startTime))
	return nil
}

// writeRepairPDF fetches the font and writes the repair-list PDF.
func writeRepairPDF(fontURL, fontPath string, fm *utils.FileManager, merged *table.Table, statusCol, needsRepair string) error {
	font, err := fontcache.New(fontURL, fontPath).Font()
	if err != nil {
		return export.ErrFontUnavailable
	}

	data, err := export.RepairPDF(merged, statusCol, needsRepair, font)
	if err != nil {
		return err
	}

	path, err := fm.WriteExport(export.PDFFileName, data)
	if err != nil {
		return err
	}
	fmt.Printf("  ✓ %s\n", path)
	return nil
}

// writeCharts renders and writes the two chart PNGs. Chart failures are
// reported per file and do not abort the merge.
func writeCharts(cfg *config.Config, fm *utils.FileManager, merged *table.Table) {
	deptCol, _ := table.DetectColumn(merged.Columns, cfg.Detection.DepartmentKeywords, true)
	typeCol, _ := table.DetectColumn(merged.Columns, cfg.Detection.TypeKeywords, true)

	charts := []struct {
		file   string
		column string
		render func([]summary.GroupCount) ([]byte, error)
	}{
		{"departments.png", deptCol, func(g []summary.GroupCount) ([]byte, error) {
			return chart.BarPNG("Devices per department", g)
		}},
		{"types.png", typeCol, func(g []summary.GroupCount) ([]byte, error) {
			return chart.PiePNG("Device type share", g)
		}},
	}

	for _, c := range charts {
		png, err := c.render(summary.Aggregate(merged, c.column))
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", c.file, err)
			continue
		}
		path, err := fm.WriteExport(c.file, png)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", c.file, err)
			continue
		}
		fmt.Printf("  ✓ %s\n", path)
	}
}
