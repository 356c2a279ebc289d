// =============================================================================
// AssetDesk - File Manager Utility
// =============================================================================
//
// File management for the headless merge command: output directory handling
// and export writing. Exports carry fixed, well-known names
// (merged_assets.xlsx, repair_list.pdf); repeated runs can either overwrite
// them in place or land in a per-run subdirectory.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles output file operations.
type FileManager struct {
	// OutputDir is the directory exports are written to.
	OutputDir string

	// UseRunSubdir places each run's exports in its own subdirectory named
	// after the run stamp, instead of overwriting previous exports.
	UseRunSubdir bool

	// runStamp identifies this run; set lazily on first use.
	runStamp string
}

// NewFileManager creates a FileManager writing to outputDir.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{OutputDir: outputDir}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.exportDir(), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.exportDir(), err)
	}
	return nil
}

// exportDir returns the directory the current run writes to.
func (fm *FileManager) exportDir() string {
	if !fm.UseRunSubdir {
		return fm.OutputDir
	}
	if fm.runStamp == "" {
		fm.runStamp = fmt.Sprintf("%s_%s",
			time.Now().Format("20060102_150405"),
			uuid.NewString()[:8],
		)
	}
	return filepath.Join(fm.OutputDir, fm.runStamp)
}

// =============================================================================
// EXPORT WRITING
// =============================================================================

// WriteExport writes one export file and returns its path.
func (fm *FileManager) WriteExport(fileName string, data []byte) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	path := filepath.Join(fm.exportDir(), fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
