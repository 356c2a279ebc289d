// =============================================================================
// AssetDesk - Configuration Module
// =============================================================================
//
// This module loads and manages the application configuration. A single
// config.yaml covers the HTTP server, export output, the PDF font resource,
// and the column-detection heuristics.
//
// The detection keyword lists and the status literals live here deliberately:
// which column counts as "the serial column" or which label means "needs
// repair" is a deployment decision, not something to hard-code in the
// matching logic.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
// This is loaded from config.yaml.
type Config struct {
	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	// ListenAddr is the address the HTTP server binds to.
	// Default: ":8080"
	ListenAddr string `yaml:"listen_addr"`

	// MaxUploadBytes caps the total size of one multipart upload request.
	// Default: 64 MiB
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// PreviewRows is the number of merged rows echoed back in the upload
	// response for preview purposes.
	// Default: 100
	PreviewRows int `yaml:"preview_rows"`

	// MaxBatches is the number of upload batches kept in memory. Older
	// batches are evicted when the limit is exceeded.
	// Default: 16
	MaxBatches int `yaml:"max_batches"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is the directory where the merge command writes its exports.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// =========================================================================
	// FONT RESOURCE SETTINGS
	// =========================================================================

	// FontURL is the URL of a Unicode-capable TTF font used for PDF export.
	// The font is fetched once and cached at FontCachePath. Without it the
	// PDF export fails cleanly; everything else keeps working.
	FontURL string `yaml:"font_url"`

	// FontCachePath is the local path the fetched font is persisted to.
	// Default: "fonts/DejaVuSans.ttf"
	FontCachePath string `yaml:"font_cache_path"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log output format: "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// COLUMN DETECTION SETTINGS
	// =========================================================================

	// Detection holds the keyword lists used to locate well-known columns.
	Detection DetectionConfig `yaml:"detection"`

	// =========================================================================
	// STATUS SETTINGS
	// =========================================================================

	// Status holds the recognized status labels and the preferred status
	// column name.
	Status StatusConfig `yaml:"status"`
}

// =============================================================================
// DETECTION CONFIGURATION STRUCTURE
// =============================================================================

// DetectionConfig holds the keyword lists for heuristic column detection.
// Matching is case-insensitive substring matching; the first column (in table
// order) containing any keyword wins.
type DetectionConfig struct {
	// SerialKeywords identify the serial-number column the serial rule
	// rewrites. Includes the Korean token used by the branch exports.
	SerialKeywords []string `yaml:"serial_keywords"`

	// DepartmentKeywords identify the department column for the bar chart.
	DepartmentKeywords []string `yaml:"department_keywords"`

	// TypeKeywords identify the device type/model column for the pie chart.
	TypeKeywords []string `yaml:"type_keywords"`
}

// =============================================================================
// STATUS CONFIGURATION STRUCTURE
// =============================================================================

// StatusConfig holds the status labels recognized by the summarizer and the
// repair-list filter. Matching is exact string equality.
type StatusConfig struct {
	// PreferredColumn is the column name used as the status column when it
	// exists, without asking the user to pick one.
	// Default: "Status"
	PreferredColumn string `yaml:"preferred_column"`

	// NeedsRepair is the label marking an asset that needs repair.
	// Default: "수리 필요"
	NeedsRepair string `yaml:"needs_repair"`

	// Disposal is the label marking an asset scheduled for disposal.
	// Default: "폐기 예정"
	Disposal string `yaml:"disposal"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file exists but cannot be read or parsed.
//
// A missing file is not an error: the defaults describe a working setup, so
// the tool runs without any configuration at all.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 64 << 20
	}
	if cfg.PreviewRows == 0 {
		cfg.PreviewRows = 100
	}
	if cfg.MaxBatches == 0 {
		cfg.MaxBatches = 16
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.FontURL == "" {
		cfg.FontURL = "https://github.com/dejavu-fonts/dejavu-fonts/raw/master/ttf/DejaVuSans.ttf"
	}
	if cfg.FontCachePath == "" {
		cfg.FontCachePath = filepath.Join("fonts", "DejaVuSans.ttf")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	if len(cfg.Detection.SerialKeywords) == 0 {
		cfg.Detection.SerialKeywords = []string{"serial", "시리얼"}
	}
	if len(cfg.Detection.DepartmentKeywords) == 0 {
		cfg.Detection.DepartmentKeywords = []string{"dept", "department", "부서"}
	}
	if len(cfg.Detection.TypeKeywords) == 0 {
		cfg.Detection.TypeKeywords = []string{"model", "type", "종류", "모델"}
	}

	if cfg.Status.PreferredColumn == "" {
		cfg.Status.PreferredColumn = "Status"
	}
	if cfg.Status.NeedsRepair == "" {
		cfg.Status.NeedsRepair = "수리 필요"
	}
	if cfg.Status.Disposal == "" {
		cfg.Status.Disposal = "폐기 예정"
	}
}

// validate checks the configuration for values that cannot work.
func validate(cfg *Config) error {
	if cfg.MaxUploadBytes < 0 {
		return fmt.Errorf("max_upload_bytes must not be negative")
	}
	if cfg.PreviewRows < 0 {
		return fmt.Errorf("preview_rows must not be negative")
	}
	if cfg.MaxBatches < 1 {
		return fmt.Errorf("max_batches must be at least 1")
	}
	if cfg.Status.NeedsRepair == cfg.Status.Disposal {
		return fmt.Errorf("status labels needs_repair and disposal must differ")
	}
	return nil
}
