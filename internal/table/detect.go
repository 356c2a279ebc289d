// =============================================================================
// AssetDesk - Column Detection
// =============================================================================
//
// Best-effort heuristic detection of well-known columns (serial number,
// department, device type) by keyword matching on column names. Kept as a
// pure function over the column list so the behavior stays auditable and
// testable independent of any table contents.
//
// =============================================================================

package table

import "strings"

// DetectColumn returns the first column (in column order) whose name
// contains any of the keywords, case-insensitively.
//
// PARAMETERS:
//   - columns: The column names, in table order.
//   - keywords: The keyword list from configuration.
//   - fallbackFirst: When true and nothing matches, the first column is
//     returned instead of reporting no match. This mirrors the historical
//     chart-column behavior: with no department-like column the first
//     column is charted, meaningful or not.
//
// RETURNS:
//   - The selected column name.
//   - Whether a column was selected at all.
func DetectColumn(columns []string, keywords []string, fallbackFirst bool) (string, bool) {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, kw := range keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(kw)) {
				return col, true
			}
		}
	}

	if fallbackFirst && len(columns) > 0 {
		return columns[0], true
	}
	return "", false
}
