// =============================================================================
// AssetDesk - Status Summarizer
// =============================================================================
//
// This module computes the three headline metrics displayed for a merged
// batch: total asset count, assets needing repair, and assets scheduled for
// disposal. Status matching is exact string equality against the configured
// labels; anything else ("정상" or otherwise) only counts toward the total.
//
// =============================================================================

package summary

import "assetdesk/internal/table"

// Metrics holds the headline counters for one merged table.
type Metrics struct {
	// Total is the number of rows in the table.
	Total int `json:"total"`

	// NeedsRepair is the number of rows whose status equals the
	// needs-repair label.
	NeedsRepair int `json:"needs_repair"`

	// Disposal is the number of rows whose status equals the
	// scheduled-for-disposal label.
	Disposal int `json:"disposal"`
}

// Summarize counts rows by status.
//
// PARAMETERS:
//   - t: The merged table.
//   - statusCol: The column holding the status labels.
//   - needsRepair, disposal: The two recognized labels, from configuration.
//
// The caller is responsible for picking a valid status column; an unknown
// column simply yields zero matches against a correct total.
func Summarize(t *table.Table, statusCol, needsRepair, disposal string) Metrics {
	m := Metrics{Total: t.RowCount()}

	for _, row := range t.Rows {
		switch row[statusCol].String() {
		case needsRepair:
			m.NeedsRepair++
		case disposal:
			m.Disposal++
		}
	}

	return m
}
