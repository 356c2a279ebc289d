// =============================================================================
// AssetDesk - Table Model
// =============================================================================
//
// This module defines the in-memory table that flows through the whole
// pipeline: the loader produces one per file, the merger concatenates them,
// the serial rule rewrites one column, and the summarizer, chart builder,
// and exporters all consume the merged result.
//
// CELL TYPING:
//   Uploaded files carry no type information, so every cell keeps its raw
//   textual form and a kind inferred from it (text, number, or missing).
//   The kind drives the "which columns are text-typed" question asked when
//   picking a status column; the raw form is what every transform and
//   export works with, so values like "001" survive round trips intact.
//
// =============================================================================

package table

import (
	"strconv"
	"strings"
)

// MissingKey is the aggregation group key used for missing cells.
const MissingKey = "(missing)"

// =============================================================================
// CELL
// =============================================================================

// CellKind classifies a cell value.
type CellKind int

const (
	// CellMissing marks a cell with no value (absent column or empty field).
	CellMissing CellKind = iota

	// CellText marks a cell holding free text.
	CellText

	// CellNumber marks a cell whose raw form parses as a number.
	CellNumber
)

// Cell is a single tagged value. Raw is the original textual form; it is
// kept verbatim even for numeric cells.
type Cell struct {
	Kind CellKind
	Raw  string
}

// Classify builds a Cell from a raw field value, inferring its kind.
// Empty (after trimming) means missing; anything that parses as a float
// is numeric; everything else is text.
func Classify(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cell{Kind: CellMissing}
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Cell{Kind: CellNumber, Raw: trimmed}
	}
	return Cell{Kind: CellText, Raw: trimmed}
}

// Text builds a text cell. Used when a transform overwrites a value.
func Text(raw string) Cell {
	return Cell{Kind: CellText, Raw: raw}
}

// Missing builds a missing cell.
func Missing() Cell {
	return Cell{Kind: CellMissing}
}

// String returns the textual form of the cell. Missing cells render as the
// empty string.
func (c Cell) String() string {
	if c.Kind == CellMissing {
		return ""
	}
	return c.Raw
}

// Float returns the numeric value of a numeric cell.
func (c Cell) Float() (float64, bool) {
	if c.Kind != CellNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(c.Raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// GroupKey returns the aggregation key for the cell: the textual form for
// present values, MissingKey for missing ones.
func (c Cell) GroupKey() string {
	if c.Kind == CellMissing {
		return MissingKey
	}
	return c.Raw
}

// =============================================================================
// TABLE
// =============================================================================

// Row maps column name to cell. Every row of a Table has an entry for every
// column of that Table.
type Row map[string]Cell

// Table is an ordered sequence of rows sharing one column set.
type Table struct {
	// Columns is the column order. Exports and row formatting follow it.
	Columns []string

	// Rows holds the data rows in their original order.
	Rows []Row
}

// New creates an empty table with the given column order.
func New(columns []string) *Table {
	return &Table{Columns: columns}
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// HasColumn reports whether the table has a column with exactly this name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AppendRow adds a row, filling in missing cells for absent columns.
// Values for unknown columns are dropped.
func (t *Table) AppendRow(row Row) {
	normalized := make(Row, len(t.Columns))
	for _, col := range t.Columns {
		cell, ok := row[col]
		if !ok {
			cell = Missing()
		}
		normalized[col] = cell
	}
	t.Rows = append(t.Rows, normalized)
}

// Concat concatenates tables into one, preserving table order and, within
// each table, row order. The result's column set is the union of the input
// column sets in first-seen order; rows from tables lacking a column get
// missing cells for it.
func Concat(tables []*Table) *Table {
	var columns []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, col := range t.Columns {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}

	merged := New(columns)
	for _, t := range tables {
		for _, row := range t.Rows {
			merged.AppendRow(row)
		}
	}
	return merged
}

// TextColumns returns, in column order, the columns holding free text: those
// with at least one text-typed cell. A column of numbers (or of nothing at
// all) is not a candidate for holding status labels.
func (t *Table) TextColumns() []string {
	var cols []string
	for _, col := range t.Columns {
		for _, row := range t.Rows {
			if row[col].Kind == CellText {
				cols = append(cols, col)
				break
			}
		}
	}
	return cols
}
