// =============================================================================
// AssetDesk - Tabular Loader
// =============================================================================
//
// This module decodes one uploaded byte buffer into a table. Branch exports
// arrive either as XLSX workbooks or as CSV, frequently with the wrong file
// extension, so decoding is format-sniffing rather than extension-driven:
// the workbook decoder is tried first and the delimited-text decoder is the
// fallback. Decoding is all-or-nothing per file: there is no partial result.
//
// CSV HANDLING:
//   - Lazy quotes and variable field counts are tolerated
//   - Leading whitespace is trimmed
//   - A UTF-8 BOM on the first header is stripped
//   - Empty rows are skipped
//   - Empty or duplicate headers get positional placeholder names
//
// =============================================================================

package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"assetdesk/internal/table"

	"github.com/xuri/excelize/v2"
)

// Decode decodes a raw upload into a table, trying XLSX first and falling
// back to CSV.
//
// PARAMETERS:
//   - name: The declared file name, used only to tag errors.
//   - data: The raw file contents.
//
// RETURNS:
//   - The decoded table.
//   - An error naming the file if neither decoder accepts the buffer.
func Decode(name string, data []byte) (*table.Table, error) {
	t, xlsxErr := decodeXLSX(data)
	if xlsxErr == nil {
		return t, nil
	}

	t, csvErr := decodeCSV(data)
	if csvErr == nil {
		return t, nil
	}

	return nil, fmt.Errorf("%s: not a readable workbook (%v) or delimited text (%v)", name, xlsxErr, csvErr)
}

// decodeXLSX decodes the first sheet of an XLSX workbook.
func decodeXLSX(data []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return buildTable(rows)
}

// decodeCSV decodes delimited text.
func decodeCSV(data []byte) (*table.Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))

	// Tolerate the CSV dialects branches actually produce.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return buildTable(rows)
}

// buildTable converts raw rows (header row first) into a table.
func buildTable(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	headers := cleanHeaders(rows[0])
	if len(headers) == 0 {
		return nil, fmt.Errorf("file has no columns")
	}

	t := table.New(headers)

	for _, raw := range rows[1:] {
		if isRowEmpty(raw) {
			continue
		}

		row := make(table.Row, len(headers))
		for i, header := range headers {
			if i < len(raw) {
				row[header] = table.Classify(raw[i])
			} else {
				// Column is missing in this row.
				row[header] = table.Missing()
			}
		}
		t.AppendRow(row)
	}

	return t, nil
}

// cleanHeaders trims and normalizes header values. Empty headers get a
// positional placeholder; duplicates get a numbered suffix so that row maps
// do not silently collapse columns.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, 0, len(headers))
	seen := make(map[string]int)

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}

		if n := seen[header]; n > 0 {
			seen[header] = n + 1
			header = fmt.Sprintf("%s_%d", header, n+1)
		}
		seen[header]++

		cleaned = append(cleaned, header)
	}

	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
