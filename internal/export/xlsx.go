// =============================================================================
// AssetDesk - Spreadsheet Export
// =============================================================================
//
// Serializes the merged table to a single-sheet XLSX workbook: header row
// first, one data row per table row, columns in table order. No styling,
// no extra sheets. Numeric cells are written as numbers so the workbook
// behaves like a spreadsheet, not a grid of strings.
//
// =============================================================================

package export

import (
	"fmt"

	"assetdesk/internal/table"

	"github.com/xuri/excelize/v2"
)

// XLSXFileName is the fixed download name for the merged workbook.
const XLSXFileName = "merged_assets.xlsx"

// XLSXContentType is the MIME type of the workbook download.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// XLSX serializes the table to workbook bytes.
func XLSX(t *table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for c, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, fmt.Errorf("failed to write header %q: %w", col, err)
		}
	}

	for r, row := range t.Rows {
		for c, col := range t.Columns {
			value := row[col]
			if value.Kind == table.CellMissing {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}

			if num, ok := value.Float(); ok {
				err = f.SetCellValue(sheet, cell, num)
			} else {
				err = f.SetCellValue(sheet, cell, value.String())
			}
			if err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", r+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
