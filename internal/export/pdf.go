// =============================================================================
// AssetDesk - Repair List PDF Export
// =============================================================================
//
// Builds the "needs repair" PDF: the merged table filtered to rows whose
// status equals the needs-repair label, one paragraph per asset, each line
// listing every column as "column: value". Status labels and asset fields
// are routinely non-Latin text, so the document requires an externally
// supplied Unicode-capable TTF font; without one the export fails cleanly
// instead of producing garbled output.
//
// =============================================================================

package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"assetdesk/internal/table"

	"github.com/go-pdf/fpdf"
)

// PDFFileName is the fixed download name for the repair list.
const PDFFileName = "repair_list.pdf"

// PDFContentType is the MIME type of the PDF download.
const PDFContentType = "application/pdf"

// pdfTitle is the fixed title line of the repair list.
const pdfTitle = "수리 대상자 목록"

// ErrFontUnavailable reports that the PDF cannot be produced because the
// Unicode font resource could not be obtained.
var ErrFontUnavailable = errors.New("cannot produce PDF: font resource unavailable")

// RepairPDF builds the repair-list document.
//
// PARAMETERS:
//   - t: The merged table.
//   - statusCol: The column holding the status labels.
//   - needsRepair: The label marking rows to include.
//   - font: The raw TTF bytes of a Unicode-capable font.
//
// RETURNS:
//   - The PDF bytes.
//   - ErrFontUnavailable when no font bytes were supplied.
func RepairPDF(t *table.Table, statusCol, needsRepair string, font []byte) ([]byte, error) {
	if len(font) == 0 {
		return nil, ErrFontUnavailable
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddUTF8FontFromBytes("unicode", "", font)
	doc.SetFont("unicode", "", 12)
	doc.AddPage()

	doc.CellFormat(0, 10, pdfTitle, "", 1, "L", false, 0, "")

	for _, row := range t.Rows {
		if row[statusCol].String() != needsRepair {
			continue
		}

		parts := make([]string, 0, len(t.Columns))
		for _, col := range t.Columns {
			parts = append(parts, fmt.Sprintf("%s: %s", col, row[col].String()))
		}
		doc.MultiCell(0, 8, strings.Join(parts, ", "), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to build PDF: %w", err)
	}
	return buf.Bytes(), nil
}
