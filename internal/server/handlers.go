// =============================================================================
// AssetDesk - HTTP Handlers
// =============================================================================
//
// Request handlers for the batch lifecycle: upload/merge, summary, charts,
// and the two exports. Every failure is terminal for its own request and
// reported inline; nothing here retries on the client's behalf.
//
// =============================================================================

package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"assetdesk/internal/chart"
	"assetdesk/internal/export"
	"assetdesk/internal/loader"
	"assetdesk/internal/serialrule"
	"assetdesk/internal/summary"
	"assetdesk/internal/table"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Chart titles. The grouping column is user-chosen; the titles are not.
const (
	departmentChartTitle = "Devices per department"
	typeChartTitle       = "Device type share"
)

// =============================================================================
// RESPONSE SHAPES
// =============================================================================

// batchResponse is the upload response: everything the client needs to drive
// the summary, chart, and export requests that follow.
type batchResponse struct {
	BatchID  string   `json:"batch_id"`
	Files    int      `json:"files"`
	RowCount int      `json:"row_count"`
	Columns  []string `json:"columns"`

	// SerialColumn is the column the serial rule rewrote, when one was.
	SerialColumn string `json:"serial_column,omitempty"`

	// StatusColumn is the resolved status column; empty when the client
	// must pick one from StatusCandidates first.
	StatusColumn     string   `json:"status_column,omitempty"`
	StatusCandidates []string `json:"status_candidates"`

	// DepartmentColumn and TypeColumn are the auto-detected chart columns.
	// Detection falls back to the first column when nothing matches.
	DepartmentColumn string `json:"department_column"`
	TypeColumn       string `json:"type_column"`

	// Metrics is present once a status column is resolved.
	Metrics *summary.Metrics `json:"metrics,omitempty"`

	Preview []map[string]string `json:"preview"`
}

// =============================================================================
// INDEX
// =============================================================================

// handleIndex serves the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "index page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// =============================================================================
// BATCH CREATION
// =============================================================================

// handleCreateBatch merges one multipart upload (field "files", repeated)
// into a new batch. Optional form fields:
//   - rule: a serial rule string ("prefix=..." / "suffix=...")
//   - status_column: explicit status column selection
func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "upload too large or invalid form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no files provided")
		return
	}

	uploads := make([]loader.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := readUpload(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s", fh.Filename))
			return
		}
		uploads = append(uploads, loader.Upload{Name: fh.Filename, Data: data})
	}

	merged, stats, err := loader.MergeBatch(uploads)
	if err != nil {
		if errors.Is(err, loader.ErrEmptyBatch) {
			writeError(w, http.StatusUnprocessableEntity, "uploaded files contain no usable rows")
			return
		}
		// Decode failure: the error names the offending file.
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rule := serialrule.Parse(r.FormValue("rule"))
	serialCol, _ := serialrule.Apply(merged, rule, s.cfg.Detection.SerialKeywords)

	statusCol, candidates, err := s.resolveStatusColumn(merged, r.FormValue("status_column"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	b := &Batch{
		ID:           newBatchID(),
		CreatedAt:    time.Now(),
		Table:        merged,
		StatusColumn: statusCol,
	}
	s.register(b)

	resp := batchResponse{
		BatchID:          b.ID,
		Files:            stats.Files,
		RowCount:         stats.Rows,
		Columns:          merged.Columns,
		SerialColumn:     serialCol,
		StatusColumn:     statusCol,
		StatusCandidates: candidates,
		Preview:          s.preview(merged),
	}
	resp.DepartmentColumn, _ = table.DetectColumn(merged.Columns, s.cfg.Detection.DepartmentKeywords, true)
	resp.TypeColumn, _ = table.DetectColumn(merged.Columns, s.cfg.Detection.TypeKeywords, true)

	if statusCol != "" {
		m := summary.Summarize(merged, statusCol, s.cfg.Status.NeedsRepair, s.cfg.Status.Disposal)
		resp.Metrics = &m
	}

	logrus.WithFields(logrus.Fields{
		"batch":  b.ID,
		"files":  stats.Files,
		"rows":   stats.Rows,
		"status": statusCol,
	}).Info("batch created")

	writeJSON(w, http.StatusCreated, resp)
}

// resolveStatusColumn picks the status column for a merged table.
//
// POLICY:
//   - An explicit request must name an existing column.
//   - Otherwise the preferred column name (usually "Status") wins when
//     present.
//   - Otherwise the client must pick from the text-typed candidates; no
//     candidates means summarization cannot proceed at all.
func (s *Server) resolveStatusColumn(t *table.Table, requested string) (string, []string, error) {
	candidates := t.TextColumns()

	if requested != "" {
		if !t.HasColumn(requested) {
			return "", nil, fmt.Errorf("status column %q not found in merged table", requested)
		}
		return requested, candidates, nil
	}

	if t.HasColumn(s.cfg.Status.PreferredColumn) {
		return s.cfg.Status.PreferredColumn, candidates, nil
	}

	if len(candidates) == 0 {
		return "", nil, fmt.Errorf("no text-typed column found to hold asset status")
	}

	// Leave the choice to the client.
	return "", candidates, nil
}

// preview renders the first rows of the table as plain strings.
func (s *Server) preview(t *table.Table) []map[string]string {
	n := t.RowCount()
	if n > s.cfg.PreviewRows {
		n = s.cfg.PreviewRows
	}

	rows := make([]map[string]string, 0, n)
	for _, row := range t.Rows[:n] {
		out := make(map[string]string, len(t.Columns))
		for _, col := range t.Columns {
			out[col] = row[col].String()
		}
		rows = append(rows, out)
	}
	return rows
}

// =============================================================================
// SUMMARY
// =============================================================================

// handleSummary recomputes the metrics, optionally for an explicitly chosen
// status column (?status_column=).
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	b, ok := s.batch(chi.URLParam(r, "batchID"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown batch")
		return
	}

	statusCol := r.URL.Query().Get("status_column")
	if statusCol == "" {
		statusCol = b.StatusColumn
	}
	if statusCol == "" {
		writeError(w, http.StatusUnprocessableEntity, "no status column selected")
		return
	}
	if !b.Table.HasColumn(statusCol) {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("status column %q not found in merged table", statusCol))
		return
	}

	m := summary.Summarize(b.Table, statusCol, s.cfg.Status.NeedsRepair, s.cfg.Status.Disposal)
	writeJSON(w, http.StatusOK, m)
}

// =============================================================================
// CHARTS
// =============================================================================

// handleDepartmentChart renders the per-department bar chart.
func (s *Server) handleDepartmentChart(w http.ResponseWriter, r *http.Request) {
	s.renderChart(w, r, s.cfg.Detection.DepartmentKeywords, func(groups []summary.GroupCount) ([]byte, error) {
		return chart.BarPNG(departmentChartTitle, groups)
	})
}

// handleTypeChart renders the device-type pie chart.
func (s *Server) handleTypeChart(w http.ResponseWriter, r *http.Request) {
	s.renderChart(w, r, s.cfg.Detection.TypeKeywords, func(groups []summary.GroupCount) ([]byte, error) {
		return chart.PiePNG(typeChartTitle, groups)
	})
}

// renderChart aggregates the batch over a grouping column (?column= or
// keyword detection with first-column fallback) and renders it.
func (s *Server) renderChart(w http.ResponseWriter, r *http.Request, keywords []string, render func([]summary.GroupCount) ([]byte, error)) {
	b, ok := s.batch(chi.URLParam(r, "batchID"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown batch")
		return
	}

	column := r.URL.Query().Get("column")
	if column == "" {
		column, _ = table.DetectColumn(b.Table.Columns, keywords, true)
	}
	if !b.Table.HasColumn(column) {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("column %q not found in merged table", column))
		return
	}

	png, err := render(summary.Aggregate(b.Table, column))
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// =============================================================================
// EXPORTS
// =============================================================================

// handleExportXLSX serves the merged table as a workbook download.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	b, ok := s.batch(chi.URLParam(r, "batchID"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown batch")
		return
	}

	data, err := export.XLSX(b.Table)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to build workbook: %v", err))
		return
	}

	writeAttachment(w, export.XLSXFileName, export.XLSXContentType, data)
}

// handleExportPDF serves the repair list as a PDF download. Without the font
// resource this fails with 503 rather than producing unreadable output.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	b, ok := s.batch(chi.URLParam(r, "batchID"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown batch")
		return
	}

	statusCol := r.URL.Query().Get("status_column")
	if statusCol == "" {
		statusCol = b.StatusColumn
	}
	if statusCol == "" {
		writeError(w, http.StatusUnprocessableEntity, "no status column selected")
		return
	}
	if !b.Table.HasColumn(statusCol) {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("status column %q not found in merged table", statusCol))
		return
	}

	font, err := s.fonts.Font()
	if err != nil {
		logrus.WithError(err).Warn("PDF export requested but font resource is unavailable")
		writeError(w, http.StatusServiceUnavailable, export.ErrFontUnavailable.Error())
		return
	}

	data, err := export.RepairPDF(b.Table, statusCol, s.cfg.Status.NeedsRepair, font)
	if err != nil {
		if errors.Is(err, export.ErrFontUnavailable) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to build PDF: %v", err))
		return
	}

	writeAttachment(w, export.PDFFileName, export.PDFContentType, data)
}
