// =============================================================================
// AssetDesk - Batch Merger
// =============================================================================
//
// This module merges one uploaded batch of files into a single table.
//
// FAILURE POLICY:
//   A batch either merges completely or not at all. The first file that
//   fails to decode aborts the merge and the error names that file; files
//   that would have decoded fine are not merged partially. A batch with no
//   files, or whose files decode to zero rows in total, reports ErrEmptyBatch
//   so the caller can surface "nothing to work with" instead of an empty
//   table.
//
// =============================================================================

package loader

import (
	"errors"
	"fmt"

	"assetdesk/internal/table"

	"github.com/sirupsen/logrus"
)

// ErrEmptyBatch reports a merge that produced no usable rows.
var ErrEmptyBatch = errors.New("merge produced no rows")

// Upload is one raw uploaded file: an opaque byte buffer plus the declared
// file name, which is used only for diagnostics.
type Upload struct {
	Name string
	Data []byte
}

// MergeStats describes a completed merge.
type MergeStats struct {
	// Files is the number of files merged.
	Files int

	// RowsPerFile is the decoded row count of each file, in batch order.
	RowsPerFile []int

	// Rows is the total row count of the merged table.
	Rows int

	// Columns is the column count of the merged table.
	Columns int
}

// MergeBatch decodes every upload in order and concatenates the results into
// one table, preserving file order and, within each file, row order. Columns
// are aligned by name; the merged column set is the union.
//
// RETURNS:
//   - The merged table and its stats.
//   - ErrEmptyBatch when the batch has no files or no rows survive decoding.
//   - A decode error naming the offending file; the whole batch is aborted.
func MergeBatch(uploads []Upload) (*table.Table, MergeStats, error) {
	if len(uploads) == 0 {
		return nil, MergeStats{}, ErrEmptyBatch
	}

	stats := MergeStats{Files: len(uploads)}
	tables := make([]*table.Table, 0, len(uploads))

	for _, up := range uploads {
		t, err := Decode(up.Name, up.Data)
		if err != nil {
			return nil, MergeStats{}, fmt.Errorf("failed to decode %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"file":    up.Name,
			"rows":    t.RowCount(),
			"columns": len(t.Columns),
		}).Debug("decoded upload")

		stats.RowsPerFile = append(stats.RowsPerFile, t.RowCount())
		tables = append(tables, t)
	}

	merged := table.Concat(tables)
	if merged.RowCount() == 0 {
		return nil, MergeStats{}, ErrEmptyBatch
	}

	stats.Rows = merged.RowCount()
	stats.Columns = len(merged.Columns)

	logrus.WithFields(logrus.Fields{
		"files":   stats.Files,
		"rows":    stats.Rows,
		"columns": stats.Columns,
	}).Info("merged upload batch")

	return merged, stats, nil
}
