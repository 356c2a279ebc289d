// =============================================================================
// AssetDesk - Aggregation Builder
// =============================================================================
//
// Group-by-count aggregation over one column of the merged table. The result
// feeds the chart renderers: one invocation per chart (department bar chart,
// device-type pie chart). Missing cells form their own group so the charts
// account for every row.
//
// =============================================================================

package summary

import "assetdesk/internal/table"

// GroupCount is one aggregation bucket: a distinct column value and the
// number of rows holding it.
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Aggregate counts rows per distinct value of the given column. Groups are
// returned in first-seen row order; each distinct value (including the
// missing-value group) appears exactly once, and the counts sum to the
// table's row count.
func Aggregate(t *table.Table, column string) []GroupCount {
	index := make(map[string]int)
	var groups []GroupCount

	for _, row := range t.Rows {
		key := row[column].GroupKey()
		if i, ok := index[key]; ok {
			groups[i].Count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, GroupCount{Key: key, Count: 1})
	}

	return groups
}
