// =============================================================================
// AssetDesk - Chart Builder
// =============================================================================
//
// Renders the two batch charts as PNG images: a bar chart of assets per
// department and a pie chart of device-type shares. Both take a group-count
// aggregation and are otherwise ignorant of what the grouping column was.
//
// =============================================================================

package chart

import (
	"bytes"
	"fmt"

	"assetdesk/internal/summary"

	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 800
	chartHeight = 480
)

// BarPNG renders a bar chart of the aggregation, one bar per group.
//
// RETURNS:
//   - The PNG image bytes.
//   - An error when the aggregation is empty or rendering fails.
func BarPNG(title string, groups []summary.GroupCount) ([]byte, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("nothing to chart: aggregation is empty")
	}

	bars := make([]chart.Value, 0, len(groups))
	for _, g := range groups {
		bars = append(bars, chart.Value{Label: g.Key, Value: float64(g.Count)})
	}

	graph := chart.BarChart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		BarWidth: 48,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// PiePNG renders a pie chart of the aggregation, one slice per group.
//
// RETURNS:
//   - The PNG image bytes.
//   - An error when the aggregation is empty or rendering fails.
func PiePNG(title string, groups []summary.GroupCount) ([]byte, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("nothing to chart: aggregation is empty")
	}

	values := make([]chart.Value, 0, len(groups))
	for _, g := range groups {
		values = append(values, chart.Value{Label: g.Key, Value: float64(g.Count)})
	}

	graph := chart.PieChart{
		Title:  title,
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}
