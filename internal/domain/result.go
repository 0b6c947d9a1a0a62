package domain

import (
	"encoding/json"
	"time"
)

// TimelineQuery requests an aligned time series. Only the first filter is
// honored.
type TimelineQuery struct {
	Metrics     []string
	From        time.Time
	To          time.Time
	Granularity Granularity
	Filters     []*Filter
}

// TabularQuery requests a pivot over up to two dimensions.
type TabularQuery struct {
	Metrics     []string
	From        time.Time
	To          time.Time
	Granularity Granularity
	Dimensions  []string
}

// Timeline is the chart-facing result.
type Timeline struct {
	Labels  []string             `json:"labels"`
	Columns map[string][]float64 `json:"columns"`
}

// PivotRow holds metric sums for one combination of dimension items.
type PivotRow struct {
	Values map[string]float64
	Items  map[string]DimensionItem
}

// MarshalJSON flattens the row into {metricId: number, dimensionId: item}.
func (r PivotRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Values)+len(r.Items))
	for id, value := range r.Values {
		flat[id] = value
	}
	for id, item := range r.Items {
		flat[id] = item
	}
	return json.Marshal(flat)
}

// ColumnSummary carries the total of a column and, when enabled, its average.
type ColumnSummary struct {
	Total   float64  `json:"total"`
	Average *float64 `json:"average,omitempty"`
}

// Summary maps metric ids to their column summaries.
type Summary map[string]ColumnSummary
