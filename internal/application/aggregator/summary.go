package aggregator

import (
	"context"

	"statistics-aggregator/internal/domain"
)

// Tabulator produces pivot rows.
type Tabulator interface {
	Tabular(ctx context.Context, query domain.TabularQuery) ([]domain.PivotRow, error)
}

// Column configures the summary of one table column.
type Column struct {
	Metric         string
	DisplayAverage bool
}

// Summarize computes column totals from a separate dimensionless tabulation,
// so suppressed rows never skew the totals. Averages divide the total by
// rowCount and are omitted when disabled or when rowCount is zero.
func Summarize(ctx context.Context, tab Tabulator, query domain.TabularQuery, columns []Column, rowCount int) (domain.Summary, error) {
	metrics := make([]string, len(columns))
	for i, column := range columns {
		metrics[i] = column.Metric
	}

	totalQuery := query
	totalQuery.Metrics = metrics
	totalQuery.Dimensions = nil

	rows, err := tab.Tabular(ctx, totalQuery)
	if err != nil {
		return nil, err
	}

	var totals map[string]float64
	if len(rows) > 0 {
		totals = rows[len(rows)-1].Values
	}

	summary := make(domain.Summary, len(columns))
	for _, column := range columns {
		entry := domain.ColumnSummary{Total: totals[column.Metric]}
		if column.DisplayAverage && rowCount > 0 {
			average := entry.Total / float64(rowCount)
			entry.Average = &average
		}
		summary[column.Metric] = entry
	}

	return summary, nil
}
