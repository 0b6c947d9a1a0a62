package report

import (
	"context"
	"encoding/json"

	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/domain"
)

// Row keys of the resolved dimension values.
const (
	PrimaryDimensionKey   = "primary_dimension"
	SecondaryDimensionKey = "secondary_dimension"
)

// TableRow holds the metric sums of one row and its dimension labels.
type TableRow struct {
	Values             map[string]float64
	PrimaryDimension   string
	SecondaryDimension *string
}

// MarshalJSON flattens the row into {metricId: number, primary_dimension: label, ...}.
func (r TableRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Values)+2)
	for id, value := range r.Values {
		flat[id] = value
	}
	flat[PrimaryDimensionKey] = r.PrimaryDimension
	flat[SecondaryDimensionKey] = r.SecondaryDimension
	return json.Marshal(flat)
}

// TableData is the payload of a table component. Dimension ids are encoded
// filter tokens in row order.
type TableData struct {
	Rows                      []TableRow     `json:"rows"`
	Summary                   domain.Summary `json:"summary"`
	PrimaryDimensionIDs       []string       `json:"primary_dimension_ids"`
	PrimaryDimensionCaption   string         `json:"primary_dimension_caption"`
	SecondaryDimensionActive  bool           `json:"secondary_dimension_active"`
	SecondaryDimensionIDs     []string       `json:"secondary_dimension_ids"`
	SecondaryDimensionCaption string         `json:"secondary_dimension_caption"`
}

// Table pivots all section metrics over the primary and the optional
// secondary dimension and summarizes every column.
func (s *Section) Table(ctx context.Context, params Params, rng Range) (TableData, error) {
	primaryID := params.PrimaryDimension
	if primaryID == "" && len(s.Dimensions) > 0 {
		primaryID = s.Dimensions[0]
	}

	data := TableData{
		Rows:                []TableRow{},
		PrimaryDimensionIDs: []string{},
	}

	var dimensions []string
	if primaryID != "" {
		primary, err := s.dimension(primaryID)
		if err != nil {
			return TableData{}, err
		}
		dimensions = append(dimensions, primaryID)
		data.PrimaryDimensionCaption = primary.Label
	}

	secondaryID := params.SecondaryDimension
	if secondaryID != "" && secondaryID != primaryID {
		secondary, err := s.dimension(secondaryID)
		if err != nil {
			return TableData{}, err
		}
		dimensions = append(dimensions, secondaryID)
		data.SecondaryDimensionActive = true
		data.SecondaryDimensionCaption = secondary.Label
		data.SecondaryDimensionIDs = []string{}
	} else {
		secondaryID = ""
	}

	query := domain.TabularQuery{
		Metrics:     s.Metrics,
		From:        rng.From,
		To:          rng.To,
		Granularity: rng.Granularity,
		Dimensions:  dimensions,
	}
	rows, err := s.Engine.Tabular(ctx, query)
	if err != nil {
		return TableData{}, err
	}

	for _, row := range rows {
		tableRow := TableRow{Values: row.Values}
		if item, ok := row.Items[primaryID]; ok {
			tableRow.PrimaryDimension = item.Value
			data.PrimaryDimensionIDs = append(data.PrimaryDimensionIDs, item.Filter.Encode())
		}
		if item, ok := row.Items[secondaryID]; ok && secondaryID != "" {
			label := item.Value
			tableRow.SecondaryDimension = &label
			data.SecondaryDimensionIDs = append(data.SecondaryDimensionIDs, item.Filter.Encode())
		}
		data.Rows = append(data.Rows, tableRow)
	}

	data.Summary, err = aggregator.Summarize(ctx, s.Engine, query, s.columns(), len(rows))
	if err != nil {
		return TableData{}, err
	}

	return data, nil
}

// RowTimeline is the primary-metric timeline of one table row.
type RowTimeline struct {
	Key    string    `json:"key"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// TableRowTimeline draws the primary metric narrowed by the dimension tokens of
// a table row. Only the primary dimension token filters the timeline.
func (s *Section) TableRowTimeline(ctx context.Context, params Params, rng Range) (RowTimeline, error) {
	primary := params.Primary
	if primary == "" {
		primary = s.Metrics[0]
	}
	if _, err := s.metric(primary); err != nil {
		return RowTimeline{}, err
	}

	var filters []*domain.Filter
	if params.PrimaryDimension != "" {
		if _, err := s.dimension(params.PrimaryDimension); err != nil {
			return RowTimeline{}, err
		}
		filter, err := domain.ParseFilter(params.PrimaryDimensionID)
		if err != nil {
			return RowTimeline{}, err
		}
		filters = append(filters, filter)
	}
	if params.SecondaryDimension != "" {
		if _, err := s.dimension(params.SecondaryDimension); err != nil {
			return RowTimeline{}, err
		}
		filter, err := domain.ParseFilter(params.SecondaryDimensionID)
		if err != nil {
			return RowTimeline{}, err
		}
		filters = append(filters, filter)
	}

	timeline, err := s.Engine.Timeline(ctx, domain.TimelineQuery{
		Metrics:     []string{primary},
		From:        rng.From,
		To:          rng.To,
		Granularity: rng.Granularity,
		Filters:     filters,
	})
	if err != nil {
		return RowTimeline{}, err
	}

	key := params.Key
	if key == "" {
		key = primary
	}
	return RowTimeline{Key: key, Labels: timeline.Labels, Values: timeline.Columns[primary]}, nil
}
