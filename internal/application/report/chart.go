package report

import (
	"context"

	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/domain"
)

// Chart keys of the selected metrics.
const (
	PrimaryMetricKey   = "primary_metric"
	SecondaryMetricKey = "secondary_metric"
)

// ChartColumn is one drawn series.
type ChartColumn struct {
	Key    string    `json:"key"`
	Metric string    `json:"metric"`
	Values []float64 `json:"values"`
}

// ChartData is the payload of a chart component.
type ChartData struct {
	Labels  []string          `json:"labels"`
	Columns []ChartColumn     `json:"columns"`
	Names   map[string]string `json:"names"`
	Axes    map[string]string `json:"axes"`
}

// Chart draws the primary metric, the optional secondary metric and, without
// a secondary metric, the shadows of the primary one. Every non-primary
// column gets an axis.
func (s *Section) Chart(ctx context.Context, params Params, rng Range) (ChartData, error) {
	primary := params.Primary
	if primary == "" {
		primary = s.Metrics[0]
	}
	primaryMetric, err := s.metric(primary)
	if err != nil {
		return ChartData{}, err
	}

	secondary := params.Secondary
	if secondary == primary {
		secondary = ""
	}

	metrics := []string{primary}
	if secondary != "" {
		if _, err := s.metric(secondary); err != nil {
			return ChartData{}, err
		}
		metrics = append(metrics, secondary)
	} else {
		for _, shadow := range s.Shadows[primary] {
			if shadow.ID != primary {
				metrics = append(metrics, shadow.ID)
			}
		}
	}

	timeline, err := s.Engine.Timeline(ctx, domain.TimelineQuery{
		Metrics:     metrics,
		From:        rng.From,
		To:          rng.To,
		Granularity: rng.Granularity,
	})
	if err != nil {
		return ChartData{}, err
	}

	data := ChartData{
		Labels:  timeline.Labels,
		Columns: make([]ChartColumn, 0, len(metrics)),
		Names:   make(map[string]string, len(metrics)),
		Axes:    make(map[string]string, len(metrics)-1),
	}
	primaryExtremes := aggregator.SeriesExtremes(timeline.Columns[primary])

	for _, id := range metrics {
		metric, err := s.metric(id)
		if err != nil {
			return ChartData{}, err
		}

		key := id
		switch id {
		case primary:
			key = PrimaryMetricKey
		case secondary:
			key = SecondaryMetricKey
		}

		values := timeline.Columns[id]
		if id != primary {
			data.Axes[key] = s.Axis.Assign(primaryMetric, primaryExtremes, metric, values).ChartKey()
		}
		data.Names[key] = metric.Label
		data.Columns = append(data.Columns, ChartColumn{Key: key, Metric: id, Values: values})
	}

	return data, nil
}
