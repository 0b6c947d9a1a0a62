// Package report turns engine results into chart and table payloads for the
// statistics sections.
package report

import (
	"fmt"

	"github.com/samber/lo"

	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/domain"
)

// Section groups the chart and table of one data source.
type Section struct {
	ID      string
	Caption string
	Engine  *aggregator.Engine

	// Metrics selectable in the chart and shown as table columns.
	Metrics []string
	// Dimensions selectable as primary or secondary table dimension.
	Dimensions []string
	// Shadows lists metrics drawn next to a primary metric when no secondary
	// metric is selected.
	Shadows map[string][]domain.Metric
	// HiddenAverages disables the table average for the listed metrics.
	HiddenAverages map[string]bool
	Axis           aggregator.AxisSwitch
}

// SectionInfo describes a section to clients.
type SectionInfo struct {
	ID            string             `json:"id"`
	Caption       string             `json:"caption"`
	Metrics       []domain.Metric    `json:"metrics"`
	Dimensions    []domain.Dimension `json:"dimensions"`
	Granularities map[string]string  `json:"lods"`
	Components    []string           `json:"components"`
}

// Validate checks that every declared metric and dimension exists in the
// engine's data source.
func (s *Section) Validate() error {
	if s.Engine == nil {
		return fmt.Errorf("section %s: engine is required", s.ID)
	}
	for _, id := range s.Metrics {
		if _, err := s.Engine.Metric(id); err != nil {
			return fmt.Errorf("section %s: %w", s.ID, err)
		}
	}
	for _, id := range s.Dimensions {
		if _, err := s.Engine.Dimension(id); err != nil {
			return fmt.Errorf("section %s: %w", s.ID, err)
		}
	}
	for primary, shadows := range s.Shadows {
		if !lo.Contains(s.Metrics, primary) {
			return fmt.Errorf("section %s: shadow of %w: %q", s.ID, domain.ErrUnsupportedMetric, primary)
		}
		for _, shadow := range shadows {
			if _, err := s.Engine.Metric(shadow.ID); err != nil {
				return fmt.Errorf("section %s: %w", s.ID, err)
			}
		}
	}
	if len(s.Metrics) == 0 {
		return fmt.Errorf("section %s: at least one metric is required", s.ID)
	}
	return nil
}

// Info returns the client-facing description of the section.
func (s *Section) Info() SectionInfo {
	metrics := lo.FilterMap(s.Metrics, func(id string, _ int) (domain.Metric, bool) {
		metric, err := s.Engine.Metric(id)
		return metric, err == nil
	})
	dimensions := lo.FilterMap(s.Dimensions, func(id string, _ int) (domain.Dimension, bool) {
		dimension, err := s.Engine.Dimension(id)
		return dimension, err == nil
	})
	lods := lo.Associate(domain.Granularities, func(g domain.Granularity) (string, string) {
		return string(g), g.DisplayName()
	})

	return SectionInfo{
		ID:            s.ID,
		Caption:       s.Caption,
		Metrics:       metrics,
		Dimensions:    dimensions,
		Granularities: lods,
		Components:    s.componentNames(),
	}
}

func (s *Section) componentNames() []string {
	return []string{
		ComponentName(s.ID, KindChart),
		ComponentName(s.ID, KindTable),
		ComponentName(s.ID, KindTableRow),
	}
}

// metric resolves id against the section metrics first and the shadow
// definitions second.
func (s *Section) metric(id string) (domain.Metric, error) {
	if lo.Contains(s.Metrics, id) {
		return s.Engine.Metric(id)
	}
	for _, shadows := range s.Shadows {
		if shadow, ok := lo.Find(shadows, func(m domain.Metric) bool { return m.ID == id }); ok {
			return shadow, nil
		}
	}
	return domain.Metric{}, fmt.Errorf("%w: %q in section %s", domain.ErrUnsupportedMetric, id, s.ID)
}

func (s *Section) dimension(id string) (domain.Dimension, error) {
	if !lo.Contains(s.Dimensions, id) {
		return domain.Dimension{}, fmt.Errorf("%w: %q in section %s", domain.ErrUnsupportedDimension, id, s.ID)
	}
	return s.Engine.Dimension(id)
}

func (s *Section) columns() []aggregator.Column {
	return lo.Map(s.Metrics, func(id string, _ int) aggregator.Column {
		return aggregator.Column{Metric: id, DisplayAverage: !s.HiddenAverages[id]}
	})
}
