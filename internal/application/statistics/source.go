// Package statistics implements the users, subscriptions and magazine issue
// data sources on top of a record store.
package statistics

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/domain"
)

// Catalog lists the items of one dimension.
type Catalog func(ctx context.Context) ([]domain.DimensionItem, error)

// MetricDefinition binds a metric to the predicate that seeds record counting.
// A nil Match means the metric has no aggregation logic yet.
type MetricDefinition struct {
	Metric domain.Metric
	Match  func(domain.Record) bool
}

// DimensionDefinition binds a dimension to its catalog.
type DimensionDefinition struct {
	Dimension domain.Dimension
	Catalog   Catalog
}

// Source counts records of one kind per bucket.
type Source struct {
	name       string
	kind       string
	reader     domain.RecordReader
	predicates *aggregator.Predicates

	metrics    []MetricDefinition
	dimensions []DimensionDefinition
}

// NewSource assembles a data source. Definitions keep their declaration order.
func NewSource(name, kind string, reader domain.RecordReader, predicates *aggregator.Predicates, metrics []MetricDefinition, dimensions []DimensionDefinition) *Source {
	return &Source{
		name:       name,
		kind:       kind,
		reader:     reader,
		predicates: predicates,
		metrics:    metrics,
		dimensions: dimensions,
	}
}

// Name identifies the source in cache keys and metrics.
func (s *Source) Name() string { return s.name }

// Metrics lists the declared metrics in order.
func (s *Source) Metrics() []domain.Metric {
	return lo.Map(s.metrics, func(def MetricDefinition, _ int) domain.Metric {
		return def.Metric
	})
}

// Dimensions lists the declared dimensions in order.
func (s *Source) Dimensions() []domain.Dimension {
	return lo.Map(s.dimensions, func(def DimensionDefinition, _ int) domain.Dimension {
		return def.Dimension
	})
}

// Validate rejects filters whose kind has no extractor.
func (s *Source) Validate(filters ...*domain.Filter) error {
	return s.predicates.Validate(filters...)
}

// Aggregate counts records created in the bucket that match the metric and
// both filters.
func (s *Source) Aggregate(ctx context.Context, bucket domain.Bucket, metricID string, f1, f2 *domain.Filter) (float64, error) {
	def, ok := lo.Find(s.metrics, func(def MetricDefinition) bool {
		return def.Metric.ID == metricID
	})
	if !ok {
		return 0, fmt.Errorf("%w: %q in %s", domain.ErrUnsupportedMetric, metricID, s.name)
	}
	if def.Match == nil {
		return 0, fmt.Errorf("%s metric %s: %w", s.name, metricID, domain.ErrNotImplemented)
	}
	if err := s.predicates.Validate(f1, f2); err != nil {
		return 0, err
	}

	records, err := s.reader.Records(ctx, s.kind, bucket.Start, bucket.End)
	if err != nil {
		return 0, fmt.Errorf("read %s records: %w", s.kind, err)
	}

	var count float64
	for _, record := range records {
		accepted, err := s.predicates.Accumulate(def.Match(record), record, f1, f2)
		if err != nil {
			return 0, err
		}
		if accepted {
			count++
		}
	}
	return count, nil
}

// Items returns the ordered catalog of a dimension.
func (s *Source) Items(ctx context.Context, dimensionID string) ([]domain.DimensionItem, error) {
	def, ok := lo.Find(s.dimensions, func(def DimensionDefinition) bool {
		return def.Dimension.ID == dimensionID
	})
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", domain.ErrUnsupportedDimension, dimensionID, s.name)
	}
	if def.Catalog == nil {
		return nil, fmt.Errorf("%s dimension %s: %w", s.name, dimensionID, domain.ErrNotImplemented)
	}
	return def.Catalog(ctx)
}

var _ domain.DataSource = (*Source)(nil)
