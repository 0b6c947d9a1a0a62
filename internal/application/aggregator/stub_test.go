package aggregator_test

import (
	"context"
	"sync"
	"sync/atomic"

	"statistics-aggregator/internal/domain"
)

// stubSource returns values from a function and counts Aggregate calls.
type stubSource struct {
	metrics    []domain.Metric
	dimensions []domain.Dimension
	catalog    map[string][]domain.DimensionItem
	value      func(bucket domain.Bucket, metricID string, f1, f2 *domain.Filter) (float64, error)

	calls atomic.Int64

	mu      sync.Mutex
	filters [][2]*domain.Filter
}

func newStubSource(metricIDs ...string) *stubSource {
	metrics := make([]domain.Metric, len(metricIDs))
	for i, id := range metricIDs {
		metrics[i] = domain.Metric{ID: id, Label: id, ValueType: domain.ValueAbsolute}
	}
	return &stubSource{
		metrics: metrics,
		catalog: map[string][]domain.DimensionItem{},
		value: func(domain.Bucket, string, *domain.Filter, *domain.Filter) (float64, error) {
			return 1, nil
		},
	}
}

func (s *stubSource) withDimension(id string, items ...domain.DimensionItem) *stubSource {
	s.dimensions = append(s.dimensions, domain.Dimension{ID: id, Label: id})
	s.catalog[id] = items
	return s
}

func (s *stubSource) Name() string { return "stub" }
func (s *stubSource) Metrics() []domain.Metric { return s.metrics }
func (s *stubSource) Dimensions() []domain.Dimension { return s.dimensions }

func (s *stubSource) Items(_ context.Context, id string) ([]domain.DimensionItem, error) {
	return s.catalog[id], nil
}

func (s *stubSource) Aggregate(_ context.Context, bucket domain.Bucket, metricID string, f1, f2 *domain.Filter) (float64, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.filters = append(s.filters, [2]*domain.Filter{f1, f2})
	s.mu.Unlock()
	return s.value(bucket, metricID, f1, f2)
}

func item(value string) domain.DimensionItem {
	return domain.DimensionItem{
		Filter: domain.NewFilter(domain.PredicateHasCountry, domain.String(value)),
		Value:  value,
	}
}
