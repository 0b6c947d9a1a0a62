package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"statistics-aggregator/internal/domain"
)

// filterValidator is implemented by data sources that can reject unknown
// predicate kinds before any record is read.
type filterValidator interface {
	Validate(filters ...*domain.Filter) error
}

// Engine orchestrates bucketing, filtering and caching over a data source.
type Engine struct {
	source      domain.DataSource
	cache       *Cache
	recorder    Recorder
	parallelism int

	metrics    map[string]domain.Metric
	dimensions map[string]domain.Dimension
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache shares an existing cache. Callers sharing a cache across engines
// must make sure metric ids do not collide between sources.
func WithCache(cache *Cache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// WithRecorder reports record-source calls.
func WithRecorder(recorder Recorder) Option {
	return func(e *Engine) {
		e.recorder = recorder
	}
}

// WithParallelism bounds how many pivot cells are computed concurrently.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// New creates an engine for source.
func New(source domain.DataSource, opts ...Option) *Engine {
	e := &Engine{
		source:      source,
		parallelism: 1,
		metrics:     make(map[string]domain.Metric),
		dimensions:  make(map[string]domain.Dimension),
	}
	for _, metric := range source.Metrics() {
		e.metrics[metric.ID] = metric
	}
	for _, dimension := range source.Dimensions() {
		e.dimensions[dimension.ID] = dimension
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = NewCache()
	}
	if e.parallelism < 1 {
		e.parallelism = 1
	}
	return e
}

// Source returns the underlying data source.
func (e *Engine) Source() domain.DataSource {
	return e.source
}

// Metric resolves a metric declared by the source.
func (e *Engine) Metric(id string) (domain.Metric, error) {
	metric, ok := e.metrics[id]
	if !ok {
		return domain.Metric{}, fmt.Errorf("%w: %q in %s", domain.ErrUnsupportedMetric, id, e.source.Name())
	}
	return metric, nil
}

// Dimension resolves a dimension declared by the source.
func (e *Engine) Dimension(id string) (domain.Dimension, error) {
	dimension, ok := e.dimensions[id]
	if !ok {
		return domain.Dimension{}, fmt.Errorf("%w: %q in %s", domain.ErrUnsupportedDimension, id, e.source.Name())
	}
	return dimension, nil
}

// Series returns one value per bucket of [from, to) for metric, narrowed by up
// to two filters. Results are memoized.
func (e *Engine) Series(ctx context.Context, metricID string, from, to time.Time, granularity domain.Granularity, f1, f2 *domain.Filter) (domain.Series, error) {
	if _, err := e.Metric(metricID); err != nil {
		return nil, err
	}
	if err := e.validateFilters(f1, f2); err != nil {
		return nil, err
	}

	buckets, err := Buckets(from, to, granularity)
	if err != nil {
		return nil, err
	}

	key := CacheKey{
		Metric:      metricID,
		From:        from,
		To:          to,
		Granularity: granularity,
		Filter1:     f1,
		Filter2:     f2,
	}

	return e.cache.GetOrCompute(ctx, key, func(ctx context.Context) (domain.Series, error) {
		series := make(domain.Series, 0, len(buckets))
		for _, bucket := range buckets {
			value, err := e.aggregate(ctx, bucket, metricID, f1, f2)
			if err != nil {
				return nil, err
			}
			series = append(series, domain.Point{Bucket: bucket, Value: value})
		}
		return series, nil
	})
}

// Timeline returns an aligned series per metric. Only the first filter of the
// query is honored; labels come from the first metric.
func (e *Engine) Timeline(ctx context.Context, query domain.TimelineQuery) (domain.Timeline, error) {
	if _, err := domain.ParseGranularity(string(query.Granularity)); err != nil {
		return domain.Timeline{}, err
	}
	if err := e.validateMetrics(query.Metrics); err != nil {
		return domain.Timeline{}, err
	}

	var filter *domain.Filter
	if len(query.Filters) > 0 {
		filter = query.Filters[0]
	}

	timeline := domain.Timeline{
		Labels:  []string{},
		Columns: make(map[string][]float64, len(query.Metrics)),
	}
	for i, metricID := range query.Metrics {
		series, err := e.Series(ctx, metricID, query.From, query.To, query.Granularity, filter, nil)
		if err != nil {
			return domain.Timeline{}, err
		}
		if i == 0 {
			timeline.Labels = series.Labels()
		}
		timeline.Columns[metricID] = series.Values()
	}

	return timeline, nil
}

// Tabular returns one row per combination of dimension items whose metric sums
// are not all zero. Rows follow catalog order, first dimension outermost.
func (e *Engine) Tabular(ctx context.Context, query domain.TabularQuery) ([]domain.PivotRow, error) {
	if _, err := domain.ParseGranularity(string(query.Granularity)); err != nil {
		return nil, err
	}
	if err := e.validateMetrics(query.Metrics); err != nil {
		return nil, err
	}

	dim1 := dimensionAt(query.Dimensions, 0)
	dim2 := dimensionAt(query.Dimensions, 1)

	items1, err := e.items(ctx, dim1)
	if err != nil {
		return nil, err
	}
	items2, err := e.items(ctx, dim2)
	if err != nil {
		return nil, err
	}

	type cell struct {
		item1, item2 domain.DimensionItem
		values       map[string]float64
		nonZero      bool
	}

	cells := make([]cell, 0, len(items1)*len(items2))
	for _, item1 := range items1 {
		for _, item2 := range items2 {
			cells = append(cells, cell{item1: item1, item2: item2})
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.parallelism)
	for i := range cells {
		c := &cells[i]
		group.Go(func() error {
			c.values = make(map[string]float64, len(query.Metrics))
			for _, metricID := range query.Metrics {
				series, err := e.Series(groupCtx, metricID, query.From, query.To, query.Granularity, c.item1.Filter, c.item2.Filter)
				if err != nil {
					return err
				}
				sum := series.Sum()
				c.values[metricID] = sum
				if sum != 0 {
					c.nonZero = true
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	rows := make([]domain.PivotRow, 0, len(cells))
	for _, c := range cells {
		if !c.nonZero {
			continue
		}
		row := domain.PivotRow{Values: c.values, Items: make(map[string]domain.DimensionItem, 2)}
		if dim1 != "" {
			row.Items[dim1] = c.item1
		}
		if dim2 != "" {
			row.Items[dim2] = c.item2
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (e *Engine) items(ctx context.Context, dimensionID string) ([]domain.DimensionItem, error) {
	if dimensionID == "" {
		return []domain.DimensionItem{{}}, nil
	}
	if _, err := e.Dimension(dimensionID); err != nil {
		return nil, err
	}

	items, err := e.source.Items(ctx, dimensionID)
	if err != nil {
		return nil, wrapSourceError(err, "catalog %s", dimensionID)
	}
	return items, nil
}

func (e *Engine) aggregate(ctx context.Context, bucket domain.Bucket, metricID string, f1, f2 *domain.Filter) (float64, error) {
	start := time.Now()
	value, err := e.source.Aggregate(ctx, bucket, metricID, f1, f2)
	if e.recorder != nil {
		e.recorder.SourceCall(e.source.Name(), time.Since(start), err)
	}
	if err != nil {
		return 0, wrapSourceError(err, "metric %s bucket %s", metricID, bucket.Label())
	}
	return value, nil
}

func (e *Engine) validateMetrics(ids []string) error {
	for _, id := range ids {
		if _, err := e.Metric(id); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) validateFilters(filters ...*domain.Filter) error {
	validator, ok := e.source.(filterValidator)
	if !ok {
		return nil
	}
	return validator.Validate(filters...)
}

func dimensionAt(dimensions []string, index int) string {
	if index < len(dimensions) {
		return dimensions[index]
	}
	return ""
}

// wrapSourceError tags collaborator failures with ErrRecordSource. Taxonomy
// errors and context errors pass through untouched.
func wrapSourceError(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, domain.ErrRecordSource),
		errors.Is(err, domain.ErrNotImplemented),
		errors.Is(err, domain.ErrUnknownPredicate),
		errors.Is(err, domain.ErrUnsupportedMetric),
		errors.Is(err, domain.ErrUnsupportedDimension),
		isContextError(err):
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrRecordSource, fmt.Sprintf(format, args...), err)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
