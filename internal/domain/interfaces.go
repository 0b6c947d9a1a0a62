package domain

import (
	"context"
	"time"
)

// RecordSource returns the aggregate of one metric over one bucket, narrowed by
// up to two filters.
type RecordSource interface {
	Aggregate(ctx context.Context, bucket Bucket, metricID string, f1, f2 *Filter) (float64, error)
}

// DimensionCatalog enumerates the ordered items of a dimension.
type DimensionCatalog interface {
	Items(ctx context.Context, dimensionID string) ([]DimensionItem, error)
}

// DataSource is a named set of metrics and dimensions backed by records.
type DataSource interface {
	RecordSource
	DimensionCatalog
	Name() string
	Metrics() []Metric
	Dimensions() []Dimension
}

// RecordWriter persists ingested records.
type RecordWriter interface {
	Add(ctx context.Context, records ...Record) error
}

// RecordReader queries stored records.
type RecordReader interface {
	// Records returns records of kind created in [from, to), ordered by creation time.
	Records(ctx context.Context, kind string, from, to time.Time) ([]Record, error)
	// Distinct returns the distinct values of attribute over all records of kind.
	Distinct(ctx context.Context, kind, attribute string) ([]Value, error)
}

// RecordStore aggregates the write and read capabilities of a storage backend.
type RecordStore interface {
	RecordWriter
	RecordReader
}

// BatchProducer emits record batches until its context is cancelled.
type BatchProducer interface {
	Run(ctx context.Context, out chan<- RecordBatch)
}

// WorkerPool consumes batches and stores their records.
type WorkerPool interface {
	Run(ctx context.Context, batches <-chan RecordBatch)
}
