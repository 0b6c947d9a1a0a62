package domain

import "time"

// LabelLayout formats bucket labels.
const LabelLayout = "2006-01-02 15:04:05"

// Bucket is the half-open interval [Start, End).
type Bucket struct {
	Start time.Time
	End   time.Time
}

// Label renders the bucket start with LabelLayout.
func (b Bucket) Label() string {
	return b.Start.Format(LabelLayout)
}

// Contains reports whether t falls inside the bucket.
func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// Point is one bucket of a series with its aggregated value.
type Point struct {
	Bucket
	Value float64
}

// Series is the ordered bucketed output of one metric.
type Series []Point

// Sum adds up every point of the series.
func (s Series) Sum() float64 {
	var total float64
	for _, p := range s {
		total += p.Value
	}
	return total
}

// Labels returns the bucket labels in order.
func (s Series) Labels() []string {
	labels := make([]string, len(s))
	for i, p := range s {
		labels[i] = p.Label()
	}
	return labels
}

// Values returns the point values in order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}
