package aggregator

import (
	"time"

	"statistics-aggregator/internal/domain"
)

// Buckets splits [from, to) into contiguous buckets of the given granularity.
// An empty or inverted range yields no buckets. The last bucket is not clipped
// to to, so a range that is not aligned to the granularity ends past it.
func Buckets(from, to time.Time, granularity domain.Granularity) ([]domain.Bucket, error) {
	if _, err := domain.ParseGranularity(string(granularity)); err != nil {
		return nil, err
	}
	if !from.Before(to) {
		return nil, nil
	}

	var buckets []domain.Bucket
	for start := from; start.Before(to); {
		end, err := granularity.Next(start)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, domain.Bucket{Start: start, End: end})
		start = end
	}

	return buckets, nil
}
