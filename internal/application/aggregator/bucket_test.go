package aggregator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/domain"
)

func TestBucketsGranularities(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		to          time.Time
		granularity domain.Granularity
		wantCount   int
		wantSecond  time.Time
	}{
		{"hour", from.Add(5 * time.Hour), domain.Hour, 5, from.Add(time.Hour)},
		{"day", from.AddDate(0, 0, 7), domain.Day, 7, from.AddDate(0, 0, 1)},
		{"week", from.AddDate(0, 0, 28), domain.Week, 4, from.AddDate(0, 0, 7)},
		{"month", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), domain.Month, 3, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buckets, err := aggregator.Buckets(from, tt.to, tt.granularity)
			require.NoError(t, err)
			require.Len(t, buckets, tt.wantCount)
			assert.Equal(t, from, buckets[0].Start)
			assert.Equal(t, tt.wantSecond, buckets[1].Start)

			for i := 1; i < len(buckets); i++ {
				assert.Equal(t, buckets[i-1].End, buckets[i].Start, "buckets must be contiguous")
			}
			assert.False(t, buckets[len(buckets)-1].Start.Before(from))
		})
	}
}

func TestBucketsRespectMonthLength(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	buckets, err := aggregator.Buckets(from, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), domain.Month)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, 29*24*time.Hour, buckets[0].End.Sub(buckets[0].Start))
	assert.Equal(t, 31*24*time.Hour, buckets[1].End.Sub(buckets[1].Start))
}

func TestBucketsEmptyRange(t *testing.T) {
	t.Parallel()

	moment := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	buckets, err := aggregator.Buckets(moment, moment, domain.Day)
	require.NoError(t, err)
	assert.Empty(t, buckets)

	buckets, err = aggregator.Buckets(moment, moment.Add(-time.Hour), domain.Day)
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestBucketsUnalignedEndIsNotClipped(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	buckets, err := aggregator.Buckets(from, from.AddDate(0, 0, 10), domain.Week)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, from.AddDate(0, 0, 14), buckets[1].End)
}

func TestBucketsInvalidGranularity(t *testing.T) {
	t.Parallel()

	from := time.Now()
	_, err := aggregator.Buckets(from, from.Add(time.Hour), domain.Granularity("minute"))
	require.ErrorIs(t, err, domain.ErrInvalidGranularity)
}

func TestBucketsDeterministic(t *testing.T) {
	t.Parallel()

	from := time.Date(2023, time.October, 29, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 2, 0)

	first, err := aggregator.Buckets(from, to, domain.Day)
	require.NoError(t, err)
	second, err := aggregator.Buckets(from, to, domain.Day)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "2023-10-29 00:00:00", first[0].Label())
}
