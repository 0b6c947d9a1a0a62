package report

import (
	"fmt"
	"time"

	"statistics-aggregator/internal/domain"
)

// DefaultRangeDays is the length of the range used when none is given.
const DefaultRangeDays = 30

// Params carries the request parameters shared by all components. Zero dates
// select the default range.
type Params struct {
	From        time.Time
	To          time.Time
	Granularity string

	Primary   string
	Secondary string

	PrimaryDimension     string
	SecondaryDimension   string
	PrimaryDimensionID   string
	SecondaryDimensionID string

	Key string
}

// Range is a resolved, granularity-aligned date range.
type Range struct {
	From        time.Time
	To          time.Time
	Granularity domain.Granularity
}

// ResolveRange fills in the default range of the last DefaultRangeDays days
// ending today and aligns both ends to the granularity. An empty granularity
// means day. A range that aligns to a single point covers one full period.
func ResolveRange(params Params, now time.Time) (Range, error) {
	token := params.Granularity
	if token == "" {
		token = string(domain.Day)
	}
	granularity, err := domain.ParseGranularity(token)
	if err != nil {
		return Range{}, err
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	from := params.From
	if from.IsZero() {
		from = today.AddDate(0, 0, -DefaultRangeDays)
	}
	to := params.To
	if to.IsZero() {
		to = today
	}

	if from, err = granularity.Truncate(from); err != nil {
		return Range{}, err
	}
	if to, err = granularity.Truncate(to); err != nil {
		return Range{}, err
	}
	if to.Before(from) {
		return Range{}, fmt.Errorf("%w: %s is after %s", domain.ErrInvalidRange, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	if to.Equal(from) {
		if to, err = granularity.Next(from); err != nil {
			return Range{}, err
		}
	}

	return Range{From: from, To: to, Granularity: granularity}, nil
}
