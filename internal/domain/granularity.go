package domain

import (
	"fmt"
	"time"
)

// Granularity is the level of detail used to bucket a date range.
type Granularity string

const (
	Hour  Granularity = "hour"
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// Granularities lists the supported levels in ascending order.
var Granularities = []Granularity{Hour, Day, Week, Month}

var lodNames = map[Granularity]string{
	Hour:  "hourly",
	Day:   "daily",
	Week:  "weekly",
	Month: "monthly",
}

// ParseGranularity validates a boundary token.
func ParseGranularity(token string) (Granularity, error) {
	g := Granularity(token)
	if _, ok := lodNames[g]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, token)
	}
	return g, nil
}

// DisplayName returns the adjective form shown in granularity pickers.
func (g Granularity) DisplayName() string {
	return lodNames[g]
}

// Next advances t by one step of the granularity.
func (g Granularity) Next(t time.Time) (time.Time, error) {
	switch g {
	case Hour:
		return t.Add(time.Hour), nil
	case Day:
		return t.AddDate(0, 0, 1), nil
	case Week:
		return t.AddDate(0, 0, 7), nil
	case Month:
		return t.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidGranularity, string(g))
	}
}

// Truncate aligns t to the start of its granularity period. Weeks start on
// Monday.
func (g Granularity) Truncate(t time.Time) (time.Time, error) {
	y, m, d := t.Date()
	loc := t.Location()

	switch g {
	case Hour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc), nil
	case Day:
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	case Week:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc), nil
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidGranularity, string(g))
	}
}
