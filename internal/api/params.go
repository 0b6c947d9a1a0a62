// Package api holds request handling shared by the HTTP and gRPC transports.
package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"statistics-aggregator/internal/application/report"
)

// Request parameter names.
const (
	ParamFrom                 = "from"
	ParamTo                   = "to"
	ParamGranularity          = "lod"
	ParamPrimary              = "primary"
	ParamSecondary            = "secondary"
	ParamPrimaryDimension     = "primary_dimension"
	ParamSecondaryDimension   = "secondary_dimension"
	ParamPrimaryDimensionID   = "primary_dimension_id"
	ParamSecondaryDimensionID = "secondary_dimension_id"
	ParamKey                  = "key"
)

// ErrInvalidParameter reports a request parameter that cannot be parsed.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParseParams reads component parameters through lookup. Dates accept
// YYYY-MM-DD or RFC 3339; a missing date selects the default range.
func ParseParams(lookup func(string) string) (report.Params, error) {
	from, err := parseDate(ParamFrom, lookup(ParamFrom))
	if err != nil {
		return report.Params{}, err
	}
	to, err := parseDate(ParamTo, lookup(ParamTo))
	if err != nil {
		return report.Params{}, err
	}

	get := func(name string) string {
		return strings.TrimSpace(lookup(name))
	}

	return report.Params{
		From:                 from,
		To:                   to,
		Granularity:          get(ParamGranularity),
		Primary:              get(ParamPrimary),
		Secondary:            get(ParamSecondary),
		PrimaryDimension:     get(ParamPrimaryDimension),
		SecondaryDimension:   get(ParamSecondaryDimension),
		PrimaryDimensionID:   lookup(ParamPrimaryDimensionID),
		SecondaryDimensionID: lookup(ParamSecondaryDimensionID),
		Key:                  get(ParamKey),
	}, nil
}

func parseDate(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q is not a date", ErrInvalidParameter, name, raw)
	}
	return t, nil
}
