package domain

import "errors"

var (
	ErrUnsupportedMetric    = errors.New("unsupported metric")
	ErrUnsupportedDimension = errors.New("unsupported dimension")
	ErrInvalidGranularity   = errors.New("invalid granularity")
	ErrUnknownPredicate     = errors.New("unknown predicate")
	ErrRecordSource         = errors.New("record source failure")
	ErrNotImplemented       = errors.New("not implemented")

	ErrUnknownSection   = errors.New("unknown section")
	ErrUnknownComponent = errors.New("unknown component")
	ErrInvalidRange     = errors.New("invalid date range")
)
