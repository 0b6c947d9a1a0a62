package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PredicateKind names a record extractor used to evaluate a filter.
type PredicateKind string

const (
	PredicateHasInviter      PredicateKind = "has_inviter"
	PredicateHasSource       PredicateKind = "has_source"
	PredicateHasCountry      PredicateKind = "has_country"
	PredicateHasDevice       PredicateKind = "has_device"
	PredicateHasSubscription PredicateKind = "has_subscription"
	PredicateHasMagazine     PredicateKind = "has_magazine"
	PredicateHasIssue        PredicateKind = "has_issue"
)

// Filter is the opaque token carried by a dimension item. A nil *Filter means
// no filtering.
type Filter struct {
	Kind     PredicateKind `json:"kind"`
	Expected Value         `json:"value"`
}

// NewFilter builds a filter token for kind expecting value.
func NewFilter(kind PredicateKind, expected Value) *Filter {
	return &Filter{Kind: kind, Expected: expected}
}

// Key returns a canonical representation used in cache keys. Values of
// different kinds never collide.
func (f *Filter) Key() string {
	if f == nil {
		return "-"
	}
	var tag string
	switch f.Expected.kind {
	case kindString:
		tag = "s"
	case kindInt:
		tag = "i"
	case kindBool:
		tag = "b"
	default:
		tag = "n"
	}
	return fmt.Sprintf("%s=%s:%s", f.Kind, tag, f.Expected.Text())
}

// Encode serializes the token for transport.
func (f *Filter) Encode() string {
	if f == nil {
		return ""
	}
	data, err := json.Marshal(f)
	if err != nil {
		return ""
	}
	return string(data)
}

// ParseFilter decodes a token produced by Encode. An empty string yields nil.
func ParseFilter(token string) (*Filter, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}

	var filter Filter
	if err := json.Unmarshal([]byte(token), &filter); err != nil {
		return nil, fmt.Errorf("%w: decode token: %v", ErrUnknownPredicate, err)
	}
	if filter.Kind == "" {
		return nil, fmt.Errorf("%w: empty kind", ErrUnknownPredicate)
	}
	return &filter, nil
}
