package statistics

import (
	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/domain"
)

// Record attribute names.
const (
	AttrState              = "state"
	AttrInviter            = "inviter_account_id"
	AttrRegistrationSource = "registration_source"
	AttrCountry            = "country_code"
	AttrApple              = "is_apple"
	AttrCode               = "code"
	AttrMagazine           = "magazine"
	AttrIssue              = "issue"
	AttrEvent              = "event"
)

// Attribute values with a fixed meaning.
const (
	StateActive   = "active"
	SourceApp     = "app"
	SourceWeb     = "web"
	EventRead     = "read"
	EventDownload = "download"
)

// DefaultExtractors maps every predicate kind onto the record attribute it
// compares. has_inviter yields whether an inviter is present.
func DefaultExtractors() map[domain.PredicateKind]aggregator.Extractor {
	return map[domain.PredicateKind]aggregator.Extractor{
		domain.PredicateHasInviter: func(r domain.Record) domain.Value {
			return domain.Bool(!r.Attr(AttrInviter).IsNull())
		},
		domain.PredicateHasSource:       attribute(AttrRegistrationSource),
		domain.PredicateHasCountry:      attribute(AttrCountry),
		domain.PredicateHasDevice:       attribute(AttrApple),
		domain.PredicateHasSubscription: attribute(AttrCode),
		domain.PredicateHasMagazine:     attribute(AttrMagazine),
		domain.PredicateHasIssue:        attribute(AttrIssue),
	}
}

func attribute(name string) aggregator.Extractor {
	return func(r domain.Record) domain.Value {
		return r.Attr(name)
	}
}

func attributeEquals(name string, expected domain.Value) func(domain.Record) bool {
	return func(r domain.Record) bool {
		return r.Attr(name).Equal(expected)
	}
}

func always(domain.Record) bool { return true }
