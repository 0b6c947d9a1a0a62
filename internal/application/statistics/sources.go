package statistics

import (
	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/domain"
)

// Data source names.
const (
	SourceUsers         = "user"
	SourceSubscriptions = "subscription"
	SourceIssues        = "magazineIssue"
)

// Metric ids.
const (
	UsersActive      = "USERS_ACTIVE"
	UsersTotal       = "USERS_TOTAL"
	SubscriptionsNew = "SUBSCRIPTIONS_NEW"
	IssuesRead       = "ISSUES_READ"
	IssuesDownloaded = "ISSUES_DOWNLOADED"
)

// Dimension ids.
const (
	DimensionUserReferral = "user_referral"
	DimensionUserSource   = "user_source"
	DimensionUserCountry  = "user_country"

	DimensionSubsDevice       = "subscription_device"
	DimensionSubsCountry      = "subscription_country"
	DimensionSubsSubscription = "subscription_subscription"

	DimensionIssueDevice        = "issue_device"
	DimensionIssueCountry       = "issue_country"
	DimensionIssueSubscription  = "issue_subscription"
	DimensionIssueMagazine      = "issue_magazine"
	DimensionIssueMagazineIssue = "issue_magazine_issue"
)

// NewUsers counts account records.
func NewUsers(reader domain.RecordReader) *Source {
	predicates := aggregator.NewPredicates(DefaultExtractors())

	metrics := []MetricDefinition{
		{
			Metric: domain.Metric{
				ID:          UsersActive,
				Label:       "Active Users count",
				Description: "Count of users who have successfully completed account activation",
				ValueType:   domain.ValueAbsolute,
			},
			Match: attributeEquals(AttrState, domain.String(StateActive)),
		},
		{
			Metric: domain.Metric{
				ID:          UsersTotal,
				Label:       "Created Accounts count",
				Description: "Count of users who created an account",
				ValueType:   domain.ValueAbsolute,
			},
			Match: always,
		},
	}

	dimensions := []DimensionDefinition{
		{
			Dimension: domain.Dimension{ID: DimensionUserReferral, Label: "Referral users"},
			Catalog: StaticCatalog(domain.PredicateHasInviter,
				StaticItem{Expected: domain.Bool(true), Label: "Invited users"},
				StaticItem{Expected: domain.Bool(false), Label: "Non-invited users"},
			),
		},
		{
			Dimension: domain.Dimension{ID: DimensionUserSource, Label: "Source of users"},
			Catalog: StaticCatalog(domain.PredicateHasSource,
				StaticItem{Expected: domain.String(SourceApp), Label: "Mobile App"},
				StaticItem{Expected: domain.String(SourceWeb), Label: "Microsite"},
			),
		},
		{
			Dimension: domain.Dimension{ID: DimensionUserCountry, Label: "Country of origin"},
			Catalog:   DistinctCatalog(reader, domain.KindAccount, AttrCountry, domain.PredicateHasCountry, true),
		},
	}

	return NewSource(SourceUsers, domain.KindAccount, reader, predicates, metrics, dimensions)
}

// NewSubscriptions counts newly started subscriptions.
func NewSubscriptions(reader domain.RecordReader) *Source {
	predicates := aggregator.NewPredicates(DefaultExtractors())

	metrics := []MetricDefinition{
		{
			Metric: domain.Metric{
				ID:          SubscriptionsNew,
				Label:       "New subscriptions",
				Description: "Count of purchased new subscriptions",
				ValueType:   domain.ValueAbsolute,
			},
			Match: always,
		},
	}

	dimensions := []DimensionDefinition{
		{
			Dimension: domain.Dimension{ID: DimensionSubsDevice, Label: "Platform"},
			Catalog:   deviceCatalog(),
		},
		{
			Dimension: domain.Dimension{ID: DimensionSubsCountry, Label: "Country"},
			Catalog:   DistinctCatalog(reader, domain.KindSubscription, AttrCountry, domain.PredicateHasCountry, true),
		},
		{
			Dimension: domain.Dimension{ID: DimensionSubsSubscription, Label: "Subscription"},
			Catalog:   DistinctCatalog(reader, domain.KindSubscription, AttrCode, domain.PredicateHasSubscription, false),
		},
	}

	return NewSource(SourceSubscriptions, domain.KindSubscription, reader, predicates, metrics, dimensions)
}

// NewIssues counts magazine issue reads and downloads.
func NewIssues(reader domain.RecordReader) *Source {
	predicates := aggregator.NewPredicates(DefaultExtractors())

	metrics := []MetricDefinition{
		{
			Metric: domain.Metric{
				ID:          IssuesRead,
				Label:       "Magazine issues read",
				Description: "Count of magazine issues that have been read",
				ValueType:   domain.ValueAbsolute,
			},
			Match: attributeEquals(AttrEvent, domain.String(EventRead)),
		},
		{
			Metric: domain.Metric{
				ID:          IssuesDownloaded,
				Label:       "Magazine issues downloaded",
				Description: "Count of magazine issues that have been downloaded",
				ValueType:   domain.ValueAbsolute,
			},
			Match: attributeEquals(AttrEvent, domain.String(EventDownload)),
		},
	}

	dimensions := []DimensionDefinition{
		{
			Dimension: domain.Dimension{ID: DimensionIssueDevice, Label: "Platform"},
			Catalog:   deviceCatalog(),
		},
		{
			Dimension: domain.Dimension{ID: DimensionIssueCountry, Label: "Country"},
			Catalog:   DistinctCatalog(reader, domain.KindIssue, AttrCountry, domain.PredicateHasCountry, true),
		},
		{
			Dimension: domain.Dimension{ID: DimensionIssueSubscription, Label: "Subscription"},
			Catalog:   DistinctCatalog(reader, domain.KindIssue, AttrCode, domain.PredicateHasSubscription, false),
		},
		{
			Dimension: domain.Dimension{ID: DimensionIssueMagazine, Label: "Magazine"},
			Catalog:   DistinctCatalog(reader, domain.KindIssue, AttrMagazine, domain.PredicateHasMagazine, false),
		},
		{
			Dimension: domain.Dimension{ID: DimensionIssueMagazineIssue, Label: "Magazine issue"},
			Catalog:   DistinctCatalog(reader, domain.KindIssue, AttrIssue, domain.PredicateHasIssue, false),
		},
	}

	return NewSource(SourceIssues, domain.KindIssue, reader, predicates, metrics, dimensions)
}
