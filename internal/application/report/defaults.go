package report

import (
	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/application/statistics"
	"statistics-aggregator/internal/domain"
)

// Section ids.
const (
	SectionUsers  = "users"
	SectionIssues = "magissue"
	SectionSubs   = "subs"
)

// Engines bundles the per-source engines the default sections are built on.
type Engines struct {
	Users         *aggregator.Engine
	Issues        *aggregator.Engine
	Subscriptions *aggregator.Engine
}

// DefaultSections returns the users, magazine issue and subscription sections.
func DefaultSections(engines Engines, axis aggregator.AxisSwitch) []*Section {
	totalShadow := domain.Metric{
		ID:        statistics.UsersTotal,
		Label:     "Created Accounts count",
		ValueType: domain.ValueRelative,
	}

	return []*Section{
		{
			ID:      SectionUsers,
			Caption: "Users",
			Engine:  engines.Users,
			Metrics: []string{statistics.UsersActive, statistics.UsersTotal},
			Dimensions: []string{
				statistics.DimensionUserReferral,
				statistics.DimensionUserSource,
				statistics.DimensionUserCountry,
			},
			Shadows: map[string][]domain.Metric{
				statistics.UsersActive: {totalShadow},
			},
			Axis: axis,
		},
		{
			ID:      SectionIssues,
			Caption: "Magazine issues",
			Engine:  engines.Issues,
			Metrics: []string{statistics.IssuesRead, statistics.IssuesDownloaded},
			Dimensions: []string{
				statistics.DimensionIssueDevice,
				statistics.DimensionIssueCountry,
				statistics.DimensionIssueSubscription,
				statistics.DimensionIssueMagazine,
				statistics.DimensionIssueMagazineIssue,
			},
			Axis: axis,
		},
		{
			ID:      SectionSubs,
			Caption: "Subscriptions",
			Engine:  engines.Subscriptions,
			Metrics: []string{statistics.SubscriptionsNew},
			Dimensions: []string{
				statistics.DimensionSubsDevice,
				statistics.DimensionSubsCountry,
				statistics.DimensionSubsSubscription,
			},
			Axis: axis,
		},
	}
}
