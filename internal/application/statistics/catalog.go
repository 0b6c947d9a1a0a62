package statistics

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"statistics-aggregator/internal/domain"
)

// UnknownLabel is shown for items matching records without the attribute.
const UnknownLabel = "Unknown"

// StaticItem is one fixed catalog entry.
type StaticItem struct {
	Expected domain.Value
	Label    string
}

// StaticCatalog returns the same items on every call.
func StaticCatalog(kind domain.PredicateKind, items ...StaticItem) Catalog {
	resolved := lo.Map(items, func(item StaticItem, _ int) domain.DimensionItem {
		return domain.DimensionItem{
			Filter: domain.NewFilter(kind, item.Expected),
			Value:  item.Label,
		}
	})
	return func(context.Context) ([]domain.DimensionItem, error) {
		return resolved, nil
	}
}

// DistinctCatalog builds one item per distinct attribute value found in the
// store. Null values become an Unknown item when keepUnknown is set and are
// skipped otherwise.
func DistinctCatalog(reader domain.RecordReader, recordKind, attribute string, kind domain.PredicateKind, keepUnknown bool) Catalog {
	return func(ctx context.Context) ([]domain.DimensionItem, error) {
		values, err := reader.Distinct(ctx, recordKind, attribute)
		if err != nil {
			return nil, fmt.Errorf("distinct %s.%s: %w", recordKind, attribute, err)
		}

		values = lo.Uniq(values)
		if !keepUnknown {
			values = lo.Reject(values, func(v domain.Value, _ int) bool { return v.IsNull() })
		}

		return lo.Map(values, func(v domain.Value, _ int) domain.DimensionItem {
			label := v.Text()
			if v.IsNull() {
				label = UnknownLabel
			}
			return domain.DimensionItem{Filter: domain.NewFilter(kind, v), Value: label}
		}), nil
	}
}

func deviceCatalog() Catalog {
	return StaticCatalog(domain.PredicateHasDevice,
		StaticItem{Expected: domain.Int(1), Label: "iOS"},
		StaticItem{Expected: domain.Int(0), Label: "Android"},
		StaticItem{Expected: domain.Null(), Label: UnknownLabel},
	)
}
