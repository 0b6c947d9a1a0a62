package aggregator

import (
	"fmt"

	"statistics-aggregator/internal/domain"
)

// Extractor reads the field a predicate kind compares against.
type Extractor func(record domain.Record) domain.Value

// Predicates evaluates filter tokens against records through an explicit
// dispatch table.
type Predicates struct {
	extractors map[domain.PredicateKind]Extractor
}

// NewPredicates builds a combinator over the provided extractors.
func NewPredicates(extractors map[domain.PredicateKind]Extractor) *Predicates {
	copied := make(map[domain.PredicateKind]Extractor, len(extractors))
	for kind, extractor := range extractors {
		copied[kind] = extractor
	}
	return &Predicates{extractors: copied}
}

// Supports reports whether kind has a registered extractor.
func (p *Predicates) Supports(kind domain.PredicateKind) bool {
	_, ok := p.extractors[kind]
	return ok
}

// Validate fails with ErrUnknownPredicate for any non-nil filter without an
// extractor.
func (p *Predicates) Validate(filters ...*domain.Filter) error {
	for _, filter := range filters {
		if filter == nil {
			continue
		}
		if !p.Supports(filter.Kind) {
			return fmt.Errorf("%w: %q", domain.ErrUnknownPredicate, filter.Kind)
		}
	}
	return nil
}

// Evaluate applies up to two filters starting from an accepted state.
func (p *Predicates) Evaluate(record domain.Record, f1, f2 *domain.Filter) (bool, error) {
	return p.Accumulate(true, record, f1, f2)
}

// Accumulate folds filters over a running acceptance value. Each filter sees
// the value produced by the previous one; once false it stays false.
func (p *Predicates) Accumulate(accepted bool, record domain.Record, filters ...*domain.Filter) (bool, error) {
	if err := p.Validate(filters...); err != nil {
		return false, err
	}

	for _, filter := range filters {
		if filter == nil {
			continue
		}
		accepted = p.apply(accepted, record, filter)
	}
	return accepted, nil
}

func (p *Predicates) apply(current bool, record domain.Record, filter *domain.Filter) bool {
	if !current {
		return false
	}
	actual := p.extractors[filter.Kind](record)
	return actual.Equal(filter.Expected)
}
