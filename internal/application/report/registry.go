package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"statistics-aggregator/internal/domain"
)

// ComponentKind is the suffix of a component name.
type ComponentKind string

const (
	KindChart    ComponentKind = "Chart"
	KindTable    ComponentKind = "Table"
	KindTableRow ComponentKind = "TableRow"
)

// ComponentName builds the route of a section component, e.g. usersChart.
func ComponentName(section string, kind ComponentKind) string {
	return section + string(kind)
}

type handler func(ctx context.Context, params Params, rng Range) (any, error)

// Registry owns the sections and the explicit component route table.
type Registry struct {
	sections []*Section
	byID     map[string]*Section
	routes   map[string]handler
	now      func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock overrides the clock used for default ranges.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry validates sections and builds their routes.
func NewRegistry(sections []*Section, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		byID:   make(map[string]*Section, len(sections)),
		routes: make(map[string]handler, 3*len(sections)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, section := range sections {
		section := section
		if err := section.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.byID[section.ID]; exists {
			return nil, fmt.Errorf("duplicate section %q", section.ID)
		}
		r.byID[section.ID] = section
		r.sections = append(r.sections, section)

		r.routes[ComponentName(section.ID, KindChart)] = func(ctx context.Context, params Params, rng Range) (any, error) {
			return section.Chart(ctx, params, rng)
		}
		r.routes[ComponentName(section.ID, KindTable)] = func(ctx context.Context, params Params, rng Range) (any, error) {
			return section.Table(ctx, params, rng)
		}
		r.routes[ComponentName(section.ID, KindTableRow)] = func(ctx context.Context, params Params, rng Range) (any, error) {
			return section.TableRowTimeline(ctx, params, rng)
		}
	}

	return r, nil
}

// Sections describes every section in registration order.
func (r *Registry) Sections() []SectionInfo {
	return lo.Map(r.sections, func(s *Section, _ int) SectionInfo {
		return s.Info()
	})
}

// Section looks a section up by id.
func (r *Registry) Section(id string) (*Section, error) {
	section, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSection, id)
	}
	return section, nil
}

// Components lists every routable component name.
func (r *Registry) Components() []string {
	names := lo.Keys(r.routes)
	sort.Strings(names)
	return names
}

// Serve resolves the component route and runs it with the resolved range.
func (r *Registry) Serve(ctx context.Context, component string, params Params) (any, error) {
	handle, ok := r.routes[strings.TrimSpace(component)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownComponent, component)
	}

	rng, err := ResolveRange(params, r.now())
	if err != nil {
		return nil, err
	}
	return handle(ctx, params, rng)
}
