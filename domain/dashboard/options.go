package dashboard

import (
	"fmt"
	"slices"

	"geoeconomia/domain/economy"

	lo "github.com/samber/lo"
)

// Options lists what can be picked on a page for one dimension.
type Options struct {
	Page       economy.Source   `json:"page"`
	Dimension  economy.Column   `json:"dimension"`
	Dimensions []economy.Column `json:"dimensions"`
	Metrics    []MetricOption   `json:"metrics"`
	Values     []string         `json:"values"`
	// Selected is the initial selection.
	Selected []string `json:"selected"`
}

type MetricOption struct {
	ID    Metric `json:"id"`
	Label string `json:"label"`
}

// Options returns the dropdown content of a page. An empty dimension means
// the page's first one.
func (s *Service) Options(page economy.Source, d economy.Column) (Options, error) {
	dims, ok := dimensions[page]
	if !ok {
		return Options{}, fmt.Errorf("%w: unknown page %q", ErrInvalidQuery, page)
	}
	if d == "" {
		d = dims[0]
	}
	if !slices.Contains(dims, d) {
		return Options{}, fmt.Errorf("%w: %s on %s", ErrUnsupportedDimension, d, page)
	}
	values := s.data.Table(page).Values(d)
	if values == nil {
		values = []string{}
	}
	selected := lo.Filter(s.defaults[string(d)], func(v string, _ int) bool {
		_, found := slices.BinarySearch(values, v)
		return found
	})
	if selected == nil {
		selected = []string{}
	}
	return Options{
		Page:       page,
		Dimension:  d,
		Dimensions: dims,
		Metrics: lo.Map(metricOrder[page], func(m Metric, _ int) MetricOption {
			return MetricOption{ID: m, Label: catalog[page][m].label}
		}),
		Values:   values,
		Selected: selected,
	}, nil
}
