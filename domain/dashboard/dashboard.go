// Package dashboard maps a (page, dimension, selection, metric) query onto
// the payloads the dashboard draws: a treemap, a ranked bar chart, a table
// and an explanatory text.
//
// Every payload is derived from the selected subset of the page's fact
// table. The unfiltered table is only used for national totals, the
// denominators of the share based indices.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dc "geoeconomia/domain/config"
	"geoeconomia/domain/economy"
	"geoeconomia/domain/hierarchy"

	lo "github.com/samber/lo"
)

var (
	ErrInvalidQuery         = errors.New("invalid query")
	ErrUnsupportedDimension = errors.New("dimension not available on this page")
	ErrUnknownMetric        = errors.New("unknown metric")
)

// Metric selects one view of a page.
type Metric string

const (
	Companies           Metric = "companies"
	ProfitShare         Metric = "profit_share"
	Profitability       Metric = "profitability"
	Density             Metric = "density"
	ProfitPerPopulation Metric = "profit_per_population"
	ActivityBreadth     Metric = "activity_breadth"
	CompaniesByLevel    Metric = "companies_by_level"
	ProfitByLevel       Metric = "profit_by_level"
	DistrictReach       Metric = "district_reach"
)

// Query is one dashboard interaction.
type Query struct {
	Page      economy.Source `json:"page" query:"page" validate:"required,oneof=territorial activities"`
	Dimension economy.Column `json:"dimension" query:"dimension" validate:"required,oneof=department district section division activity"`
	Selected  []string       `json:"selected" query:"selected" validate:"max=1000,dive,max=256"`
	Metric    Metric         `json:"metric" query:"metric" validate:"required,max=64"`
}

// Result is the full payload of one interaction. Slices are never nil so
// an empty selection still encodes as empty JSON arrays.
type Result struct {
	Treemap     Treemap          `json:"treemap"`
	Bars        Bars             `json:"bars"`
	Columns     []Column         `json:"columns"`
	Rows        []map[string]any `json:"rows"`
	Explanation string           `json:"explanation"`
}

// Treemap is a parent/child edge list. IDs are node indices; Parents holds
// "" for top-level nodes.
type Treemap struct {
	Title   string    `json:"title"`
	IDs     []string  `json:"ids"`
	Labels  []string  `json:"labels"`
	Parents []string  `json:"parents"`
	Values  []float64 `json:"values"`
	Text    []string  `json:"text"`
}

// Bars is a ranked bar chart. Series is set when bars are split by a
// second category (one entry per bar).
type Bars struct {
	Title  string    `json:"title"`
	X      []string  `json:"x"`
	Y      []float64 `json:"y"`
	Series []string  `json:"series,omitempty"`
}

// Table is a column/row payload.
type Table struct {
	Columns []Column         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// Service answers dashboard queries over an immutable dataset. It is safe
// for concurrent use.
type Service struct {
	data         *economy.Dataset
	topN         int
	country      string
	sentinels    []string
	defaults     map[string][]string
	explanations map[string]string
}

func NewService(data *economy.Dataset, cfg dc.Dashboard) *Service {
	s := &Service{
		data:         data,
		topN:         cfg.TopN,
		country:      cfg.Country,
		sentinels:    cfg.Sentinels,
		defaults:     cfg.Defaults,
		explanations: cfg.Explanations,
	}
	if s.topN <= 0 {
		s.topN = 20
	}
	if len(s.sentinels) == 0 && data != nil {
		s.sentinels = data.Sentinels
	}
	return s
}

// Render computes the payloads of one query.
func (s *Service) Render(ctx context.Context, q Query) (Result, error) {
	q.Metric = normalizeMetric(q.Page, q.Metric)
	if err := check(q); err != nil {
		return Result{}, err
	}
	v, err := lookup(q.Page, q.Dimension, q.Metric)
	if err != nil {
		return Result{}, err
	}

	full := s.data.Table(q.Page)
	tot := totalsOf(full)
	sub := full.Filter(q.Dimension, q.Selected)
	if v.dropSentinels {
		for _, c := range v.excluded(q.Dimension) {
			sub = sub.Exclude(c, s.sentinels...)
		}
	}

	res := Result{
		Treemap:     newTreemap(fmt.Sprintf(v.title, selection(q.Selected))),
		Bars:        newBars(v.barsTitle),
		Columns:     v.tableColumns(q.Dimension),
		Rows:        []map[string]any{},
		Explanation: s.Explanation(q.Page, q.Metric),
	}
	if sub.Len() == 0 {
		return res, nil
	}

	root := ""
	if v.root != nil && v.root(q.Dimension) {
		root = s.country
	}
	tr, err := hierarchy.Build(ctx, sub, hierarchy.Spec{
		Levels: v.tree(q.Dimension),
		Aggs:   aggs,
		Value:  v.value.bind(tot),
		Root:   root,
	})
	if err != nil {
		return Result{}, err
	}
	res.Treemap.fill(tr, v.value.format)
	res.Bars = s.bars(sub, q.Dimension, v, tot)
	res.Rows = tableRows(sub, v.table(q.Dimension), v.columns, v.value, tot, 0)
	return res, nil
}

// Explanation returns the text shown next to a view.
func (s *Service) Explanation(page economy.Source, m Metric) string {
	k := string(page) + "." + string(m)
	if t, ok := s.explanations[k]; ok && t != "" {
		return t
	}
	return explanations[k]
}

func newTreemap(title string) Treemap {
	return Treemap{
		Title:   title,
		IDs:     []string{},
		Labels:  []string{},
		Parents: []string{},
		Values:  []float64{},
		Text:    []string{},
	}
}

func newBars(title string) Bars {
	return Bars{Title: title, X: []string{}, Y: []float64{}}
}

func selection(selected []string) string {
	if len(selected) == 0 {
		return "(sin selección)"
	}
	return strings.Join(lo.Uniq(selected), ", ")
}
