package dashboard

import (
	"fmt"
	"slices"

	"geoeconomia/domain/aggregate"
	"geoeconomia/domain/economy"
	"geoeconomia/domain/hierarchy"
	"geoeconomia/domain/ratio"

	lo "github.com/samber/lo"
)

const (
	aggCompanies     = "companies"
	aggParticipation = "participation"
	aggProfit        = "profit"
	aggPopulation    = "population"
	aggPopulationPct = "population_pct"
	aggActivities    = "activities"
	aggDistricts     = "districts"
)

// aggs is computed for every group of every view; views only differ in
// which values they read and derive.
var aggs = []aggregate.Agg{
	aggregate.Sum(aggCompanies, economy.Companies),
	aggregate.Sum(aggParticipation, economy.Participation),
	aggregate.Sum(aggProfit, economy.Profit),
	aggregate.SumPerDistrict(aggPopulation, economy.Population),
	aggregate.SumPerDistrict(aggPopulationPct, economy.PopulationPct),
	aggregate.CountDistinct(aggActivities, economy.Activity),
	aggregate.CountDistinct(aggDistricts, economy.District),
}

// totals are the national figures from the unfiltered table.
type totals struct {
	companies  float64
	population float64
}

func totalsOf(t *economy.Table) totals {
	v := aggregate.Total(t, aggs[0], aggs[3])
	return totals{companies: v[aggCompanies], population: v[aggPopulation]}
}

type derive func(v aggregate.Values, t totals) float64

func field(name string) derive {
	return func(v aggregate.Values, _ totals) float64 { return v[name] }
}

// measure is a numeric table column and how to compute it from a group.
type measure struct {
	id     string
	name   string
	format *Format
	derive derive
}

func (m measure) bind(t totals) hierarchy.ValueFunc {
	return func(v aggregate.Values) float64 { return m.derive(v, t) }
}

func (m measure) column() Column {
	return Column{Name: m.name, ID: m.id, Type: "numeric", Format: m.format}
}

var (
	mCompanies = measure{"companies", "CANTIDAD", countFormat, field(aggCompanies)}
	mShare     = measure{"participation", "GANANCIAS (%)", percentFormat, field(aggParticipation)}
	mProfit    = measure{"profit", "GANANCIA (Gs)", countFormat, field(aggProfit)}
	mCompShare = measure{"companies_pct", "EMPRESAS (%)", percentFormat, func(v aggregate.Values, t totals) float64 {
		return ratio.Share(v[aggCompanies], t.companies)
	}}
	mProfitability = measure{"profitability", "RELACION", indexFormat, func(v aggregate.Values, t totals) float64 {
		return ratio.Profitability(v[aggParticipation], v[aggCompanies], t.companies)
	}}
	mPopulation    = measure{"population", "POBLACION", countFormat, field(aggPopulation)}
	mPopulationPct = measure{"population_pct", "POBLACION (%)", percentFormat, field(aggPopulationPct)}
	mDensity       = measure{"density", "RELACION", densityFormat, func(v aggregate.Values, _ totals) float64 {
		return ratio.Density(v[aggCompanies], v[aggPopulation])
	}}
	mProfitPerPopulation = measure{"profit_per_population", "RELACION", indexFormat, func(v aggregate.Values, t totals) float64 {
		return ratio.ProfitPerPopulation(v[aggParticipation], v[aggPopulation], t.population)
	}}
	mActivities = measure{"activities", "CANTIDAD DE ACTIVIDADES", countFormat, field(aggActivities)}
	mDistricts  = measure{"districts", "DISTRITOS", countFormat, field(aggDistricts)}
)

// view is one entry of the catalog. tree and table receive the query
// dimension and return the group-by columns.
type view struct {
	label     string
	title     string // %s is the selection
	barsTitle string
	value     measure
	tree      func(d economy.Column) []economy.Column
	root      func(d economy.Column) bool
	// series splits every bar by a second category.
	series  economy.Column
	table   func(d economy.Column) []economy.Column
	columns []measure
	// dropSentinels removes rows whose grouping labels stand for missing
	// data; exclude adds columns checked beyond the grouping ones.
	dropSentinels bool
	exclude       []economy.Column
}

func (v view) excluded(d economy.Column) []economy.Column {
	cols := append(slices.Clone(v.tree(d)), v.table(d)...)
	return lo.Uniq(append(cols, v.exclude...))
}

func (v view) tableColumns(d economy.Column) []Column {
	out := make([]Column, 0, len(v.table(d))+len(v.columns))
	for _, c := range v.table(d) {
		out = append(out, Column{Name: columnNames[c], ID: string(c)})
	}
	for _, m := range v.columns {
		out = append(out, m.column())
	}
	return out
}

var columnNames = map[economy.Column]string{
	economy.Country:    "PAIS",
	economy.Department: "DEPARTAMENTO",
	economy.District:   "DISTRITO",
	economy.Section:    "SECCION",
	economy.Division:   "DIVISION",
	economy.Activity:   "ACTIVIDAD PRINCIPAL",
}

var classification = []economy.Column{economy.Section, economy.Division, economy.Activity}

// below returns the dimension followed by the given levels.
func below(levels ...economy.Column) func(economy.Column) []economy.Column {
	return func(d economy.Column) []economy.Column {
		return append([]economy.Column{d}, levels...)
	}
}

// territory is below for the territorial page: a district is only
// identified together with its department.
func territory(levels ...economy.Column) func(economy.Column) []economy.Column {
	return func(d economy.Column) []economy.Column {
		if d == economy.District {
			return append([]economy.Column{economy.Department, economy.District}, levels...)
		}
		return append([]economy.Column{d}, levels...)
	}
}

func fixed(levels ...economy.Column) func(economy.Column) []economy.Column {
	return func(economy.Column) []economy.Column { return levels }
}

// classificationFrom returns the classification levels from d downwards.
func classificationFrom(d economy.Column) []economy.Column {
	i := slices.Index(classification, d)
	if i < 0 {
		return []economy.Column{d}
	}
	return classification[i:]
}

func onDepartment(d economy.Column) bool { return d == economy.Department }

var dimensions = map[economy.Source][]economy.Column{
	economy.Territorial: {economy.Department, economy.District},
	economy.Activities:  classification,
}

var metricOrder = map[economy.Source][]Metric{
	economy.Territorial: {Companies, ProfitShare, Profitability, Density, ProfitPerPopulation, ActivityBreadth},
	economy.Activities:  {Companies, ProfitShare, Profitability, CompaniesByLevel, ProfitByLevel, DistrictReach},
}

var catalog = map[economy.Source]map[Metric]view{
	economy.Territorial: {
		Companies: {
			label:     "Cantidad de empresas por sector en cada territorio",
			title:     "Cantidad de empresas por sector en %s",
			barsTitle: "Cantidad de empresas por sector",
			value:     mCompanies,
			tree:      territory(classification...),
			series:    economy.Section,
			table:     territory(),
			columns:   []measure{mCompanies},
		},
		ProfitShare: {
			label:     "Participación de ganancias por sector en cada territorio",
			title:     "Participación de ganancias por sector en %s",
			barsTitle: "Participación de ganancias por sector",
			value:     mShare,
			tree:      territory(classification...),
			series:    economy.Section,
			table:     territory(),
			columns:   []measure{mShare},
		},
		Profitability: {
			label:     "Participación de ganancias/empresas en cada territorio",
			title:     "Rentabilidad de las empresas por sector en %s",
			barsTitle: "Rentabilidad de las empresas",
			value:     mProfitability,
			tree:      territory(classification...),
			table:     territory(),
			columns:   []measure{mShare, mCompShare, mProfitability},
		},
		Density: {
			label:     "Cantidad de empresas/población en cada territorio",
			title:     "Cantidad de empresas por cada habitante en %s",
			barsTitle: "Cantidad de empresas por cada habitante",
			value:     mDensity,
			tree:      fixed(economy.Department, economy.District),
			root:      onDepartment,
			table:     territory(),
			columns:   []measure{mCompanies, mPopulation, mDensity},
		},
		ProfitPerPopulation: {
			label:     "Participación de ganancias/población en cada territorio",
			title:     "Participación de ganancias por habitante en %s",
			barsTitle: "Participación de ganancias por habitante",
			value:     mProfitPerPopulation,
			tree:      fixed(economy.Department, economy.District),
			root:      onDepartment,
			table:     territory(),
			columns:   []measure{mShare, mPopulation, mPopulationPct, mProfitPerPopulation},
		},
		ActivityBreadth: {
			label:     "Cantidad de actividades por cada territorio",
			title:     "Cantidad de actividades económicas desarrolladas en %s",
			barsTitle: "Cantidad de actividades económicas desarrolladas",
			value:     mActivities,
			tree:      fixed(economy.Department, economy.District),
			root:      onDepartment,
			table:     territory(),
			columns:   []measure{mActivities},
		},
	},
	economy.Activities: {
		Companies: {
			label:     "Distribución de actividades por territorio según cantidad de empresas",
			title:     "Cantidad de empresas por territorio en %s",
			barsTitle: "Cantidad de empresas",
			value:     mCompanies,
			tree:      below(economy.Department, economy.District),
			table:     below(economy.Department, economy.District),
			columns:   []measure{mCompanies},
		},
		ProfitShare: {
			label:     "Distribución de ganancias según actividad económica y territorio",
			title:     "Participación de ganancias por territorio en %s",
			barsTitle: "Participación de ganancias",
			value:     mShare,
			tree:      below(economy.Department, economy.District),
			table:     below(economy.Department, economy.District),
			columns:   []measure{mShare},
		},
		Profitability: {
			label:     "Distribución de ganancias/empresas según actividad económica",
			title:     "Rentabilidad por territorio en %s",
			barsTitle: "Rentabilidad de las empresas",
			value:     mProfitability,
			tree:      below(economy.Department, economy.District),
			table:     below(),
			columns:   []measure{mShare, mCompShare, mProfitability},
		},
		CompaniesByLevel: {
			label:         "Cantidad de empresas por niveles de actividad económica",
			title:         "Cantidad de empresas por nivel de actividad en %s",
			barsTitle:     "Cantidad de empresas",
			value:         mCompanies,
			tree:          classificationFrom,
			table:         below(),
			columns:       []measure{mCompanies},
			dropSentinels: true,
		},
		ProfitByLevel: {
			label:         "Ganancias por niveles de actividad económica",
			title:         "Ganancias por nivel de actividad en %s",
			barsTitle:     "Ganancias",
			value:         mProfit,
			tree:          classificationFrom,
			table:         below(),
			columns:       []measure{mProfit},
			dropSentinels: true,
		},
		DistrictReach: {
			label:         "Cantidad de distritos por actividad económica",
			title:         "Cantidad de distritos por actividad en %s",
			barsTitle:     "Cantidad de distritos",
			value:         mDistricts,
			tree:          below(economy.Department),
			table:         below(),
			columns:       []measure{mDistricts},
			dropSentinels: true,
			exclude:       []economy.Column{economy.District},
		},
	},
}

// legacyMetrics maps the single letter selectors of the first dashboard
// onto metrics, in menu order.
var legacyMetrics = []string{"a", "b", "c", "d", "e", "f"}

func normalizeMetric(page economy.Source, m Metric) Metric {
	if i := slices.Index(legacyMetrics, string(m)); i >= 0 && i < len(metricOrder[page]) {
		return metricOrder[page][i]
	}
	return m
}

func lookup(page economy.Source, d economy.Column, m Metric) (view, error) {
	views, ok := catalog[page]
	if !ok {
		return view{}, fmt.Errorf("%w: unknown page %q", ErrInvalidQuery, page)
	}
	if !slices.Contains(dimensions[page], d) {
		return view{}, fmt.Errorf("%w: %s on %s", ErrUnsupportedDimension, d, page)
	}
	v, ok := views[m]
	if !ok {
		return view{}, fmt.Errorf("%w: %q on %s", ErrUnknownMetric, m, page)
	}
	return v, nil
}
