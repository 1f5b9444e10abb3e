package dashboard

import (
	"context"
	"encoding/json"
	"testing"

	dc "geoeconomia/domain/config"
	"geoeconomia/domain/economy"

	lo "github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agricultura() []economy.Record {
	return []economy.Record{
		{Country: "PARAGUAY", Section: "Agricultura", Division: "Cultivo", Activity: "Soja", Department: "Central.", District: "Luque", MapKey: "CENTRAL", Companies: 3, Participation: 3, Contribution: 100, Population: 1000},
		{Country: "PARAGUAY", Section: "Agricultura", Division: "Cultivo", Activity: "Maiz", Department: "Central.", District: "Luque", MapKey: "CENTRAL", Companies: 2, Participation: 2, Contribution: 50, Population: 1000},
		{Country: "PARAGUAY", Section: "Agricultura", Division: "Cultivo", Activity: "Soja", Department: "Central.", District: "Limpio", MapKey: "CENTRAL", Companies: 4, Participation: 1, Contribution: 10, Population: 500},
		{Country: "PARAGUAY", Section: "Agricultura", Division: "Ganaderia", Activity: "Bovino", Department: "Itapua.", District: "Centro", MapKey: "ITAPUA", Companies: 7, Participation: 3, Contribution: 80, Population: 700},
		{Country: "PARAGUAY", Section: "Agricultura", Division: "Ganaderia", Activity: "Bovino", Department: "Central.", District: "Centro", MapKey: "CENTRAL", Companies: 1, Participation: 1, Contribution: 5, Population: 250},
	}
}

// national adds the rest of the country so that Agricultura holds 10% of
// the companies and 10% of the profit.
func national() []economy.Record {
	rows := agricultura()
	rows = append(rows,
		economy.Record{Country: "PARAGUAY", Section: "Comercio", Division: "Minorista", Activity: "Almacen", Department: "Central.", District: "Luque", MapKey: "CENTRAL", Companies: 100, Participation: 60, Contribution: 900, Population: 1000},
		economy.Record{Country: "PARAGUAY", Section: "Comercio", Division: "Desconocido", Activity: "Desconocido", Department: "Alto Parana.", District: "Hernandarias", MapKey: "ALTO PARANA", Companies: 53, Participation: 30, Contribution: 400, Population: 800},
	)
	return rows
}

func newTestService(rows []economy.Record) *Service {
	t := economy.NewTable(rows)
	ds := &economy.Dataset{Territorial: t, Activities: t, Sentinels: []string{"Desconocido", "Sin Datos"}}
	return NewService(ds, dc.Default().Dashboard)
}

func TestRender_AgriculturaCompaniesByTerritory(t *testing.T) {
	s := newTestService(agricultura())
	res, err := s.Render(context.Background(), Query{
		Page:      economy.Activities,
		Dimension: economy.Section,
		Selected:  []string{"Agricultura"},
		Metric:    Companies,
	})
	require.NoError(t, err)

	require.NotEmpty(t, res.Treemap.IDs)
	assert.Equal(t, "", res.Treemap.Parents[0])
	assert.Equal(t, "Agricultura", res.Treemap.Labels[0])
	assert.Equal(t, 17.0, res.Treemap.Values[0])
	assert.Equal(t, "17", res.Treemap.Text[0])

	// (Section, Department, District) triples
	assert.Len(t, res.Rows, 4)
	assert.Equal(t, map[string]any{"section": "Agricultura", "department": "Itapua.", "district": "Centro", "companies": 7.0}, res.Rows[0])

	assert.Equal(t, []string{"Agricultura"}, res.Bars.X)
	assert.Equal(t, []float64{17}, res.Bars.Y)
	assert.NotEmpty(t, res.Explanation)
}

func TestRender_TreemapLeavesSumToParents(t *testing.T) {
	s := newTestService(national())
	res, err := s.Render(context.Background(), Query{
		Page:      economy.Territorial,
		Dimension: economy.Department,
		Selected:  []string{"Central.", "Itapua."},
		Metric:    Companies,
	})
	require.NoError(t, err)

	children := map[string]float64{}
	hasChild := map[string]bool{}
	for i, p := range res.Treemap.Parents {
		if p != "" {
			children[p] += res.Treemap.Values[i]
			hasChild[p] = true
		}
	}
	for i, id := range res.Treemap.IDs {
		if hasChild[id] {
			assert.InDelta(t, res.Treemap.Values[i], children[id], 1e-9, res.Treemap.Labels[i])
		}
	}
}

func TestRender_EmptySelection(t *testing.T) {
	s := newTestService(national())
	for _, q := range []Query{
		{Page: economy.Territorial, Dimension: economy.Department, Metric: Profitability},
		{Page: economy.Territorial, Dimension: economy.District, Selected: []string{}, Metric: Density},
		{Page: economy.Activities, Dimension: economy.Activity, Metric: DistrictReach},
	} {
		res, err := s.Render(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, res.Treemap.IDs)
		assert.Empty(t, res.Bars.X)
		assert.NotEmpty(t, res.Columns)
		assert.NotEmpty(t, res.Explanation)

		b, err := json.Marshal(res.Rows)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(b))
	}
}

func TestRender_UnknownLabelMatchesNothing(t *testing.T) {
	s := newTestService(national())
	res, err := s.Render(context.Background(), Query{
		Page: economy.Activities, Dimension: economy.Section, Selected: []string{"Mineria"}, Metric: Companies,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}

func TestRender_ProfitabilityOfProportionalSector(t *testing.T) {
	s := newTestService(national())
	res, err := s.Render(context.Background(), Query{
		Page:      economy.Activities,
		Dimension: economy.Section,
		Selected:  []string{"Agricultura"},
		Metric:    Profitability,
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, res.Treemap.Values[0])
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 100.0, res.Rows[0]["profitability"])
	assert.Equal(t, 10.0, res.Rows[0]["companies_pct"])
	assert.Equal(t, 10.0, res.Rows[0]["participation"])
}

func TestRender_Idempotent(t *testing.T) {
	s := newTestService(national())
	q := Query{
		Page:      economy.Territorial,
		Dimension: economy.District,
		Selected:  []string{"Luque", "Centro", "Hernandarias"},
		Metric:    ProfitPerPopulation,
	}
	a, err := s.Render(context.Background(), q)
	require.NoError(t, err)
	b, err := s.Render(context.Background(), q)
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestRender_HomonymousDistrictsStayApart(t *testing.T) {
	s := newTestService(national())
	res, err := s.Render(context.Background(), Query{
		Page: economy.Territorial, Dimension: economy.District, Selected: []string{"Centro"}, Metric: Companies,
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Itapua.", res.Rows[0]["department"])
	assert.Equal(t, "Central.", res.Rows[1]["department"])
	assert.Equal(t, []string{"Itapua. / Centro", "Central. / Centro"}, res.Bars.X)
	assert.Equal(t, []string{"Agricultura", "Agricultura"}, res.Bars.Series)
}

func TestRender_DensityUsesPopulationOncePerDistrict(t *testing.T) {
	s := newTestService(national())
	res, err := s.Render(context.Background(), Query{
		Page: economy.Territorial, Dimension: economy.Department, Selected: []string{"Central."}, Metric: Density,
	})
	require.NoError(t, err)

	// PARAGUAY > Central. > {Centro, Limpio, Luque}
	assert.Equal(t, "PARAGUAY", res.Treemap.Labels[0])
	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, 1750.0, row["population"])
	assert.Equal(t, 110.0, row["companies"])
	assert.InDelta(t, 110.0/1750.0, row["density"], 1e-12)
}

func TestRender_ProfitPerPopulationShowsPopulationShare(t *testing.T) {
	rows := []economy.Record{
		{Country: "PARAGUAY", Section: "Agricultura", Division: "Cultivo", Activity: "Soja", Department: "Central.", District: "Luque", Companies: 3, Participation: 20, Population: 1000, PopulationPct: 40},
		{Country: "PARAGUAY", Section: "Comercio", Division: "Minorista", Activity: "Almacen", Department: "Central.", District: "Luque", Companies: 2, Participation: 10, Population: 1000, PopulationPct: 40},
		{Country: "PARAGUAY", Section: "Comercio", Division: "Minorista", Activity: "Almacen", Department: "Central.", District: "Limpio", Companies: 4, Participation: 30, Population: 500, PopulationPct: 20},
		{Country: "PARAGUAY", Section: "Comercio", Division: "Minorista", Activity: "Almacen", Department: "Itapua.", District: "Centro", Companies: 1, Participation: 40, Population: 1000, PopulationPct: 40},
	}
	s := newTestService(rows)
	res, err := s.Render(context.Background(), Query{
		Page: economy.Territorial, Dimension: economy.Department, Selected: []string{"Central."}, Metric: ProfitPerPopulation,
	})
	require.NoError(t, err)

	ids := lo.Map(res.Columns, func(c Column, _ int) string { return c.ID })
	assert.Equal(t, []string{"department", "participation", "population", "population_pct", "profit_per_population"}, ids)
	assert.Equal(t, "POBLACION (%)", res.Columns[3].Name)

	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	// Luque counts once
	assert.Equal(t, 60.0, row["population_pct"])
	assert.Equal(t, 1500.0, row["population"])
	// 60% of the profit over 60% of the population
	assert.InDelta(t, 1.0, row["profit_per_population"], 1e-12)
}

func TestRender_SentinelsDroppedFromLevelBreakdowns(t *testing.T) {
	s := newTestService(national())
	q := Query{Page: economy.Activities, Dimension: economy.Section, Selected: []string{"Comercio"}, Metric: CompaniesByLevel}
	res, err := s.Render(context.Background(), q)
	require.NoError(t, err)
	assert.NotContains(t, res.Treemap.Labels, "Desconocido")
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 100.0, res.Rows[0]["companies"])

	q.Metric = Companies
	res, err = s.Render(context.Background(), q)
	require.NoError(t, err)
	var total float64
	for _, r := range res.Rows {
		total += r["companies"].(float64)
	}
	assert.Equal(t, 153.0, total)
}

func TestRender_ProfitByLevelIsContributionTimesTen(t *testing.T) {
	s := newTestService(agricultura())
	res, err := s.Render(context.Background(), Query{
		Page: economy.Activities, Dimension: economy.Division, Selected: []string{"Ganaderia"}, Metric: ProfitByLevel,
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 850.0, res.Rows[0]["profit"])
	assert.Equal(t, "850", res.Treemap.Text[0])
}

func TestRender_LegacyMetricSelector(t *testing.T) {
	s := newTestService(national())
	res, err := s.Render(context.Background(), Query{
		Page: economy.Territorial, Dimension: economy.Department, Selected: []string{"Central."}, Metric: "f",
	})
	require.NoError(t, err)
	assert.Equal(t, s.Explanation(economy.Territorial, ActivityBreadth), res.Explanation)
}

func TestRender_InvalidQueries(t *testing.T) {
	s := newTestService(national())
	ctx := context.Background()

	_, err := s.Render(ctx, Query{Page: "home", Dimension: economy.Department, Metric: Companies})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = s.Render(ctx, Query{Page: economy.Territorial, Dimension: economy.Section, Metric: Companies})
	assert.ErrorIs(t, err, ErrUnsupportedDimension)

	_, err = s.Render(ctx, Query{Page: economy.Activities, Dimension: economy.Section, Metric: Density})
	assert.ErrorIs(t, err, ErrUnknownMetric)

	_, err = s.Render(ctx, Query{Page: economy.Activities, Dimension: economy.Section})
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Contains(t, err.Error(), "metric is required")
}

func TestRender_Cancelled(t *testing.T) {
	s := newTestService(national())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Render(ctx, Query{
		Page: economy.Activities, Dimension: economy.Section, Selected: []string{"Agricultura"}, Metric: Companies,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestColumns_FormatContract(t *testing.T) {
	s := newTestService(national())
	res, err := s.Render(context.Background(), Query{
		Page: economy.Activities, Dimension: economy.Section, Selected: []string{"Agricultura"}, Metric: Companies,
	})
	require.NoError(t, err)
	require.Len(t, res.Columns, 4)
	assert.Equal(t, Column{Name: "SECCION", ID: "section"}, res.Columns[0])
	assert.Equal(t, &Format{Group: true, GroupDelimiter: ",", Precision: 0, Scheme: "f", Specifier: ",.0f"}, res.Columns[3].Format)
	assert.Equal(t, "numeric", res.Columns[3].Type)
}

func TestFormat_Text(t *testing.T) {
	p := newPrinter()
	assert.Equal(t, "1,234,567", countFormat.format(p, 1234567))
	assert.Equal(t, "12.50", percentFormat.format(p, 12.5))
	assert.Equal(t, "0.0629", densityFormat.format(p, 110.0/1750.0))
}

func TestOptions(t *testing.T) {
	s := newTestService(national())

	o, err := s.Options(economy.Territorial, "")
	require.NoError(t, err)
	assert.Equal(t, economy.Department, o.Dimension)
	assert.Equal(t, []string{"Alto Parana.", "Central.", "Itapua."}, o.Values)
	assert.Equal(t, []string{"Alto Parana.", "Central.", "Itapua."}, o.Selected)
	require.Len(t, o.Metrics, 6)
	assert.Equal(t, Companies, o.Metrics[0].ID)

	o, err = s.Options(economy.Activities, economy.Division)
	require.NoError(t, err)
	assert.Empty(t, o.Selected)
	assert.Contains(t, o.Values, "Cultivo")

	_, err = s.Options(economy.Activities, economy.District)
	assert.ErrorIs(t, err, ErrUnsupportedDimension)
}

func TestMap(t *testing.T) {
	s := newTestService(national())

	res, err := s.Map(context.Background(), MapQuery{Metric: MapCompanies})
	require.NoError(t, err)
	assert.Equal(t, []string{"CENTRAL", "ALTO PARANA", "ITAPUA"}, res.Locations)
	assert.Equal(t, []float64{110, 53, 7}, res.Values)
	assert.Empty(t, res.Districts.X)
	assert.Empty(t, res.BySection.Rows)

	res, err = s.Map(context.Background(), MapQuery{Metric: MapProfit, Department: "CENTRAL"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Luque", "Limpio", "Centro"}, res.Districts.X)
	assert.Equal(t, []float64{10500, 100, 50}, res.Districts.Y)
	assert.Equal(t, []string{"Comercio", "Agricultura"}, res.Sections.X)
	assert.Len(t, res.ByDistrict.Rows, 3)

	_, err = s.Map(context.Background(), MapQuery{Metric: "rainfall"})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}
