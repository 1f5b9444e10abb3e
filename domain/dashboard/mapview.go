package dashboard

import (
	"context"

	"geoeconomia/domain/economy"
)

// MapMetric colours the department map.
type MapMetric string

const (
	MapCompanies MapMetric = "companies"
	MapProfit    MapMetric = "profit"
)

// MapQuery selects the map metric and, optionally, the clicked department
// (by its map key).
type MapQuery struct {
	Metric     MapMetric `json:"metric" query:"metric" validate:"required,oneof=companies profit"`
	Department string    `json:"department" query:"department" validate:"max=256"`
}

// MapResult holds one value per map key plus the drill-down of the
// selected department. The drill-down is empty when no department is
// selected.
type MapResult struct {
	Locations  []string  `json:"locations"`
	Values     []float64 `json:"values"`
	Department string    `json:"department"`
	Districts  Bars      `json:"districts"`
	Sections   Bars      `json:"sections"`
	ByDistrict Table     `json:"by_district"`
	BySection  Table     `json:"by_section"`
}

// Map computes the national department map from the territorial table.
func (s *Service) Map(ctx context.Context, q MapQuery) (MapResult, error) {
	if err := check(q); err != nil {
		return MapResult{}, err
	}
	m := mCompanies
	districtTitle, sectionTitle := "Cantidad por distrito", "Cantidad por sección"
	if q.Metric == MapProfit {
		m = mProfit
		districtTitle, sectionTitle = "Ganancias por distrito", "Ganancias por sección"
	}

	full := s.data.Table(economy.Territorial)
	tot := totalsOf(full)
	res := MapResult{
		Locations:  []string{},
		Values:     []float64{},
		Department: q.Department,
		Districts:  newBars(districtTitle),
		Sections:   newBars(sectionTitle),
	}
	for _, r := range ranked(full, []economy.Column{economy.MapKey}, m, tot, 0) {
		res.Locations = append(res.Locations, r.Keys[0])
		res.Values = append(res.Values, r.Values[rankKey])
	}
	if err := ctx.Err(); err != nil {
		return MapResult{}, err
	}

	var sub *economy.Table
	if q.Department != "" {
		sub = full.Filter(economy.MapKey, []string{q.Department})
	}
	res.Districts, res.ByDistrict = drill(sub, economy.District, m, tot, res.Districts)
	res.Sections, res.BySection = drill(sub, economy.Section, m, tot, res.Sections)
	return res, nil
}

func drill(sub *economy.Table, c economy.Column, m measure, tot totals, b Bars) (Bars, Table) {
	by := []economy.Column{c}
	t := Table{
		Columns: []Column{{Name: columnNames[c], ID: string(c)}, m.column()},
		Rows:    tableRows(sub, by, []measure{m}, m, tot, 0),
	}
	for _, r := range t.Rows {
		b.X = append(b.X, r[string(c)].(string))
		b.Y = append(b.Y, r[m.id].(float64))
	}
	return b, t
}
