package economy

import "fmt"

// ProfitMultiplier turns a tax contribution ("aporte") back into declared
// profit: the corporate income tax rate is a flat 10%.
const ProfitMultiplier = 10

// Column is a categorical dimension of the fact tables.
type Column string

const (
	Country    Column = "country"
	Department Column = "department"
	District   Column = "district"
	Section    Column = "section"
	Division   Column = "division"
	Activity   Column = "activity"
	// MapKey is the department label used by the boundary file
	// (DPTO_DESC); it may be spelled differently from Department.
	MapKey Column = "map_key"
)

// Columns lists every categorical dimension in hierarchy order
// (territorial first, then economic classification).
var Columns = []Column{Country, Department, District, Section, Division, Activity, MapKey}

// ParseColumn maps a request value onto a Column.
func ParseColumn(s string) (Column, error) {
	for _, c := range Columns {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown column %q", s)
}

// Measure is a numeric field of the fact tables.
type Measure string

const (
	Companies     Measure = "companies"
	Participation Measure = "participation"
	Contribution  Measure = "contribution"
	Profit        Measure = "profit"
	Population    Measure = "population"
	PopulationPct Measure = "population_pct"
)

// Record is one row of a fact table: one head-office location crossed
// with one economic activity.
type Record struct {
	Country    string `json:"country"`
	Department string `json:"department"`
	District   string `json:"district"`
	Section    string `json:"section"`
	Division   string `json:"division"`
	Activity   string `json:"activity"`
	MapKey     string `json:"map_key"`

	Companies     int64   `json:"companies"`
	Participation float64 `json:"participation"`
	Contribution  float64 `json:"contribution"`
	// Population and PopulationPct describe the district and are repeated
	// on every row of that district. Never sum them per row.
	Population    float64 `json:"population"`
	PopulationPct float64 `json:"population_pct"`
}

// Label returns the value of a categorical column.
func (r Record) Label(c Column) string {
	switch c {
	case Country:
		return r.Country
	case Department:
		return r.Department
	case District:
		return r.District
	case Section:
		return r.Section
	case Division:
		return r.Division
	case Activity:
		return r.Activity
	case MapKey:
		return r.MapKey
	}
	return ""
}

// Number returns the value of a numeric measure.
func (r Record) Number(m Measure) float64 {
	switch m {
	case Companies:
		return float64(r.Companies)
	case Participation:
		return r.Participation
	case Contribution:
		return r.Contribution
	case Profit:
		return r.Profit()
	case Population:
		return r.Population
	case PopulationPct:
		return r.PopulationPct
	}
	return 0
}

// Profit is the declared profit behind the row's tax contribution.
func (r Record) Profit() float64 {
	return r.Contribution * ProfitMultiplier
}

// DistrictKey identifies a district across departments: two departments
// may both have a district with the same name.
func (r Record) DistrictKey() string {
	return r.Department + "\x00" + r.District
}
