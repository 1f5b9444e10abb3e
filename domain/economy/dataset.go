package economy

// Source names one of the two fact tables.
type Source string

const (
	// Territorial is the company/territory fact table (empresas.csv).
	Territorial Source = "territorial"
	// Activities is the activity oriented fact table (actividades.csv).
	Activities Source = "activities"
)

// Dataset holds both fact tables. It is created once at startup and passed
// to every computation; it is never mutated afterwards.
type Dataset struct {
	Territorial *Table
	Activities  *Table
	// Sentinels are the category labels standing for missing data
	// ("Desconocido", "Sin Datos"). They are valid categories.
	Sentinels []string
}

// Table returns the table backing a source.
func (d *Dataset) Table(s Source) *Table {
	if d == nil {
		return &Table{}
	}
	switch s {
	case Territorial:
		return d.Territorial
	case Activities:
		return d.Activities
	}
	return &Table{}
}
