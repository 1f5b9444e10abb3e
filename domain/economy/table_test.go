package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []Record {
	return []Record{
		{Country: "PARAGUAY", Department: "Central.", District: "Luque", Section: "Agricultura", Companies: 3},
		{Country: "PARAGUAY", Department: "Central.", District: "Centro", Section: "Comercio", Companies: 5},
		{Country: "PARAGUAY", Department: "Itapua.", District: "Centro", Section: "Agricultura", Companies: 7},
		{Country: "PARAGUAY", Department: "Itapua.", District: "Desconocido", Section: "Comercio", Companies: 1},
	}
}

func TestFilter_KeepsSelectedLabels(t *testing.T) {
	tbl := NewTable(sampleRows())

	got := tbl.Filter(Section, []string{"Agricultura"})
	require.Equal(t, 2, got.Len())
	got.Each(func(r Record) { assert.Equal(t, "Agricultura", r.Section) })
}

func TestFilter_EmptySelectionIsEmpty(t *testing.T) {
	tbl := NewTable(sampleRows())

	assert.Equal(t, 0, tbl.Filter(Department, nil).Len())
	assert.Equal(t, 0, tbl.Filter(Department, []string{}).Len())
}

func TestFilter_UnknownLabelMatchesNothing(t *testing.T) {
	tbl := NewTable(sampleRows())
	assert.Equal(t, 0, tbl.Filter(Department, []string{"Atlantis"}).Len())
}

func TestTable_IsNotMutatedByCaller(t *testing.T) {
	rows := sampleRows()
	tbl := NewTable(rows)
	rows[0].Companies = 999

	copied := tbl.Rows()
	copied[1].Companies = 999

	assert.Equal(t, int64(3), tbl.Rows()[0].Companies)
	assert.Equal(t, int64(5), tbl.Rows()[1].Companies)
}

func TestExcludeAndValues(t *testing.T) {
	tbl := NewTable(sampleRows())

	assert.Equal(t, []string{"Centro", "Desconocido", "Luque"}, tbl.Values(District))
	assert.Equal(t, []string{"Centro", "Luque"}, tbl.Exclude(District, "Desconocido").Values(District))
	assert.Same(t, tbl, tbl.Exclude(District))
}

func TestRecord_ProfitAndDistrictKey(t *testing.T) {
	r := Record{Department: "Central.", District: "Centro", Contribution: 150}
	assert.InDelta(t, 1500.0, r.Profit(), 1e-9)
	assert.InDelta(t, 1500.0, r.Number(Profit), 1e-9)
	assert.NotEqual(t, r.DistrictKey(), Record{Department: "Itapua.", District: "Centro"}.DistrictKey())
}

func TestParseColumn(t *testing.T) {
	c, err := ParseColumn("division")
	require.NoError(t, err)
	assert.Equal(t, Division, c)

	_, err = ParseColumn("province")
	assert.Error(t, err)
}
