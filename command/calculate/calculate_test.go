package calculate

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	dc "geoeconomia/domain/config"
	"geoeconomia/domain/dashboard"
	"geoeconomia/domain/economy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func service() *dashboard.Service {
	tbl := economy.NewTable([]economy.Record{
		{Country: "PARAGUAY", Section: "Agricultura", Division: "Cultivo", Activity: "Soja", Department: "Central.", District: "Luque", MapKey: "CENTRAL", Companies: 3, Participation: 30, Contribution: 100, Population: 1000},
		{Country: "PARAGUAY", Section: "Comercio", Division: "Minorista", Activity: "Almacen", Department: "Itapua.", District: "Centro", MapKey: "ITAPUA", Companies: 7, Participation: 70, Contribution: 60, Population: 700},
	})
	cfg := dc.Default().Dashboard
	cfg.Defaults = map[string][]string{"department": {"Central.", "Itapua."}}
	return dashboard.NewService(&economy.Dataset{Territorial: tbl, Activities: tbl}, cfg)
}

func TestExport_SingleMetric(t *testing.T) {
	out := t.TempDir()
	err := Export(context.Background(), service(), Request{
		Page:   economy.Territorial,
		Metric: dashboard.ActivityBreadth,
		Out:    out,
		XLSX:   true,
	})
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(out, "bars.json"))
	require.NoError(t, err)
	var bars dashboard.Bars
	require.NoError(t, json.Unmarshal(b, &bars))
	assert.ElementsMatch(t, []string{"Central.", "Itapua."}, bars.X)

	table, err := os.ReadFile(filepath.Join(out, "table.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(table), "Itapua.")

	require.FileExists(t, filepath.Join(out, "treemap.json"))
	f, err := excelize.OpenFile(filepath.Join(out, "table.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 1)
}

func TestExport_AllMetrics(t *testing.T) {
	out := t.TempDir()
	err := Export(context.Background(), service(), Request{
		Page:     economy.Territorial,
		Metric:   "all",
		Selected: []string{"Central."},
		Out:      out,
	})
	require.NoError(t, err)

	for _, m := range []dashboard.Metric{dashboard.Companies, dashboard.ProfitShare, dashboard.Density} {
		assert.FileExists(t, filepath.Join(out, string(m), "table.csv"))
		assert.NoFileExists(t, filepath.Join(out, string(m), "table.xlsx"))
	}
}

func TestExport_Errors(t *testing.T) {
	err := Export(context.Background(), service(), Request{Page: "nowhere", Metric: dashboard.Companies, Out: t.TempDir()})
	assert.ErrorIs(t, err, dashboard.ErrInvalidQuery)

	err = Export(context.Background(), service(), Request{Page: economy.Territorial, Dimension: economy.Section, Metric: dashboard.Companies, Out: t.TempDir()})
	assert.ErrorIs(t, err, dashboard.ErrUnsupportedDimension)

	err = Export(context.Background(), service(), Request{Page: economy.Territorial, Metric: "nope", Out: t.TempDir()})
	assert.ErrorIs(t, err, dashboard.ErrUnknownMetric)
}

func TestLabels(t *testing.T) {
	var l labels
	require.NoError(t, l.Set("Cultivo de soja, maiz"))
	require.NoError(t, l.Set("Comercio"))
	assert.Equal(t, labels{"Cultivo de soja, maiz", "Comercio"}, l)
}
