package calculate

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"geoeconomia/connectors/config"
	csvc "geoeconomia/connectors/csv"
	"geoeconomia/connectors/xlsx"
	"geoeconomia/domain/dashboard"
	"geoeconomia/domain/economy"

	lo "github.com/samber/lo"
)

// labels is a repeatable string flag. Labels may contain commas, so each
// value is taken as-is.
type labels []string

func (l *labels) String() string { return strings.Join(*l, "|") }

func (l *labels) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Run renders views offline and writes them under -out.
//
// Usage:
//
//	geoeconomia calculate [-page territorial] [-dimension department] [-metric companies|all]
//	                      [-select label]... [-out ./out] [-xlsx]
//
// Without -select the configured default selection of the dimension is used.
// With -metric all every metric of the page is written to its own sub-directory.
func Run(args []string) error {
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	page := fs.String("page", string(economy.Territorial), "page: territorial|activities")
	dimension := fs.String("dimension", "", "dimension (default: first of the page)")
	metric := fs.String("metric", string(dashboard.Companies), "metric id, or all")
	out := fs.String("out", "out", "output directory")
	withXLSX := fs.Bool("xlsx", false, "also write table.xlsx")
	var selected labels
	fs.Var(&selected, "select", "selected label (repeatable)")
	fs.StringVar(&cfg.Data.Territorial, "territorial", cfg.Data.Territorial, "territorial fact table (CSV)")
	fs.StringVar(&cfg.Data.Activities, "activities", cfg.Data.Activities, "activities fact table (CSV)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("calculate: unexpected arguments %v", fs.Args())
	}
	if *dimension != "" {
		if _, err := economy.ParseColumn(*dimension); err != nil {
			return fmt.Errorf("calculate: %w", err)
		}
	}

	ctx := context.Background()
	data, err := csvc.LoadDataset(ctx, cfg)
	if err != nil {
		return err
	}
	svc := dashboard.NewService(data, cfg.Dashboard)
	return Export(ctx, svc, Request{
		Page:      economy.Source(*page),
		Dimension: economy.Column(*dimension),
		Metric:    dashboard.Metric(*metric),
		Selected:  selected,
		Out:       *out,
		XLSX:      *withXLSX,
	})
}

// Request describes one offline export.
type Request struct {
	Page      economy.Source
	Dimension economy.Column
	Metric    dashboard.Metric
	Selected  []string
	Out       string
	XLSX      bool
}

// Export renders the requested views and writes treemap.json, bars.json
// and table.csv (plus table.xlsx) for each of them.
func Export(ctx context.Context, svc *dashboard.Service, req Request) error {
	opts, err := svc.Options(req.Page, req.Dimension)
	if err != nil {
		return err
	}
	selected := req.Selected
	if len(selected) == 0 {
		selected = opts.Selected
	}

	metrics := []dashboard.Metric{req.Metric}
	dir := func(dashboard.Metric) string { return req.Out }
	if req.Metric == "all" {
		metrics = lo.Map(opts.Metrics, func(m dashboard.MetricOption, _ int) dashboard.Metric { return m.ID })
		dir = func(m dashboard.Metric) string { return filepath.Join(req.Out, string(m)) }
	}

	for _, m := range metrics {
		q := dashboard.Query{Page: req.Page, Dimension: opts.Dimension, Selected: selected, Metric: m}
		res, err := svc.Render(ctx, q)
		if err != nil {
			return err
		}
		if err := write(dir(m), q, res, req.XLSX); err != nil {
			return fmt.Errorf("calculate %s/%s: %w", q.Page, m, err)
		}
		slog.Info("calculate.done", "page", q.Page, "dimension", q.Dimension, "metric", m, "rows", len(res.Rows), "out", dir(m))
	}
	return nil
}

func write(dir string, q dashboard.Query, res dashboard.Result, withXLSX bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "treemap.json"), res.Treemap); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "bars.json"), res.Bars); err != nil {
		return err
	}
	if err := csvc.WriteTable(filepath.Join(dir, "table.csv"), res.Columns, res.Rows); err != nil {
		return err
	}
	if !withXLSX {
		return nil
	}
	f, err := os.Create(filepath.Join(dir, "table.xlsx"))
	if err != nil {
		return err
	}
	werr := xlsx.Write(f, string(q.Page)+" "+string(q.Metric), res.Columns, res.Rows)
	return errors.Join(werr, f.Close())
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
