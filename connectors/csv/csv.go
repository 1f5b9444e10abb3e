package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	dc "geoeconomia/domain/config"
	"geoeconomia/domain/dashboard"
	"geoeconomia/domain/economy"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// ParseError locates a bad cell in an input file.
type ParseError struct {
	File   string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %s: %v", e.File, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	ErrNegative   = errors.New("negative value")
	ErrNotFinite  = errors.New("not a finite number")
	ErrNotInteger = errors.New("not a whole number")
)

// LoadDataset reads both fact tables concurrently. Either failure aborts
// the load.
func LoadDataset(ctx context.Context, cfg *dc.Config) (*economy.Dataset, error) {
	ds := &economy.Dataset{Sentinels: cfg.Dashboard.Sentinels}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := ReadTable(gctx, cfg.Data.Territorial, economy.Territorial, cfg)
		ds.Territorial = t
		return err
	})
	g.Go(func() error {
		t, err := ReadTable(gctx, cfg.Data.Activities, economy.Activities, cfg)
		ds.Activities = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slog.Info("dataset.loaded", "territorial", ds.Territorial.Len(), "activities", ds.Activities.Len())
	return ds, nil
}

// ReadTable loads one fact table from path.
func ReadTable(ctx context.Context, path string, src economy.Source, cfg *dc.Config) (*economy.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(ctx, f, filepath.Base(path), src, cfg)
}

// measures lists the numeric columns the views over a table read. A
// missing one is a load error rather than a column of zeros.
func measures(src economy.Source, c dc.Columns) []string {
	if src == economy.Territorial {
		return []string{c.Companies, c.Participation, c.Contribution, c.Population, c.PopulationPct}
	}
	return []string{c.Companies, c.Participation, c.Contribution}
}

// Decode parses one fact table using the header mapping of src. name is
// only used in error messages.
func Decode(ctx context.Context, in io.Reader, name string, src economy.Source, cfg *dc.Config) (*economy.Table, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{File: name, Line: 1, Err: errors.New("empty file")}
		}
		return nil, &ParseError{File: name, Line: 1, Err: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	idx := indexMap(header)
	cols := cfg.Data.ColumnsFor(src)
	required := append([]string{cols.Department, cols.District, cols.Section, cols.Division, cols.Activity}, measures(src, cols)...)
	for _, col := range required {
		if _, ok := idx[key(col)]; !ok {
			return nil, &ParseError{File: name, Line: 1, Column: col, Err: errors.New("missing column")}
		}
	}

	unknown := ""
	if len(cfg.Dashboard.Sentinels) > 0 {
		unknown = cfg.Dashboard.Sentinels[0]
	}
	p := rowParser{idx: idx, file: name}
	var rows []economy.Record
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &ParseError{File: name, Line: pe.Line, Err: pe.Err}
			}
			return nil, err
		}
		line, _ := r.FieldPos(0)
		if len(rows)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if blank(rec) {
			continue
		}
		p.rec, p.line = rec, line

		row := economy.Record{
			Country:    p.label(cols.Country, cfg.Dashboard.Country),
			Department: p.label(cols.Department, unknown),
			District:   p.label(cols.District, unknown),
			Section:    p.label(cols.Section, unknown),
			Division:   p.label(cols.Division, unknown),
			Activity:   p.label(cols.Activity, unknown),
		}
		row.MapKey = p.label(cols.MapKey, row.Department)
		companies, err := p.number(cols.Companies)
		if err != nil {
			return nil, err
		}
		if companies != math.Trunc(companies) {
			return nil, &ParseError{File: name, Line: line, Column: cols.Companies, Err: ErrNotInteger}
		}
		row.Companies = int64(companies)
		if row.Participation, err = p.number(cols.Participation); err != nil {
			return nil, err
		}
		if row.Contribution, err = p.number(cols.Contribution); err != nil {
			return nil, err
		}
		if row.Population, err = p.number(cols.Population); err != nil {
			return nil, err
		}
		if row.PopulationPct, err = p.number(cols.PopulationPct); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	slog.Debug("csv.read", "file", name, "rows", len(rows))
	return economy.NewTable(rows), nil
}

type rowParser struct {
	idx  map[string]int
	file string
	rec  []string
	line int
}

func (p *rowParser) cell(col string) (string, bool) {
	i, ok := p.idx[key(col)]
	if !ok || i >= len(p.rec) {
		return "", false
	}
	return strings.TrimSpace(p.rec[i]), true
}

// label reads a category, normalised to NFC so that labels typed with
// combining accents compare equal to precomposed ones.
func (p *rowParser) label(col, fallback string) string {
	s, _ := p.cell(col)
	if s == "" {
		return fallback
	}
	return norm.NFC.String(s)
}

// number reads a measure: finite and not negative. Empty cells (and
// optional columns absent from the header) are 0.
func (p *rowParser) number(col string) (float64, error) {
	s, ok := p.cell(col)
	if !ok || s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	switch {
	case err != nil:
		return 0, &ParseError{File: p.file, Line: p.line, Column: col, Err: err}
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, &ParseError{File: p.file, Line: p.line, Column: col, Err: ErrNotFinite}
	case f < 0:
		return 0, &ParseError{File: p.file, Line: p.line, Column: col, Err: ErrNegative}
	}
	return f, nil
}

func indexMap(headers []string) map[string]int {
	m := map[string]int{}
	for i, h := range headers {
		m[key(h)] = i
	}
	return m
}

func key(h string) string { return strings.TrimSpace(strings.ToLower(h)) }

func blank(rec []string) bool {
	for _, s := range rec {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// WriteTable writes a table payload as CSV, one column per descriptor, in
// descriptor order. Numeric cells use the descriptor's precision without
// grouping so the file stays machine readable.
func WriteTable(path string, columns []dashboard.Column, rows []map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	head := make([]string, len(columns))
	for i, c := range columns {
		head[i] = c.Name
	}
	if err := w.Write(head); err != nil {
		return err
	}
	for _, r := range rows {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = cellString(c, r[c.ID])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func cellString(c dashboard.Column, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		prec := -1
		if c.Format != nil {
			prec = c.Format.Precision
		}
		return strconv.FormatFloat(x, 'f', prec, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	}
	return fmt.Sprint(v)
}
