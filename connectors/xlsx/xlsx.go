package xlsx

import (
	"fmt"
	"io"
	"strings"

	"geoeconomia/domain/dashboard"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheet = "Sheet1"

// Write renders a table payload as a one sheet workbook. Numeric columns
// get the number format of their descriptor so grouping and decimals match
// the dashboard table.
func Write(w io.Writer, title string, columns []dashboard.Column, rows []map[string]any) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(title)
	if name != sheet {
		if err := f.SetSheetName(sheet, name); err != nil {
			return err
		}
	}

	head := make([]any, len(columns))
	for i, c := range columns {
		head[i] = c.Name
	}
	if err := f.SetSheetRow(name, "A1", &head); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if len(columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(columns), 1)
		if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
			return err
		}
	}

	for i, r := range rows {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = r[c.ID]
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}

	for j, c := range columns {
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, col, col, width(c)); err != nil {
			return err
		}
		if c.Format == nil || len(rows) == 0 {
			continue
		}
		code := NumFmt(c.Format)
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &code})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(name, col+"2", fmt.Sprintf("%s%d", col, len(rows)+1), style); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// NumFmt turns a column format into an Excel number format code.
func NumFmt(f *dashboard.Format) string {
	code := "0"
	if f.Group {
		code = "#,##0"
	}
	if f.Precision > 0 {
		code += "." + strings.Repeat("0", f.Precision)
	}
	return code
}

func width(c dashboard.Column) float64 {
	w := float64(len([]rune(c.Name))) + 4
	if w < 12 {
		return 12
	}
	return w
}

// sheetName trims title to Excel's rules: 31 characters, none of []:*?/\.
func sheetName(title string) string {
	s := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if s == "" {
		return sheet
	}
	if r := []rune(s); len(r) > 31 {
		s = string(r[:31])
	}
	return s
}
