package dashboard

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Column describes one table column. Numeric columns carry a Format.
type Column struct {
	Name   string  `json:"name"`
	ID     string  `json:"id"`
	Type   string  `json:"type,omitempty"`
	Format *Format `json:"format,omitempty"`
}

// Format is a fixed-point number format: optional thousands grouping and a
// fixed number of decimals.
type Format struct {
	Group          bool   `json:"group"`
	GroupDelimiter string `json:"group_delimiter,omitempty"`
	Precision      int    `json:"precision"`
	Scheme         string `json:"scheme"`
	// Specifier is the same format as a d3-format string (",.0f").
	Specifier string `json:"specifier"`
}

func fixedFormat(group bool, precision int) *Format {
	f := &Format{Group: group, Precision: precision, Scheme: "f"}
	spec := "." + strconv.Itoa(precision) + "f"
	if group {
		f.GroupDelimiter = ","
		spec = "," + spec
	}
	f.Specifier = spec
	return f
}

var (
	countFormat   = fixedFormat(true, 0)
	percentFormat = fixedFormat(false, 2)
	indexFormat   = fixedFormat(true, 2)
	densityFormat = fixedFormat(false, 4)
)

// newPrinter formats numbers with ',' grouping and '.' decimals. Printers
// are not shared between goroutines.
func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

func (f *Format) format(p *message.Printer, v float64) string {
	if f == nil {
		return p.Sprint(number.Decimal(v))
	}
	opts := []number.Option{number.Scale(f.Precision)}
	if !f.Group {
		opts = append(opts, number.NoSeparator())
	}
	return p.Sprint(number.Decimal(v, opts...))
}
