package economy

import (
	"slices"

	lo "github.com/samber/lo"
)

// Table is an immutable set of fact rows. It is built once and then only
// read; every filter returns a new Table.
type Table struct {
	rows []Record
}

// NewTable copies rows into a new Table.
func NewTable(rows []Record) *Table {
	return &Table{rows: slices.Clone(rows)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Each calls fn for every row in load order.
func (t *Table) Each(fn func(Record)) {
	if t == nil {
		return
	}
	for _, r := range t.rows {
		fn(r)
	}
}

// Rows returns a copy of the rows.
func (t *Table) Rows() []Record {
	if t == nil {
		return nil
	}
	return slices.Clone(t.rows)
}

// Filter keeps the rows whose column value is one of selected. An empty
// selection yields an empty table, not the full one.
func (t *Table) Filter(c Column, selected []string) *Table {
	if t == nil || len(selected) == 0 {
		return &Table{}
	}
	set := lo.SliceToMap(selected, func(s string) (string, struct{}) { return s, struct{}{} })
	return &Table{rows: lo.Filter(t.rows, func(r Record, _ int) bool {
		_, ok := set[r.Label(c)]
		return ok
	})}
}

// Exclude drops the rows whose column value is one of labels.
func (t *Table) Exclude(c Column, labels ...string) *Table {
	if t == nil {
		return &Table{}
	}
	if len(labels) == 0 {
		return t
	}
	return &Table{rows: lo.Reject(t.rows, func(r Record, _ int) bool {
		return lo.Contains(labels, r.Label(c))
	})}
}

// Values returns the sorted distinct values of a column.
func (t *Table) Values(c Column) []string {
	if t == nil {
		return nil
	}
	vals := lo.Uniq(lo.Map(t.rows, func(r Record, _ int) string { return r.Label(c) }))
	slices.Sort(vals)
	return vals
}
