package dashboard

import (
	"slices"
	"strconv"
	"strings"

	"geoeconomia/domain/aggregate"
	"geoeconomia/domain/economy"
	"geoeconomia/domain/hierarchy"
)

// rankKey holds the derived value of a group while ranking.
const rankKey = "_value"

func (t *Treemap) fill(tr *hierarchy.Tree, f *Format) {
	p := newPrinter()
	for _, n := range tr.Nodes {
		parent := ""
		if n.Parent != hierarchy.NoParent {
			parent = strconv.Itoa(n.Parent)
		}
		t.IDs = append(t.IDs, strconv.Itoa(n.ID))
		t.Labels = append(t.Labels, n.Label)
		t.Parents = append(t.Parents, parent)
		t.Values = append(t.Values, n.Value)
		t.Text = append(t.Text, f.format(p, n.Value))
	}
}

// barKeys are the tree levels down to the query dimension: the bars rank
// the selected entities themselves.
func (v view) barKeys(d economy.Column) []economy.Column {
	levels := v.tree(d)
	i := slices.Index(levels, d)
	if i < 0 {
		return []economy.Column{d}
	}
	return slices.Clone(levels[:i+1])
}

func (s *Service) bars(sub *economy.Table, d economy.Column, v view, tot totals) Bars {
	b := newBars(v.barsTitle)
	keys := v.barKeys(d)
	by := keys
	if v.series != "" {
		by = append(slices.Clone(keys), v.series)
		b.Series = []string{}
	}
	for _, r := range ranked(sub, by, v.value, tot, s.topN) {
		b.X = append(b.X, strings.Join(r.Keys[:len(keys)], " / "))
		b.Y = append(b.Y, r.Values[rankKey])
		if v.series != "" {
			b.Series = append(b.Series, r.Keys[len(keys)])
		}
	}
	return b
}

// ranked groups sub and orders the groups by the derived value, largest
// first, keeping the first n (all when n <= 0).
func ranked(sub *economy.Table, by []economy.Column, value measure, tot totals, n int) []aggregate.Row {
	rows := aggregate.GroupBy(sub, by, aggs...)
	for _, r := range rows {
		r.Values[rankKey] = value.derive(r.Values, tot)
	}
	return aggregate.Rank(rows, rankKey, n)
}

func tableRows(sub *economy.Table, by []economy.Column, cols []measure, value measure, tot totals, n int) []map[string]any {
	rows := ranked(sub, by, value, tot, n)
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		m := make(map[string]any, len(by)+len(cols))
		for i, c := range by {
			m[string(c)] = r.Keys[i]
		}
		for _, c := range cols {
			m[c.id] = c.derive(r.Values, tot)
		}
		out = append(out, m)
	}
	return out
}
