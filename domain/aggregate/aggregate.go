package aggregate

import (
	"math"
	"slices"
	"strings"

	"geoeconomia/domain/economy"

	lo "github.com/samber/lo"
)

// Reducer selects how the rows of one group collapse into a value.
type Reducer int

const (
	ReduceSum Reducer = iota
	ReduceMax
	ReduceCountDistinct
	// ReduceSumPerDistrict takes the max of the measure within each
	// district and sums those maxima. It is the only correct way to total
	// per-district attributes (population) repeated on every row.
	ReduceSumPerDistrict
	ReduceCount
)

// Agg describes one output value of a group-by.
type Agg struct {
	Name    string
	Reducer Reducer
	Measure economy.Measure
	Column  economy.Column
}

func Sum(name string, m economy.Measure) Agg {
	return Agg{Name: name, Reducer: ReduceSum, Measure: m}
}

func Max(name string, m economy.Measure) Agg {
	return Agg{Name: name, Reducer: ReduceMax, Measure: m}
}

func SumPerDistrict(name string, m economy.Measure) Agg {
	return Agg{Name: name, Reducer: ReduceSumPerDistrict, Measure: m}
}

// CountDistinct counts distinct values of a column. District is counted by
// (department, district) so homonymous districts are not merged.
func CountDistinct(name string, c economy.Column) Agg {
	return Agg{Name: name, Reducer: ReduceCountDistinct, Column: c}
}

func Count(name string) Agg {
	return Agg{Name: name, Reducer: ReduceCount}
}

// Values are the reduced values of one group, keyed by Agg.Name.
type Values map[string]float64

// Row is one group-by result.
type Row struct {
	Keys   []string `json:"keys"`
	Values Values   `json:"values"`
}

type accumulator struct {
	keys     []string
	sums     []float64
	distinct []map[string]struct{}
	perDist  []map[string]float64
}

func newAccumulator(keys []string, aggs []Agg) *accumulator {
	a := &accumulator{
		keys:     keys,
		sums:     make([]float64, len(aggs)),
		distinct: make([]map[string]struct{}, len(aggs)),
		perDist:  make([]map[string]float64, len(aggs)),
	}
	for i, ag := range aggs {
		switch ag.Reducer {
		case ReduceCountDistinct:
			a.distinct[i] = map[string]struct{}{}
		case ReduceSumPerDistrict:
			a.perDist[i] = map[string]float64{}
		case ReduceMax:
			a.sums[i] = math.Inf(-1)
		}
	}
	return a
}

func (a *accumulator) add(r economy.Record, aggs []Agg) {
	for i, ag := range aggs {
		switch ag.Reducer {
		case ReduceSum:
			a.sums[i] += r.Number(ag.Measure)
		case ReduceMax:
			a.sums[i] = math.Max(a.sums[i], r.Number(ag.Measure))
		case ReduceCount:
			a.sums[i]++
		case ReduceCountDistinct:
			v := r.Label(ag.Column)
			if ag.Column == economy.District {
				v = r.DistrictKey()
			}
			a.distinct[i][v] = struct{}{}
		case ReduceSumPerDistrict:
			k := r.DistrictKey()
			if cur, ok := a.perDist[i][k]; !ok || r.Number(ag.Measure) > cur {
				a.perDist[i][k] = r.Number(ag.Measure)
			}
		}
	}
}

func (a *accumulator) row(aggs []Agg) Row {
	out := Row{Keys: a.keys, Values: make(Values, len(aggs))}
	for i, ag := range aggs {
		switch ag.Reducer {
		case ReduceCountDistinct:
			out.Values[ag.Name] = float64(len(a.distinct[i]))
		case ReduceSumPerDistrict:
			// sum in key order so results are bit-identical between runs
			keys := lo.Keys(a.perDist[i])
			slices.Sort(keys)
			var s float64
			for _, k := range keys {
				s += a.perDist[i][k]
			}
			out.Values[ag.Name] = s
		default:
			out.Values[ag.Name] = a.sums[i]
		}
	}
	return out
}

// GroupBy groups the table by the given columns and reduces every group
// with aggs. Rows come back sorted by their keys. An empty table gives an
// empty result.
func GroupBy(t *economy.Table, by []economy.Column, aggs ...Agg) []Row {
	groups := map[string]*accumulator{}
	t.Each(func(r economy.Record) {
		keys := make([]string, len(by))
		for i, c := range by {
			keys[i] = r.Label(c)
		}
		k := strings.Join(keys, "\x00")
		acc, ok := groups[k]
		if !ok {
			acc = newAccumulator(keys, aggs)
			groups[k] = acc
		}
		acc.add(r, aggs)
	})

	out := make([]Row, 0, len(groups))
	for _, acc := range groups {
		out = append(out, acc.row(aggs))
	}
	slices.SortFunc(out, func(a, b Row) int { return slices.Compare(a.Keys, b.Keys) })
	return out
}

// Total reduces the whole table into one set of values. An empty table
// gives zero values.
func Total(t *economy.Table, aggs ...Agg) Values {
	rows := GroupBy(t, nil, aggs...)
	if len(rows) == 0 {
		return lo.SliceToMap(aggs, func(a Agg) (string, float64) { return a.Name, 0 })
	}
	return rows[0].Values
}

// Rank sorts rows by the named value, largest first, keeping key order on
// ties, and keeps the first n (all when n <= 0).
func Rank(rows []Row, by string, n int) []Row {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b Row) int {
		av, bv := a.Values[by], b.Values[by]
		switch {
		case av > bv:
			return -1
		case av < bv:
			return 1
		}
		return slices.Compare(a.Keys, b.Keys)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
