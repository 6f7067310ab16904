/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"sort"
	"strings"

	"infini.sh/insight/core/util"
)

// Process runs the fixed pipeline over raw dataset rows:
// filter -> group -> aggregate -> sort -> limit.
func Process(rows []util.MapStr, cfg *QueryConfig, filters []Filter) []util.MapStr {
	rows = FilterRows(rows, filters)

	if cfg != nil && (len(cfg.Dimensions) > 0 || len(cfg.Measures) > 0) {
		rows = aggregate(rows, cfg)
	}

	if cfg != nil && len(cfg.Sorts) > 0 {
		SortRows(rows, cfg.Sorts)
	}

	if cfg != nil && cfg.Limit > 0 && cfg.Limit < len(rows) {
		rows = rows[:cfg.Limit]
	}
	return rows
}

type group struct {
	dims util.MapStr
	accs []*accumulator
}

// aggregate folds rows into one output row per distinct dimension tuple,
// groups keep their first-seen order.
func aggregate(rows []util.MapStr, cfg *QueryConfig) []util.MapStr {
	groups := map[string]*group{}
	var order []string

	for _, row := range rows {
		key := groupKey(row, cfg.Dimensions)
		g, ok := groups[key]
		if !ok {
			g = &group{dims: util.MapStr{}}
			for _, d := range cfg.Dimensions {
				v, err := row.GetValue(d)
				if err != nil {
					v = nil
				}
				g.dims[d] = v
			}
			for _, m := range cfg.Measures {
				g.accs = append(g.accs, newAccumulator(m))
			}
			groups[key] = g
			order = append(order, key)
		}
		for _, acc := range g.accs {
			acc.add(row)
		}
	}

	out := make([]util.MapStr, 0, len(order))
	for _, key := range order {
		g := groups[key]
		row := util.MapStr{}
		row.Update(g.dims)
		for _, acc := range g.accs {
			row[acc.measure.Key()] = acc.result()
		}
		out = append(out, row)
	}
	return out
}

// groupKey builds a collision free composite key over the dimension values.
func groupKey(row util.MapStr, dimensions []string) string {
	var b strings.Builder
	for _, d := range dimensions {
		v, err := row.GetValue(d)
		if err != nil {
			v = nil
		}
		s := util.ToString(v)
		b.WriteString(util.IntToString(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
		b.WriteByte(0x1e)
	}
	return b.String()
}

// accumulator reduces one measure over the rows of a group. Non-numeric
// values are skipped for sum/avg/min/max, not treated as zero.
type accumulator struct {
	measure Measure

	sum        float64
	numeric    int64
	nonNil     int64
	rows       int64
	min, max   float64
	hasMinMax  bool
	distincts  map[string]struct{}
}

func newAccumulator(m Measure) *accumulator {
	return &accumulator{measure: m, distincts: map[string]struct{}{}}
}

func (a *accumulator) add(row util.MapStr) {
	a.rows++

	if a.measure.Field == "*" {
		return
	}
	v, err := row.GetValue(a.measure.Field)
	if err != nil || v == nil {
		return
	}
	a.nonNil++
	a.distincts[util.ToString(v)] = struct{}{}

	f, ok := util.ToFloat64(v)
	if !ok {
		return
	}
	a.sum += f
	a.numeric++
	if !a.hasMinMax || f < a.min {
		a.min = f
	}
	if !a.hasMinMax || f > a.max {
		a.max = f
	}
	a.hasMinMax = true
}

func (a *accumulator) result() interface{} {
	switch a.measure.Agg {
	case AggSum:
		return a.sum
	case AggCount:
		if a.measure.Field == "*" {
			return a.rows
		}
		return a.nonNil
	case AggAvg:
		if a.numeric == 0 {
			return nil
		}
		return a.sum / float64(a.numeric)
	case AggMin:
		if !a.hasMinMax {
			return nil
		}
		return a.min
	case AggMax:
		if !a.hasMinMax {
			return nil
		}
		return a.max
	case AggDistinctCount:
		return int64(len(a.distincts))
	}
	return nil
}

// SortRows orders rows by the sort keys in declaration order, stable so that
// rows with equal keys keep their relative position.
func SortRows(rows []util.MapStr, sorts []SortKey) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, s := range sorts {
			a, errA := rows[i].GetValue(s.Field)
			if errA != nil {
				a = nil
			}
			b, errB := rows[j].GetValue(s.Field)
			if errB != nil {
				b = nil
			}
			cmp := compare(a, b)
			if cmp == 0 {
				continue
			}
			if strings.EqualFold(s.Order, "desc") {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compare(a, b interface{}) int {
	af, aok := util.ToFloat64(a)
	bf, bok := util.ToFloat64(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(util.ToString(a), util.ToString(b))
}
