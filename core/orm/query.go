/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package orm

import (
	"sort"
	"strings"

	"infini.sh/insight/core/util"
)

type SortType string

const (
	ASC  SortType = "asc"
	DESC SortType = "desc"
)

type Sort struct {
	Field    string
	SortType SortType
}

type QueryOperator string

const (
	QueryEq       QueryOperator = "eq"
	QueryNotEq    QueryOperator = "not_eq"
	QueryPrefix   QueryOperator = "prefix"
	QueryContains QueryOperator = "contains"
	QueryIn       QueryOperator = "in"
	QueryGt       QueryOperator = "gt"
	QueryLt       QueryOperator = "lt"
)

type Cond struct {
	Field string
	Op    QueryOperator
	Value interface{}
}

func Eq(field string, value interface{}) *Cond {
	return &Cond{Field: field, Op: QueryEq, Value: value}
}

func NotEq(field string, value interface{}) *Cond {
	return &Cond{Field: field, Op: QueryNotEq, Value: value}
}

func Prefix(field string, value string) *Cond {
	return &Cond{Field: field, Op: QueryPrefix, Value: value}
}

func Contains(field string, value string) *Cond {
	return &Cond{Field: field, Op: QueryContains, Value: value}
}

func In(field string, value []interface{}) *Cond {
	return &Cond{Field: field, Op: QueryIn, Value: value}
}

func InStringArray(field string, value []string) *Cond {
	arr := make([]interface{}, 0, len(value))
	for _, v := range value {
		arr = append(arr, v)
	}
	return In(field, arr)
}

func Gt(field string, value interface{}) *Cond {
	return &Cond{Field: field, Op: QueryGt, Value: value}
}

func Lt(field string, value interface{}) *Cond {
	return &Cond{Field: field, Op: QueryLt, Value: value}
}

func And(conds ...*Cond) []*Cond {
	return conds
}

// Query narrows and pages a bucket scan, all conds must match.
type Query struct {
	Conds []*Cond
	Sorts []Sort
	From  int
	Size  int
}

func NewQuery() *Query {
	return &Query{Size: -1}
}

func (q *Query) AddCond(conds ...*Cond) *Query {
	q.Conds = append(q.Conds, conds...)
	return q
}

func (q *Query) AddSort(field string, sortType SortType) *Query {
	q.Sorts = append(q.Sorts, Sort{Field: field, SortType: sortType})
	return q
}

func (q *Query) SetFrom(from int) *Query {
	q.From = from
	return q
}

func (q *Query) SetSize(size int) *Query {
	q.Size = size
	return q
}

// MatchConds evaluates every cond against a decoded document. Shared by the
// store implementations so they agree on semantics.
func MatchConds(doc util.MapStr, conds []*Cond) bool {
	for _, cond := range conds {
		if !matchCond(doc, cond) {
			return false
		}
	}
	return true
}

func matchCond(doc util.MapStr, cond *Cond) bool {
	v, err := doc.GetValue(cond.Field)
	if err != nil {
		// a field absent from the doc only satisfies not_eq
		return cond.Op == QueryNotEq
	}

	switch cond.Op {
	case QueryEq:
		return util.ToString(v) == util.ToString(cond.Value)
	case QueryNotEq:
		return util.ToString(v) != util.ToString(cond.Value)
	case QueryPrefix:
		return strings.HasPrefix(util.ToString(v), util.ToString(cond.Value))
	case QueryContains:
		return strings.Contains(util.ToString(v), util.ToString(cond.Value))
	case QueryIn:
		arr, ok := cond.Value.([]interface{})
		if !ok {
			return false
		}
		for _, item := range arr {
			if util.ToString(v) == util.ToString(item) {
				return true
			}
		}
		return false
	case QueryGt, QueryLt:
		left, ok1 := util.ToFloat64(v)
		right, ok2 := util.ToFloat64(cond.Value)
		if !ok1 || !ok2 {
			return false
		}
		if cond.Op == QueryGt {
			return left > right
		}
		return left < right
	}
	return false
}

// SortDocs orders decoded documents by the query's sort keys, stable so that
// equal keys keep their scan order.
func SortDocs(docs []util.MapStr, sorts []Sort) {
	if len(sorts) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, s := range sorts {
			a, _ := docs[i].GetValue(s.Field)
			b, _ := docs[j].GetValue(s.Field)
			cmp := compareValues(a, b)
			if cmp == 0 {
				continue
			}
			if s.SortType == DESC {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareValues(a, b interface{}) int {
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
