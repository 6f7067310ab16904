/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"strings"

	"infini.sh/insight/core/util"
)

const (
	OperatorEquals      = "equals"
	OperatorNotEquals   = "not_equals"
	OperatorContains    = "contains"
	OperatorGreaterThan = "greater_than"
	OperatorLessThan    = "less_than"
	OperatorIn          = "in"
	OperatorBetween     = "between"
)

type Filter struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value,omitempty"`
	Exclude  bool        `json:"exclude,omitempty"`
}

// KnownOperator reports whether the operator belongs to the fixed set. An
// unknown operator never rejects a row, callers surface a warning instead.
func KnownOperator(op string) bool {
	switch op {
	case OperatorEquals, OperatorNotEquals, OperatorContains,
		OperatorGreaterThan, OperatorLessThan, OperatorIn, OperatorBetween:
		return true
	}
	return false
}

// MergeFilters combines persisted chart filters with request-time overrides:
// an override replaces the persisted entry with the same field, everything
// else concatenates, persisted order first.
func MergeFilters(persisted, overrides []Filter) []Filter {
	if len(overrides) == 0 {
		return persisted
	}

	overrideByField := map[string]int{}
	for i, f := range overrides {
		overrideByField[f.Field] = i
	}

	merged := make([]Filter, 0, len(persisted)+len(overrides))
	replaced := map[int]bool{}
	for _, f := range persisted {
		if i, ok := overrideByField[f.Field]; ok {
			merged = append(merged, overrides[i])
			replaced[i] = true
			continue
		}
		merged = append(merged, f)
	}
	for i, f := range overrides {
		if !replaced[i] {
			merged = append(merged, f)
		}
	}
	return merged
}

// Match evaluates the filter against one row. Exclude inverts the outcome.
func (f Filter) Match(row util.MapStr) bool {
	matched := f.match(row)
	if f.Exclude {
		return !matched
	}
	return matched
}

func (f Filter) match(row util.MapStr) bool {
	v, err := row.GetValue(f.Field)
	if err != nil {
		v = nil
	}

	switch f.Operator {
	case OperatorEquals:
		return looseEqual(v, f.Value)
	case OperatorNotEquals:
		return !looseEqual(v, f.Value)
	case OperatorContains:
		return strings.Contains(
			strings.ToLower(util.ToString(v)),
			strings.ToLower(util.ToString(f.Value)),
		)
	case OperatorGreaterThan, OperatorLessThan:
		left, ok1 := util.ToFloat64(v)
		right, ok2 := util.ToFloat64(f.Value)
		if !ok1 || !ok2 {
			return false
		}
		if f.Operator == OperatorGreaterThan {
			return left > right
		}
		return left < right
	case OperatorIn:
		arr, ok := toArray(f.Value)
		if !ok {
			return false
		}
		for _, item := range arr {
			if looseEqual(v, item) {
				return true
			}
		}
		return false
	case OperatorBetween:
		arr, ok := toArray(f.Value)
		if !ok || len(arr) != 2 {
			return false
		}
		val, ok := util.ToFloat64(v)
		if !ok {
			return false
		}
		low, ok1 := util.ToFloat64(arr[0])
		high, ok2 := util.ToFloat64(arr[1])
		if !ok1 || !ok2 {
			return false
		}
		return val >= low && val <= high
	}

	// unknown operators pass rows through
	return true
}

// FilterRows keeps rows satisfying every filter.
func FilterRows(rows []util.MapStr, filters []Filter) []util.MapStr {
	if len(filters) == 0 {
		return rows
	}
	out := make([]util.MapStr, 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, f := range filters {
			if !f.Match(row) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

// looseEqual compares scalars numerically when both sides coerce, otherwise
// by their string forms.
func looseEqual(a, b interface{}) bool {
	af, aok := util.ToFloat64(a)
	bf, bok := util.ToFloat64(b)
	if aok && bok {
		return af == bf
	}
	return util.ToString(a) == util.ToString(b)
}

func toArray(v interface{}) ([]interface{}, bool) {
	switch x := v.(type) {
	case []interface{}:
		return x, true
	case []string:
		arr := make([]interface{}, 0, len(x))
		for _, s := range x {
			arr = append(arr, s)
		}
		return arr, true
	}
	return nil, false
}
