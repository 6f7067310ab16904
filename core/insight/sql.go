/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"fmt"
	"strings"

	"infini.sh/insight/core/util"
)

// GenerateSQL renders a best-effort SQL rendition of a chart query. It is
// returned for observability next to the chart data and never executed, the
// quoting is display-grade only.
func GenerateSQL(table string, cfg *QueryConfig, filters []Filter) string {
	if table == "" {
		table = "dataset"
	}

	var selects []string
	if cfg != nil {
		for _, d := range cfg.Dimensions {
			selects = append(selects, d)
		}
		for _, m := range cfg.Measures {
			selects = append(selects, fmt.Sprintf("%s(%s) AS %q", strings.ToUpper(m.Agg), m.Field, m.Key()))
		}
	}
	if len(selects) == 0 {
		selects = []string{"*"}
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(selects, ", "))
	b.WriteString(" FROM ")
	b.WriteString(table)

	if clauses := whereClauses(filters); len(clauses) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(clauses, " AND "))
	}

	if cfg != nil && len(cfg.Dimensions) > 0 && len(cfg.Measures) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(cfg.Dimensions, ", "))
	}

	if cfg != nil && len(cfg.Sorts) > 0 {
		var orders []string
		for _, s := range cfg.Sorts {
			order := "ASC"
			if strings.EqualFold(s.Order, "desc") {
				order = "DESC"
			}
			orders = append(orders, fmt.Sprintf("%s %s", s.Field, order))
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(orders, ", "))
	}

	if cfg != nil && cfg.Limit > 0 {
		b.WriteString(fmt.Sprintf(" LIMIT %d", cfg.Limit))
	}
	return b.String()
}

func whereClauses(filters []Filter) []string {
	var clauses []string
	for _, f := range filters {
		clause := filterClause(f)
		if clause == "" {
			continue
		}
		if f.Exclude {
			clause = "NOT (" + clause + ")"
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

func filterClause(f Filter) string {
	switch f.Operator {
	case OperatorEquals:
		return fmt.Sprintf("%s = %s", f.Field, sqlValue(f.Value))
	case OperatorNotEquals:
		return fmt.Sprintf("%s != %s", f.Field, sqlValue(f.Value))
	case OperatorContains:
		return fmt.Sprintf("%s LIKE '%%%s%%'", f.Field, util.ToString(f.Value))
	case OperatorGreaterThan:
		return fmt.Sprintf("%s > %s", f.Field, sqlValue(f.Value))
	case OperatorLessThan:
		return fmt.Sprintf("%s < %s", f.Field, sqlValue(f.Value))
	case OperatorIn:
		arr, ok := toArray(f.Value)
		if !ok {
			return ""
		}
		items := make([]string, 0, len(arr))
		for _, v := range arr {
			items = append(items, sqlValue(v))
		}
		return fmt.Sprintf("%s IN (%s)", f.Field, strings.Join(items, ", "))
	case OperatorBetween:
		arr, ok := toArray(f.Value)
		if !ok || len(arr) != 2 {
			return ""
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", f.Field, sqlValue(arr[0]), sqlValue(arr[1]))
	}
	// unknown operators contribute no clause
	return ""
}

func sqlValue(v interface{}) string {
	if _, ok := util.ToFloat64(v); ok {
		if _, isStr := v.(string); !isStr {
			return util.ToString(v)
		}
	}
	return "'" + strings.ReplaceAll(util.ToString(v), "'", "''") + "'"
}
