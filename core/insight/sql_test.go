/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSQLFullQuery(t *testing.T) {
	cfg := &QueryConfig{
		Dimensions: []string{"region"},
		Measures:   []Measure{{Field: "revenue", Agg: AggSum}},
		Sorts:      []SortKey{{Field: "sum(revenue)", Order: "desc"}},
		Limit:      10,
	}
	filters := []Filter{{Field: "status", Operator: OperatorEquals, Value: "active"}}

	sql := GenerateSQL("sales", cfg, filters)
	assert.Equal(t,
		`SELECT region, SUM(revenue) AS "sum(revenue)" FROM sales WHERE status = 'active' GROUP BY region ORDER BY sum(revenue) DESC LIMIT 10`,
		sql)
}

func TestGenerateSQLNoConfig(t *testing.T) {
	assert.Equal(t, "SELECT * FROM dataset", GenerateSQL("", nil, nil))
}

func TestGenerateSQLNoGroupByWithoutDimensions(t *testing.T) {
	cfg := &QueryConfig{Measures: []Measure{{Field: "*", Agg: AggCount, Alias: "total"}}}
	sql := GenerateSQL("sales", cfg, nil)
	assert.Equal(t, `SELECT COUNT(*) AS "total" FROM sales`, sql)
}

func TestGenerateSQLFilterForms(t *testing.T) {
	filters := []Filter{
		{Field: "price", Operator: OperatorGreaterThan, Value: 10},
		{Field: "name", Operator: OperatorContains, Value: "widget"},
		{Field: "region", Operator: OperatorIn, Value: []interface{}{"eu", "us"}},
		{Field: "qty", Operator: OperatorBetween, Value: []interface{}{1, 5}},
		{Field: "status", Operator: OperatorEquals, Value: "gone", Exclude: true},
	}
	sql := GenerateSQL("sales", nil, filters)
	assert.Contains(t, sql, "price > 10")
	assert.Contains(t, sql, "name LIKE '%widget%'")
	assert.Contains(t, sql, "region IN ('eu', 'us')")
	assert.Contains(t, sql, "qty BETWEEN 1 AND 5")
	assert.Contains(t, sql, "NOT (status = 'gone')")
}

func TestGenerateSQLSkipsUnknownOperator(t *testing.T) {
	sql := GenerateSQL("sales", nil, []Filter{{Field: "name", Operator: "regex", Value: ".*"}})
	assert.Equal(t, "SELECT * FROM sales", sql)
}

func TestGenerateSQLEscapesQuotes(t *testing.T) {
	sql := GenerateSQL("sales", nil, []Filter{{Field: "name", Operator: OperatorEquals, Value: "O'Brien"}})
	assert.Contains(t, sql, "name = 'O''Brien'")
}
