/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"fmt"
	"time"

	"infini.sh/insight/core/orm"
	"infini.sh/insight/core/util"
)

type Chart struct {
	orm.ORMObjectBase

	DashboardID string `json:"dashboard_id"`
	WorkspaceID string `json:"workspace_id"`

	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DatasetIDs  []string `json:"dataset_ids"`

	Config QueryConfig `json:"config"`

	// Visualization holds axis/legend/color mapping, opaque to the pipeline.
	Visualization util.MapStr `json:"visualization,omitempty"`

	Filters []Filter `json:"filters,omitempty"`

	Status string `json:"status"`

	LastExecuted   *time.Time `json:"last_executed,omitempty"`
	ExecutionCount int64      `json:"execution_count"`
}

// QueryConfig is the declarative query of a chart.
type QueryConfig struct {
	Dimensions []string  `json:"dimensions,omitempty"`
	Measures   []Measure `json:"measures,omitempty"`
	Sorts      []SortKey `json:"sorts,omitempty"`
	Limit      int       `json:"limit,omitempty"`
}

const (
	AggSum           = "sum"
	AggCount         = "count"
	AggAvg           = "avg"
	AggMin           = "min"
	AggMax           = "max"
	AggDistinctCount = "distinct_count"
)

type Measure struct {
	Field string `json:"field"`
	Agg   string `json:"agg"`
	Alias string `json:"alias,omitempty"`
}

// Key is the output column name of the measure, eg. `sum(revenue)`.
func (m Measure) Key() string {
	if m.Alias != "" {
		return m.Alias
	}
	return fmt.Sprintf("%s(%s)", m.Agg, m.Field)
}

func ValidAgg(agg string) bool {
	switch agg {
	case AggSum, AggCount, AggAvg, AggMin, AggMax, AggDistinctCount:
		return true
	}
	return false
}

type SortKey struct {
	Field string `json:"field"`
	Order string `json:"order,omitempty"` // asc | desc
}

// FieldsReferenced lists every field name the config touches, used for
// schema validation against the dataset.
func (c *QueryConfig) FieldsReferenced() []string {
	fields := make([]string, 0, len(c.Dimensions)+len(c.Measures))
	fields = append(fields, c.Dimensions...)
	for _, m := range c.Measures {
		if m.Field != "*" {
			fields = append(fields, m.Field)
		}
	}
	return fields
}
