/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"infini.sh/insight/core/orm"
	"infini.sh/insight/core/util"
)

const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

type Dashboard struct {
	orm.ORMObjectBase

	WorkspaceID string   `json:"workspace_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Layout and Theme are opaque to the pipeline, they round-trip as-is.
	Layout util.MapStr `json:"layout,omitempty"`
	Theme  util.MapStr `json:"theme,omitempty"`

	GlobalFilters []GlobalFilter     `json:"global_filters,omitempty"`
	Connections   []FilterConnection `json:"connections,omitempty"`

	Status    string `json:"status"`
	ViewCount int64  `json:"view_count"`

	User string `json:"user,omitempty"`
}

// GlobalFilter is a dashboard level filter control that can be wired to one
// or more charts.
type GlobalFilter struct {
	ID     string       `json:"id"`
	Title  string       `json:"title,omitempty"`
	Filter Filter       `json:"filter"`
	Source FilterSource `json:"source,omitempty"`
}

// FilterSource describes where a filter control gets its selectable values.
type FilterSource struct {
	Type      string        `json:"type,omitempty"` // static | query | dataset
	Values    []interface{} `json:"values,omitempty"`
	DatasetID string        `json:"dataset_id,omitempty"`
	Query     util.MapStr   `json:"query,omitempty"`
}

// FilterConnection wires a global filter to charts. An empty chart list means
// the filter applies to every chart of the dashboard.
type FilterConnection struct {
	FilterID string   `json:"filter_id"`
	ChartIDs []string `json:"chart_ids,omitempty"`
}

// AppliesTo reports whether the global filter identified by filterID targets
// the given chart under these connections.
func AppliesTo(connections []FilterConnection, filterID, chartID string) bool {
	for _, conn := range connections {
		if conn.FilterID != filterID {
			continue
		}
		if len(conn.ChartIDs) == 0 {
			return true
		}
		return util.StringInArray(conn.ChartIDs, chartID)
	}
	// an unconnected filter applies to all charts
	return true
}
