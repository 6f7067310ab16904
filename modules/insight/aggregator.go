/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"context"
	"sync"

	log "github.com/cihub/seelog"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

// DashboardDataResult bundles every chart of a dashboard, computed
// concurrently. Charts that failed carry an error marker instead of rows so
// one bad chart never sinks the whole dashboard.
type DashboardDataResult struct {
	DashboardID   string                 `json:"dashboard_id"`
	Title         string                 `json:"title"`
	Charts        []*ChartDataResult     `json:"charts"`
	GlobalFilters []insight.GlobalFilter `json:"global_filters,omitempty"`
	Layout        util.MapStr            `json:"layout,omitempty"`
	Theme         util.MapStr            `json:"theme,omitempty"`
}

// DashboardData fans out one goroutine per chart. The result slice keeps the
// charts' stored order regardless of completion order.
func (svc *Service) DashboardData(ctx context.Context, workspace, dashboardID string, overrides []insight.Filter, forceRefresh bool) (*DashboardDataResult, error) {
	dash, err := svc.GetDashboard(workspace, dashboardID)
	if err != nil {
		return nil, err
	}
	charts, err := svc.DashboardCharts(workspace, dash.ID, false)
	if err != nil {
		return nil, err
	}

	results := make([]*ChartDataResult, len(charts))
	var wg sync.WaitGroup
	for i := range charts {
		wg.Add(1)
		go func(slot int, chart insight.Chart) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("chart [%v] panicked during evaluation: %v", chart.ID, r)
					results[slot] = &ChartDataResult{ChartID: chart.ID, Title: chart.Title, Error: "internal error"}
				}
			}()
			filters := svc.globalFiltersFor(dash, chart.ID, overrides)
			result, err := svc.chartData(ctx, &chart, filters, forceRefresh)
			if err != nil {
				log.Errorf("chart [%v] failed: %v", chart.ID, err)
				results[slot] = &ChartDataResult{ChartID: chart.ID, Title: chart.Title, Error: err.Error()}
				return
			}
			results[slot] = result
		}(i, charts[i])
	}
	wg.Wait()

	return &DashboardDataResult{
		DashboardID:   dash.ID,
		Title:         dash.Title,
		Charts:        results,
		GlobalFilters: dash.GlobalFilters,
		Layout:        dash.Layout,
		Theme:         dash.Theme,
	}, nil
}

// globalFiltersFor resolves the dashboard's global filters down to the
// override list for a single chart, honoring filter-to-chart connections.
// A request-level override on the same field displaces the global filter,
// so one value applies per field rather than both conjunctively.
func (svc *Service) globalFiltersFor(dash *insight.Dashboard, chartID string, overrides []insight.Filter) []insight.Filter {
	overridden := map[string]bool{}
	for _, f := range overrides {
		overridden[f.Field] = true
	}
	var out []insight.Filter
	for _, gf := range dash.GlobalFilters {
		if overridden[gf.Filter.Field] {
			continue
		}
		if !insight.AppliesTo(dash.Connections, gf.ID, chartID) {
			continue
		}
		out = append(out, gf.Filter)
	}
	return append(out, overrides...)
}
