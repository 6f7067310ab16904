/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

func TestDashboardDataAggregatesAllCharts(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")

	dash := &insight.Dashboard{Title: "overview", Layout: util.MapStr{"cols": 12}}
	require.NoError(t, svc.CreateDashboard("w1", dash))

	revenue := seedRevenueChart(t, svc, "w1", dash.ID, dataset)
	count := &insight.Chart{
		DashboardID: dash.ID,
		Title:       "row count",
		DatasetIDs:  []string{dataset.ID},
		Config: insight.QueryConfig{
			Measures: []insight.Measure{{Field: "*", Agg: insight.AggCount, Alias: "rows"}},
		},
	}
	require.NoError(t, svc.CreateChart("w1", count))

	result, err := svc.DashboardData(context.Background(), "w1", dash.ID, nil, false)
	require.NoError(t, err)
	require.Len(t, result.Charts, 2)

	// slots keep the charts' stored order
	assert.Equal(t, revenue.ID, result.Charts[0].ChartID)
	assert.Equal(t, count.ID, result.Charts[1].ChartID)

	assert.Equal(t, 150.0, result.Charts[0].Rows[0]["total"])
	assert.EqualValues(t, 3, result.Charts[1].Rows[0]["rows"])

	assert.Equal(t, dash.Title, result.Title)
	assert.EqualValues(t, 12, result.Layout["cols"])
}

func TestDashboardDataPartialFailure(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")

	dash := &insight.Dashboard{Title: "overview"}
	require.NoError(t, svc.CreateDashboard("w1", dash))

	healthy := seedRevenueChart(t, svc, "w1", dash.ID, dataset)

	doomed := &insight.Chart{
		DashboardID: dash.ID,
		Title:       "doomed",
		DatasetIDs:  []string{dataset.ID},
		Config: insight.QueryConfig{
			Measures: []insight.Measure{{Field: "*", Agg: insight.AggCount}},
		},
	}
	require.NoError(t, svc.CreateChart("w1", doomed))
	// break the chart after creation by removing its dataset
	require.NoError(t, svc.DeleteDataset("w1", dataset.ID))
	dataset2 := seedSalesDataset(t, svc, "w1")
	healthy.DatasetIDs = []string{dataset2.ID}
	require.NoError(t, svc.UpdateChart("w1", healthy))

	result, err := svc.DashboardData(context.Background(), "w1", dash.ID, nil, false)
	require.NoError(t, err)
	require.Len(t, result.Charts, 2)

	assert.Empty(t, result.Charts[0].Error)
	assert.Len(t, result.Charts[0].Rows, 2)

	assert.NotEmpty(t, result.Charts[1].Error)
	assert.Empty(t, result.Charts[1].Rows)
}

func TestDashboardDataGlobalFilterConnections(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")

	dash := &insight.Dashboard{Title: "overview"}
	require.NoError(t, svc.CreateDashboard("w1", dash))

	filtered := seedRevenueChart(t, svc, "w1", dash.ID, dataset)
	unfiltered := &insight.Chart{
		DashboardID: dash.ID,
		Title:       "all rows",
		DatasetIDs:  []string{dataset.ID},
		Config: insight.QueryConfig{
			Measures: []insight.Measure{{Field: "*", Agg: insight.AggCount, Alias: "rows"}},
		},
	}
	require.NoError(t, svc.CreateChart("w1", unfiltered))

	_, err := svc.UpdateDashboardFilters("w1", dash.ID,
		[]insight.GlobalFilter{{
			ID:     "gf1",
			Title:  "active only",
			Filter: insight.Filter{Field: "status", Operator: insight.OperatorEquals, Value: "active"},
		}},
		[]insight.FilterConnection{{FilterID: "gf1", ChartIDs: []string{filtered.ID}}},
	)
	require.NoError(t, err)

	result, err := svc.DashboardData(context.Background(), "w1", dash.ID, nil, false)
	require.NoError(t, err)
	require.Len(t, result.Charts, 2)

	// the connected chart only sees active rows
	require.Len(t, result.Charts[0].Rows, 1)
	assert.Equal(t, 150.0, result.Charts[0].Rows[0]["total"])

	// the unconnected chart sees everything
	assert.EqualValues(t, 3, result.Charts[1].Rows[0]["rows"])
}

func TestDashboardDataOverrideDisplacesGlobalFilterOnSameField(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")

	dash := &insight.Dashboard{Title: "overview"}
	require.NoError(t, svc.CreateDashboard("w1", dash))
	seedRevenueChart(t, svc, "w1", dash.ID, dataset)

	_, err := svc.UpdateDashboardFilters("w1", dash.ID,
		[]insight.GlobalFilter{{
			ID:     "gf1",
			Filter: insight.Filter{Field: "region", Operator: insight.OperatorEquals, Value: "eu"},
		}}, nil)
	require.NoError(t, err)

	// the override replaces the global filter on the same field; stacking
	// them conjunctively would match nothing
	result, err := svc.DashboardData(context.Background(), "w1", dash.ID, []insight.Filter{
		{Field: "region", Operator: insight.OperatorEquals, Value: "us"},
	}, false)
	require.NoError(t, err)
	require.Len(t, result.Charts, 1)
	require.Len(t, result.Charts[0].Rows, 1)
	assert.Equal(t, "us", result.Charts[0].Rows[0]["region"])
	assert.Equal(t, 200.0, result.Charts[0].Rows[0]["total"])
}

func TestDashboardDataOverridesReachEveryChart(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")

	dash := &insight.Dashboard{Title: "overview"}
	require.NoError(t, svc.CreateDashboard("w1", dash))
	seedRevenueChart(t, svc, "w1", dash.ID, dataset)

	result, err := svc.DashboardData(context.Background(), "w1", dash.ID, []insight.Filter{
		{Field: "region", Operator: insight.OperatorEquals, Value: "us"},
	}, false)
	require.NoError(t, err)
	require.Len(t, result.Charts, 1)
	require.Len(t, result.Charts[0].Rows, 1)
	assert.Equal(t, "us", result.Charts[0].Rows[0]["region"])
}
