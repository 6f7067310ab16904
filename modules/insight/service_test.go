/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"infini.sh/insight/core/errors"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
	"infini.sh/insight/plugins/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(memory.NewORM(), NewLocalCache(1000), NewJobTracker(), &Config{
		PreviewSize: 100,
		Cache:       CacheConfig{TTL: "1m"},
		Jobs:        JobConfig{Timeout: "10s"},
		Export:      ExportConfig{Path: t.TempDir()},
	})
	t.Cleanup(func() { svc.cache.Close() })
	return svc
}

func seedSalesDataset(t *testing.T, svc *Service, workspace string) *insight.Dataset {
	t.Helper()
	dataset := &insight.Dataset{
		Title: "sales",
		Rows: []util.MapStr{
			{"region": "eu", "revenue": 100, "status": "active"},
			{"region": "eu", "revenue": 50, "status": "active"},
			{"region": "us", "revenue": 200, "status": "inactive"},
		},
	}
	require.NoError(t, svc.CreateDataset(workspace, dataset))
	return dataset
}

func seedRevenueChart(t *testing.T, svc *Service, workspace, dashboardID string, dataset *insight.Dataset) *insight.Chart {
	t.Helper()
	chart := &insight.Chart{
		DashboardID: dashboardID,
		Title:       "revenue by region",
		DatasetIDs:  []string{dataset.ID},
		Config: insight.QueryConfig{
			Dimensions: []string{"region"},
			Measures:   []insight.Measure{{Field: "revenue", Agg: insight.AggSum, Alias: "total"}},
		},
	}
	require.NoError(t, svc.CreateChart(workspace, chart))
	return chart
}

func TestChartDataComputesAndCaches(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")
	chart := seedRevenueChart(t, svc, "w1", "", dataset)

	result, err := svc.ChartData(context.Background(), "w1", chart.ID, nil, false)
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, 150.0, result.Rows[0]["total"])
	assert.Contains(t, result.Query, "SUM(revenue)")

	// second call serves the cached entry
	again, err := svc.ChartData(context.Background(), "w1", chart.ID, nil, false)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, result.Rows, again.Rows)

	// force refresh recomputes
	forced, err := svc.ChartData(context.Background(), "w1", chart.ID, nil, true)
	require.NoError(t, err)
	assert.False(t, forced.Cached)
}

func TestChartDataBookkeeping(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")
	chart := seedRevenueChart(t, svc, "w1", "", dataset)

	_, err := svc.ChartData(context.Background(), "w1", chart.ID, nil, false)
	require.NoError(t, err)

	stored, err := svc.GetChart("w1", chart.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ExecutionCount)
	assert.NotNil(t, stored.LastExecuted)

	// a cache hit does not count as an execution
	_, err = svc.ChartData(context.Background(), "w1", chart.ID, nil, false)
	require.NoError(t, err)
	stored, err = svc.GetChart("w1", chart.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ExecutionCount)
}

func TestChartDataFilterOverridesAreIsolated(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")
	chart := seedRevenueChart(t, svc, "w1", "", dataset)

	filtered, err := svc.ChartData(context.Background(), "w1", chart.ID, []insight.Filter{
		{Field: "status", Operator: insight.OperatorEquals, Value: "active"},
	}, false)
	require.NoError(t, err)
	assert.Len(t, filtered.Rows, 1)
	assert.Equal(t, "eu", filtered.Rows[0]["region"])

	// the unfiltered request must not see the filtered cache entry
	plain, err := svc.ChartData(context.Background(), "w1", chart.ID, nil, false)
	require.NoError(t, err)
	assert.False(t, plain.Cached)
	assert.Len(t, plain.Rows, 2)
}

func TestChartUpdateInvalidatesCache(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")
	chart := seedRevenueChart(t, svc, "w1", "", dataset)

	_, err := svc.ChartData(context.Background(), "w1", chart.ID, nil, false)
	require.NoError(t, err)

	chart.Title = "renamed"
	require.NoError(t, svc.UpdateChart("w1", chart))

	result, err := svc.ChartData(context.Background(), "w1", chart.ID, nil, false)
	require.NoError(t, err)
	assert.False(t, result.Cached)
}

func TestWorkspaceScoping(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")
	chart := seedRevenueChart(t, svc, "w1", "", dataset)

	_, err := svc.GetChart("w2", chart.ID)
	require.Error(t, err)
	assert.Equal(t, errors.NotFound, errors.CodeOf(err))

	_, err = svc.GetDataset("w2", dataset.ID)
	require.Error(t, err)
	assert.Equal(t, errors.NotFound, errors.CodeOf(err))
}

func TestChartValidationAgainstSchema(t *testing.T) {
	svc := newTestService(t)
	dataset := &insight.Dataset{
		Title:  "typed",
		Fields: []insight.FieldDef{{Name: "region", Type: "string"}},
		Rows:   []util.MapStr{{"region": "eu"}},
	}
	require.NoError(t, svc.CreateDataset("w1", dataset))

	chart := &insight.Chart{
		Title:      "bad",
		DatasetIDs: []string{dataset.ID},
		Config: insight.QueryConfig{
			Measures: []insight.Measure{{Field: "revenue", Agg: insight.AggSum}},
		},
	}
	err := svc.CreateChart("w1", chart)
	require.Error(t, err)
	assert.Equal(t, errors.BadRequest, errors.CodeOf(err))

	// unknown aggregation is rejected too
	chart = &insight.Chart{
		Title:      "bad agg",
		DatasetIDs: []string{dataset.ID},
		Config: insight.QueryConfig{
			Measures: []insight.Measure{{Field: "region", Agg: "median"}},
		},
	}
	err = svc.CreateChart("w1", chart)
	require.Error(t, err)
	assert.Equal(t, errors.BadRequest, errors.CodeOf(err))
}

func TestDashboardArchiveCascades(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")

	dash := &insight.Dashboard{Title: "sales overview"}
	require.NoError(t, svc.CreateDashboard("w1", dash))
	chart := seedRevenueChart(t, svc, "w1", dash.ID, dataset)

	require.NoError(t, svc.DeleteDashboard("w1", dash.ID))

	stored, err := svc.GetDashboard("w1", dash.ID)
	require.NoError(t, err)
	assert.Equal(t, insight.StatusArchived, stored.Status)

	storedChart, err := svc.GetChart("w1", chart.ID)
	require.NoError(t, err)
	assert.Equal(t, insight.StatusArchived, storedChart.Status)

	// archived dashboards drop out of default listings
	items, total, err := svc.SearchDashboards("w1", "", 0, 10, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Len(t, items, 0)

	items, _, err = svc.SearchDashboards("w1", "", 0, 10, true)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDatasetPreview(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")

	rows, columns, err := svc.DatasetPreview(context.Background(), "w1", dataset.ID, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "region", columns[0].Name)
}

func TestDashboardCacheStatusAndClear(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")

	dash := &insight.Dashboard{Title: "sales"}
	require.NoError(t, svc.CreateDashboard("w1", dash))
	chart := seedRevenueChart(t, svc, "w1", dash.ID, dataset)

	statuses, err := svc.DashboardCacheStatus("w1", dash.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Cached)

	_, err = svc.DashboardData(context.Background(), "w1", dash.ID, nil, false)
	require.NoError(t, err)

	statuses, err = svc.DashboardCacheStatus("w1", dash.ID)
	require.NoError(t, err)
	assert.True(t, statuses[0].Cached)

	require.NoError(t, svc.ClearDashboardCache("w1", dash.ID))
	statuses, err = svc.DashboardCacheStatus("w1", dash.ID)
	require.NoError(t, err)
	assert.False(t, statuses[0].Cached)

	_ = chart
}
