/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"context"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

func waitForJob(t *testing.T, svc *Service, jobID string) *insight.Job {
	t.Helper()
	var job *insight.Job
	require.Eventually(t, func() bool {
		j, ok := svc.Jobs().Get(jobID)
		if !ok || !j.IsTerminal() {
			return false
		}
		job = j
		return true
	}, 5*time.Second, 10*time.Millisecond)
	return job
}

func TestJobLifecycle(t *testing.T) {
	tracker := NewJobTracker()

	job := tracker.Create(insight.JobTypeRefresh, "chart-1", "w1")
	assert.Equal(t, insight.JobStatusInitiated, job.Status)
	assert.False(t, job.IsTerminal())

	tracker.MarkProcessing(job.ID)
	got, ok := tracker.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, insight.JobStatusProcessing, got.Status)

	tracker.Complete(job.ID, util.MapStr{"rows": 3})
	got, _ = tracker.Get(job.ID)
	assert.Equal(t, insight.JobStatusCompleted, got.Status)
	assert.NotNil(t, got.Completed)
	assert.EqualValues(t, 3, got.Result["rows"])

	// terminal jobs never transition again
	tracker.Fail(job.ID, assert.AnError)
	got, _ = tracker.Get(job.ID)
	assert.Equal(t, insight.JobStatusCompleted, got.Status)
	assert.Empty(t, got.Error)
}

func TestJobListScopedByWorkspace(t *testing.T) {
	tracker := NewJobTracker()
	tracker.Create(insight.JobTypeRefresh, "a", "w1")
	tracker.Create(insight.JobTypeExport, "b", "w2")

	assert.Len(t, tracker.List("w1"), 1)
	assert.Len(t, tracker.List("w2"), 1)
	assert.Len(t, tracker.List(""), 2)
}

func TestJobGC(t *testing.T) {
	tracker := NewJobTracker()

	done := tracker.Create(insight.JobTypeRefresh, "a", "w1")
	tracker.Complete(done.ID, nil)
	running := tracker.Create(insight.JobTypeRefresh, "b", "w1")

	// zero retention reaps every terminal job immediately
	reaped := tracker.GC(0)
	assert.Equal(t, 1, reaped)

	_, ok := tracker.Get(done.ID)
	assert.False(t, ok)
	_, ok = tracker.Get(running.ID)
	assert.True(t, ok)
}

func TestChartRefreshJobWarmsCache(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")
	chart := seedRevenueChart(t, svc, "w1", "", dataset)

	job, err := svc.SubmitChartRefresh("w1", chart.ID)
	require.NoError(t, err)
	assert.Equal(t, insight.JobTypeRefresh, job.Type)

	finished := waitForJob(t, svc, job.ID)
	assert.Equal(t, insight.JobStatusCompleted, finished.Status)
	assert.EqualValues(t, 2, finished.Result["rows"])

	// the refresh left a warm entry behind
	result, err := svc.ChartData(context.Background(), "w1", chart.ID, nil, false)
	require.NoError(t, err)
	assert.True(t, result.Cached)
}

func TestRefreshJobFailure(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")
	chart := seedRevenueChart(t, svc, "w1", "", dataset)
	require.NoError(t, svc.DeleteDataset("w1", dataset.ID))

	job, err := svc.SubmitChartRefresh("w1", chart.ID)
	require.NoError(t, err)

	finished := waitForJob(t, svc, job.ID)
	assert.Equal(t, insight.JobStatusFailed, finished.Status)
	assert.NotEmpty(t, finished.Error)
}

func TestDashboardRefreshJob(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")

	dash := &insight.Dashboard{Title: "overview"}
	require.NoError(t, svc.CreateDashboard("w1", dash))
	seedRevenueChart(t, svc, "w1", dash.ID, dataset)

	job, err := svc.SubmitDashboardRefresh("w1", dash.ID)
	require.NoError(t, err)

	finished := waitForJob(t, svc, job.ID)
	assert.Equal(t, insight.JobStatusCompleted, finished.Status)
	assert.EqualValues(t, 1, finished.Result["charts"])
}

func TestChartExportJobWritesCSV(t *testing.T) {
	svc := newTestService(t)
	dataset := seedSalesDataset(t, svc, "w1")
	chart := seedRevenueChart(t, svc, "w1", "", dataset)

	job, err := svc.SubmitChartExport("w1", chart.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, insight.JobTypeExport, job.Type)

	finished := waitForJob(t, svc, job.ID)
	require.Equal(t, insight.JobStatusCompleted, finished.Status)

	path, ok := finished.Result["file"].(string)
	require.True(t, ok)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 groups
	assert.Equal(t, []string{"region", "total"}, records[0])
	assert.Equal(t, []string{"eu", "150"}, records[1])
	assert.Equal(t, []string{"us", "200"}, records[2])
}

func TestJobsNotFoundForMissingOwner(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.SubmitChartRefresh("w1", "missing")
	require.Error(t, err)
}
