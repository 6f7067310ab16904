/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"context"
	"sort"
	"sync"
	"time"

	log "github.com/cihub/seelog"
	"infini.sh/insight/core/errors"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

// JobTracker keeps async job records in process memory. Records survive until
// GC reaps terminal jobs past the retention window.
type JobTracker struct {
	mu   sync.RWMutex
	jobs map[string]*insight.Job
}

func NewJobTracker() *JobTracker {
	return &JobTracker{jobs: map[string]*insight.Job{}}
}

func (t *JobTracker) Create(jobType insight.JobType, ownerID, workspace string) *insight.Job {
	now := time.Now()
	job := &insight.Job{
		ID:          util.GetUUID(),
		Type:        jobType,
		OwnerID:     ownerID,
		WorkspaceID: workspace,
		Status:      insight.JobStatusInitiated,
		Created:     now,
		Updated:     now,
	}
	t.mu.Lock()
	t.jobs[job.ID] = job
	t.mu.Unlock()
	return job
}

// Get returns a copy so callers never race the running goroutine.
func (t *JobTracker) Get(id string) (*insight.Job, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	job, ok := t.jobs[id]
	if !ok {
		return nil, false
	}
	clone := *job
	return &clone, true
}

func (t *JobTracker) List(workspace string) []*insight.Job {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*insight.Job, 0, len(t.jobs))
	for _, job := range t.jobs {
		if workspace != "" && job.WorkspaceID != workspace {
			continue
		}
		clone := *job
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Created.After(out[j].Created)
	})
	return out
}

func (t *JobTracker) transition(id string, status string, mutate func(*insight.Job)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok || job.IsTerminal() {
		return
	}
	job.Status = status
	job.Updated = time.Now()
	if mutate != nil {
		mutate(job)
	}
}

func (t *JobTracker) MarkProcessing(id string) {
	t.transition(id, insight.JobStatusProcessing, nil)
}

func (t *JobTracker) Complete(id string, result util.MapStr) {
	t.transition(id, insight.JobStatusCompleted, func(job *insight.Job) {
		now := job.Updated
		job.Completed = &now
		job.Result = result
	})
}

func (t *JobTracker) Fail(id string, err error) {
	t.transition(id, insight.JobStatusFailed, func(job *insight.Job) {
		now := job.Updated
		job.Completed = &now
		if err != nil {
			job.Error = err.Error()
		}
	})
}

// GC removes terminal jobs older than the retention window, returns the
// number reaped.
func (t *JobTracker) GC(retention time.Duration) int {
	cutoff := time.Now().Add(-retention)
	t.mu.Lock()
	defer t.mu.Unlock()
	reaped := 0
	for id, job := range t.jobs {
		if job.IsTerminal() && job.Updated.Before(cutoff) {
			delete(t.jobs, id)
			reaped++
		}
	}
	return reaped
}

// ---- job submission ----

// SubmitChartRefresh recomputes one chart in the background, bypassing the
// cache so the next read is warm.
func (svc *Service) SubmitChartRefresh(workspace, chartID string) (*insight.Job, error) {
	chart, err := svc.GetChart(workspace, chartID)
	if err != nil {
		return nil, err
	}
	job := svc.jobs.Create(insight.JobTypeRefresh, chart.ID, workspace)
	go svc.run(job.ID, func(ctx context.Context) (util.MapStr, error) {
		result, err := svc.chartData(ctx, chart, nil, true)
		if err != nil {
			return nil, err
		}
		return util.MapStr{"chart_id": chart.ID, "rows": len(result.Rows)}, nil
	})
	return job, nil
}

// SubmitDashboardRefresh recomputes every active chart of a dashboard. The
// job completes with per-chart errors listed; it fails only when no chart
// could be refreshed.
func (svc *Service) SubmitDashboardRefresh(workspace, dashboardID string) (*insight.Job, error) {
	dash, err := svc.GetDashboard(workspace, dashboardID)
	if err != nil {
		return nil, err
	}
	job := svc.jobs.Create(insight.JobTypeRefresh, dash.ID, workspace)
	go svc.run(job.ID, func(ctx context.Context) (util.MapStr, error) {
		result, err := svc.DashboardData(ctx, workspace, dash.ID, nil, true)
		if err != nil {
			return nil, err
		}
		var failures []string
		refreshed := 0
		for _, chart := range result.Charts {
			if chart.Error != "" {
				failures = append(failures, chart.ChartID+": "+chart.Error)
				continue
			}
			refreshed++
		}
		if refreshed == 0 && len(failures) > 0 {
			return nil, errors.Errorf("all charts failed: %v", failures)
		}
		summary := util.MapStr{"dashboard_id": dash.ID, "charts": refreshed}
		if len(failures) > 0 {
			summary["errors"] = failures
		}
		return summary, nil
	})
	return job, nil
}

// SubmitChartExport computes the chart and streams the result to a CSV file
// (plus object storage when configured).
func (svc *Service) SubmitChartExport(workspace, chartID string, overrides []insight.Filter) (*insight.Job, error) {
	chart, err := svc.GetChart(workspace, chartID)
	if err != nil {
		return nil, err
	}
	job := svc.jobs.Create(insight.JobTypeExport, chart.ID, workspace)
	go svc.run(job.ID, func(ctx context.Context) (util.MapStr, error) {
		result, err := svc.chartData(ctx, chart, overrides, false)
		if err != nil {
			return nil, err
		}
		return svc.exporter.Export(ctx, chart, result)
	})
	return job, nil
}

// run drives a job through its lifecycle under the configured timeout.
func (svc *Service) run(jobID string, fn func(ctx context.Context) (util.MapStr, error)) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("job [%v] panicked: %v", jobID, r)
			svc.jobs.Fail(jobID, errors.Errorf("panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), svc.jobTimeout)
	defer cancel()

	svc.jobs.MarkProcessing(jobID)
	result, err := fn(ctx)
	if err != nil {
		svc.jobs.Fail(jobID, err)
		return
	}
	svc.jobs.Complete(jobID, result)
}
