/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"context"
	"time"

	log "github.com/cihub/seelog"
	"infini.sh/insight/core/errors"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/orm"
	"infini.sh/insight/core/util"
	"infini.sh/insight/modules/insight/provider"
)

// Service implements the chart data pipeline on top of an injected document
// store and result cache.
type Service struct {
	store orm.ORM
	cache ResultCache
	jobs  *JobTracker

	ttl         time.Duration
	jobTimeout  time.Duration
	previewSize int

	exporter *Exporter
}

func NewService(store orm.ORM, cache ResultCache, tracker *JobTracker, cfg *Config) *Service {
	svc := &Service{
		store:       store,
		cache:       cache,
		jobs:        tracker,
		ttl:         util.GetDurationOrDefault(cfg.Cache.TTL, 15*time.Minute),
		jobTimeout:  util.GetDurationOrDefault(cfg.Jobs.Timeout, 5*time.Minute),
		previewSize: cfg.PreviewSize,
		exporter:    NewExporter(cfg.Export),
	}
	if svc.previewSize <= 0 {
		svc.previewSize = 100
	}
	return svc
}

func (svc *Service) Jobs() *JobTracker {
	return svc.jobs
}

func notFound(format string, args ...interface{}) error {
	return errors.NewWithCode(nil, errors.NotFound, errors.Errorf(format, args...).Error())
}

func badRequest(format string, args ...interface{}) error {
	return errors.NewWithCode(nil, errors.BadRequest, errors.Errorf(format, args...).Error())
}

// ---- dashboards ----

func (svc *Service) CreateDashboard(workspace string, dash *insight.Dashboard) error {
	if dash.Title == "" {
		return badRequest("dashboard title is required")
	}
	dash.WorkspaceID = workspace
	dash.Status = insight.StatusActive
	dash.ViewCount = 0
	return svc.store.Create(dash)
}

func (svc *Service) GetDashboard(workspace, id string) (*insight.Dashboard, error) {
	dash := &insight.Dashboard{}
	dash.ID = id
	exists, err := svc.store.Get(dash)
	if err != nil {
		return nil, err
	}
	// cross-workspace access looks identical to a missing document
	if !exists || dash.WorkspaceID != workspace {
		return nil, notFound("dashboard [%v] not found", id)
	}
	return dash, nil
}

// TouchDashboardView bumps the view counter, best effort.
func (svc *Service) TouchDashboardView(dash *insight.Dashboard) {
	dash.ViewCount++
	if err := svc.store.Update(dash); err != nil {
		log.Error("failed to update dashboard view count: ", err)
	}
}

func (svc *Service) UpdateDashboard(workspace string, dash *insight.Dashboard) error {
	existing, err := svc.GetDashboard(workspace, dash.ID)
	if err != nil {
		return err
	}
	dash.WorkspaceID = existing.WorkspaceID
	dash.ViewCount = existing.ViewCount
	dash.Created = existing.Created
	if dash.Status == "" {
		dash.Status = existing.Status
	}
	if err := svc.store.Update(dash); err != nil {
		return err
	}
	svc.invalidateDashboard(workspace, dash.ID)
	return nil
}

// UpdateDashboardFilters replaces the global filter definitions and their
// chart connections.
func (svc *Service) UpdateDashboardFilters(workspace, id string, filters []insight.GlobalFilter, connections []insight.FilterConnection) (*insight.Dashboard, error) {
	dash, err := svc.GetDashboard(workspace, id)
	if err != nil {
		return nil, err
	}
	for i := range filters {
		if filters[i].ID == "" {
			filters[i].ID = util.GetUUID()
		}
	}
	dash.GlobalFilters = filters
	dash.Connections = connections
	if err := svc.store.Update(dash); err != nil {
		return nil, err
	}
	svc.invalidateDashboard(workspace, id)
	return dash, nil
}

// DeleteDashboard archives the dashboard and cascade-archives its charts.
func (svc *Service) DeleteDashboard(workspace, id string) error {
	dash, err := svc.GetDashboard(workspace, id)
	if err != nil {
		return err
	}
	dash.Status = insight.StatusArchived
	if err := svc.store.Update(dash); err != nil {
		return err
	}

	charts, err := svc.DashboardCharts(workspace, id, true)
	if err != nil {
		return err
	}
	for i := range charts {
		charts[i].Status = insight.StatusArchived
		if err := svc.store.Update(&charts[i]); err != nil {
			log.Errorf("failed to archive chart [%v]: %v", charts[i].ID, err)
		}
	}
	svc.invalidateDashboard(workspace, id)
	return nil
}

func (svc *Service) SearchDashboards(workspace, keyword string, from, size int, includeArchived bool) ([]insight.Dashboard, int64, error) {
	q := orm.NewQuery().
		AddCond(orm.Eq("workspace_id", workspace)).
		AddSort("created", orm.DESC).
		SetFrom(from).
		SetSize(size)
	if !includeArchived {
		q.AddCond(orm.NotEq("status", insight.StatusArchived))
	}
	if keyword != "" {
		q.AddCond(orm.Contains("title", keyword))
	}
	result, err := svc.store.Search(&insight.Dashboard{}, q)
	if err != nil {
		return nil, 0, err
	}
	items, err := orm.UnmarshalDocs[insight.Dashboard](result)
	return items, result.Total, err
}

// ---- charts ----

func (svc *Service) CreateChart(workspace string, chart *insight.Chart) error {
	chart.WorkspaceID = workspace
	chart.Status = insight.StatusActive
	if chart.DashboardID != "" {
		if _, err := svc.GetDashboard(workspace, chart.DashboardID); err != nil {
			return err
		}
	}
	if err := svc.validateChart(workspace, chart); err != nil {
		return err
	}
	return svc.store.Create(chart)
}

func (svc *Service) GetChart(workspace, id string) (*insight.Chart, error) {
	chart := &insight.Chart{}
	chart.ID = id
	exists, err := svc.store.Get(chart)
	if err != nil {
		return nil, err
	}
	if !exists || chart.WorkspaceID != workspace {
		return nil, notFound("chart [%v] not found", id)
	}
	return chart, nil
}

func (svc *Service) UpdateChart(workspace string, chart *insight.Chart) error {
	existing, err := svc.GetChart(workspace, chart.ID)
	if err != nil {
		return err
	}
	chart.WorkspaceID = existing.WorkspaceID
	chart.Created = existing.Created
	chart.ExecutionCount = existing.ExecutionCount
	chart.LastExecuted = existing.LastExecuted
	if chart.Status == "" {
		chart.Status = existing.Status
	}
	if err := svc.validateChart(workspace, chart); err != nil {
		return err
	}
	if err := svc.store.Update(chart); err != nil {
		return err
	}
	svc.cache.InvalidateOwner(chart.ID)
	return nil
}

func (svc *Service) DeleteChart(workspace, id string) error {
	chart, err := svc.GetChart(workspace, id)
	if err != nil {
		return err
	}
	if err := svc.store.Delete(chart); err != nil {
		return err
	}
	svc.cache.InvalidateOwner(id)
	return nil
}

func (svc *Service) SearchCharts(workspace, keyword string, from, size int) ([]insight.Chart, int64, error) {
	q := orm.NewQuery().
		AddCond(orm.Eq("workspace_id", workspace), orm.NotEq("status", insight.StatusArchived)).
		AddSort("created", orm.DESC).
		SetFrom(from).
		SetSize(size)
	if keyword != "" {
		q.AddCond(orm.Contains("title", keyword))
	}
	result, err := svc.store.Search(&insight.Chart{}, q)
	if err != nil {
		return nil, 0, err
	}
	items, err := orm.UnmarshalDocs[insight.Chart](result)
	return items, result.Total, err
}

// DashboardCharts lists charts attached to a dashboard in creation order.
func (svc *Service) DashboardCharts(workspace, dashboardID string, includeArchived bool) ([]insight.Chart, error) {
	q := orm.NewQuery().
		AddCond(orm.Eq("workspace_id", workspace), orm.Eq("dashboard_id", dashboardID)).
		AddSort("created", orm.ASC)
	if !includeArchived {
		q.AddCond(orm.NotEq("status", insight.StatusArchived))
	}
	result, err := svc.store.Search(&insight.Chart{}, q)
	if err != nil {
		return nil, err
	}
	return orm.UnmarshalDocs[insight.Chart](result)
}

// validateChart checks dataset ownership and, when the dataset declares a
// schema, that every referenced field exists in it.
func (svc *Service) validateChart(workspace string, chart *insight.Chart) error {
	if len(chart.DatasetIDs) == 0 {
		return badRequest("chart requires at least one dataset")
	}
	for _, m := range chart.Config.Measures {
		if !insight.ValidAgg(m.Agg) {
			return badRequest("unknown aggregation [%v]", m.Agg)
		}
	}
	for _, id := range chart.DatasetIDs {
		dataset, err := svc.GetDataset(workspace, id)
		if err != nil {
			return badRequest("dataset [%v] not found in workspace", id)
		}
		for _, field := range chart.Config.FieldsReferenced() {
			if !dataset.HasField(field) {
				return badRequest("field [%v] does not exist in dataset [%v]", field, id)
			}
		}
	}
	return nil
}

// ---- datasets & datasources ----

func (svc *Service) CreateDataset(workspace string, dataset *insight.Dataset) error {
	if dataset.Title == "" {
		return badRequest("dataset title is required")
	}
	dataset.WorkspaceID = workspace
	if dataset.DatasourceID != "" {
		if _, err := svc.GetDatasource(workspace, dataset.DatasourceID); err != nil {
			return badRequest("datasource [%v] not found in workspace", dataset.DatasourceID)
		}
	}
	return svc.store.Create(dataset)
}

func (svc *Service) GetDataset(workspace, id string) (*insight.Dataset, error) {
	dataset := &insight.Dataset{}
	dataset.ID = id
	exists, err := svc.store.Get(dataset)
	if err != nil {
		return nil, err
	}
	if !exists || dataset.WorkspaceID != workspace {
		return nil, notFound("dataset [%v] not found", id)
	}
	return dataset, nil
}

func (svc *Service) UpdateDataset(workspace string, dataset *insight.Dataset) error {
	existing, err := svc.GetDataset(workspace, dataset.ID)
	if err != nil {
		return err
	}
	dataset.WorkspaceID = existing.WorkspaceID
	dataset.Created = existing.Created
	return svc.store.Update(dataset)
}

func (svc *Service) DeleteDataset(workspace, id string) error {
	dataset, err := svc.GetDataset(workspace, id)
	if err != nil {
		return err
	}
	return svc.store.Delete(dataset)
}

func (svc *Service) SearchDatasets(workspace string, from, size int) ([]insight.Dataset, int64, error) {
	q := orm.NewQuery().
		AddCond(orm.Eq("workspace_id", workspace)).
		AddSort("created", orm.DESC).
		SetFrom(from).
		SetSize(size)
	result, err := svc.store.Search(&insight.Dataset{}, q)
	if err != nil {
		return nil, 0, err
	}
	items, err := orm.UnmarshalDocs[insight.Dataset](result)
	return items, result.Total, err
}

func (svc *Service) CreateDatasource(workspace string, ds *insight.Datasource) error {
	if ds.Type == "" {
		return badRequest("datasource type is required")
	}
	if _, err := provider.Get(ds.Type); err != nil {
		return badRequest("unknown datasource type [%v]", ds.Type)
	}
	ds.WorkspaceID = workspace
	return svc.store.Create(ds)
}

func (svc *Service) GetDatasource(workspace, id string) (*insight.Datasource, error) {
	ds := &insight.Datasource{}
	ds.ID = id
	exists, err := svc.store.Get(ds)
	if err != nil {
		return nil, err
	}
	if !exists || ds.WorkspaceID != workspace {
		return nil, notFound("datasource [%v] not found", id)
	}
	return ds, nil
}

func (svc *Service) UpdateDatasource(workspace string, ds *insight.Datasource) error {
	existing, err := svc.GetDatasource(workspace, ds.ID)
	if err != nil {
		return err
	}
	ds.WorkspaceID = existing.WorkspaceID
	ds.Created = existing.Created
	return svc.store.Update(ds)
}

func (svc *Service) DeleteDatasource(workspace, id string) error {
	ds, err := svc.GetDatasource(workspace, id)
	if err != nil {
		return err
	}
	return svc.store.Delete(ds)
}

func (svc *Service) SearchDatasources(workspace string, from, size int) ([]insight.Datasource, int64, error) {
	q := orm.NewQuery().
		AddCond(orm.Eq("workspace_id", workspace)).
		AddSort("created", orm.DESC).
		SetFrom(from).
		SetSize(size)
	result, err := svc.store.Search(&insight.Datasource{}, q)
	if err != nil {
		return nil, 0, err
	}
	items, err := orm.UnmarshalDocs[insight.Datasource](result)
	return items, result.Total, err
}

// TestDatasource checks connectivity through the provider.
func (svc *Service) TestDatasource(ctx context.Context, workspace, id string) error {
	ds, err := svc.GetDatasource(workspace, id)
	if err != nil {
		return err
	}
	p, err := provider.Get(ds.Type)
	if err != nil {
		return err
	}
	return p.Test(ctx, ds)
}

// DatasetPreview executes the dataset and returns the first rows untouched
// by any chart pipeline.
func (svc *Service) DatasetPreview(ctx context.Context, workspace, id string, size int) ([]util.MapStr, []insight.Column, error) {
	dataset, err := svc.GetDataset(workspace, id)
	if err != nil {
		return nil, nil, err
	}
	rows, err := svc.fetchDatasetRows(ctx, workspace, dataset)
	if err != nil {
		return nil, nil, err
	}
	if size <= 0 || size > svc.previewSize {
		size = svc.previewSize
	}
	if len(rows) > size {
		rows = rows[:size]
	}
	return rows, insight.ColumnsOf(rows), nil
}

// ---- chart data ----

// ChartDataResult is the payload served for one chart, also the slot shape
// inside a dashboard data response.
type ChartDataResult struct {
	ChartID       string           `json:"chart_id"`
	Title         string           `json:"title,omitempty"`
	Rows          []util.MapStr    `json:"rows,omitempty"`
	Columns       []insight.Column `json:"columns,omitempty"`
	Query         string           `json:"query,omitempty"`
	Cached        bool             `json:"cached"`
	GeneratedAt   *time.Time       `json:"generated_at,omitempty"`
	Visualization util.MapStr      `json:"visualization,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// ChartData computes (or serves from cache) the data of a single chart.
func (svc *Service) ChartData(ctx context.Context, workspace, chartID string, overrides []insight.Filter, forceRefresh bool) (*ChartDataResult, error) {
	chart, err := svc.GetChart(workspace, chartID)
	if err != nil {
		return nil, err
	}
	return svc.chartData(ctx, chart, overrides, forceRefresh)
}

func (svc *Service) chartData(ctx context.Context, chart *insight.Chart, overrides []insight.Filter, forceRefresh bool) (*ChartDataResult, error) {
	effective := insight.MergeFilters(chart.Filters, overrides)
	for _, f := range effective {
		if !insight.KnownOperator(f.Operator) {
			log.Warnf("chart [%v]: unknown filter operator [%v], treated as pass-through", chart.ID, f.Operator)
		}
	}

	key := CacheKey(chart.ID, &chart.Config, effective, chart.Config.Limit)
	if !forceRefresh {
		if entry, ok := svc.cache.Get(key); ok {
			generated := entry.GeneratedAt
			return &ChartDataResult{
				ChartID:       chart.ID,
				Title:         chart.Title,
				Rows:          entry.Rows,
				Columns:       entry.Columns,
				Query:         entry.Query,
				Cached:        true,
				GeneratedAt:   &generated,
				Visualization: chart.Visualization,
			}, nil
		}
	}

	rows, err := svc.fetchChartRows(ctx, chart)
	if err != nil {
		return nil, err
	}

	processed := insight.Process(rows, &chart.Config, effective)
	columns := insight.ColumnsOf(processed)
	query := insight.GenerateSQL(svc.tableNameOf(chart), &chart.Config, effective)

	now := time.Now()
	svc.cache.Put(key, &CacheEntry{
		Rows:        processed,
		Columns:     columns,
		Query:       query,
		GeneratedAt: now,
	}, svc.ttl)

	chart.LastExecuted = &now
	chart.ExecutionCount++
	if err := svc.store.Update(chart); err != nil {
		log.Error("failed to update chart execution bookkeeping: ", err)
	}

	return &ChartDataResult{
		ChartID:       chart.ID,
		Title:         chart.Title,
		Rows:          processed,
		Columns:       columns,
		Query:         query,
		Cached:        false,
		GeneratedAt:   &now,
		Visualization: chart.Visualization,
	}, nil
}

func (svc *Service) fetchChartRows(ctx context.Context, chart *insight.Chart) ([]util.MapStr, error) {
	var rows []util.MapStr
	for _, id := range chart.DatasetIDs {
		dataset, err := svc.GetDataset(chart.WorkspaceID, id)
		if err != nil {
			return nil, err
		}
		fetched, err := svc.fetchDatasetRows(ctx, chart.WorkspaceID, dataset)
		if err != nil {
			return nil, err
		}
		rows = append(rows, fetched...)
	}
	return rows, nil
}

func (svc *Service) fetchDatasetRows(ctx context.Context, workspace string, dataset *insight.Dataset) ([]util.MapStr, error) {
	var datasource *insight.Datasource
	providerType := "inline"
	if dataset.DatasourceID != "" {
		var err error
		datasource, err = svc.GetDatasource(workspace, dataset.DatasourceID)
		if err != nil {
			return nil, err
		}
		providerType = datasource.Type
	}
	p, err := provider.Get(providerType)
	if err != nil {
		return nil, err
	}
	return p.Fetch(ctx, datasource, dataset)
}

func (svc *Service) tableNameOf(chart *insight.Chart) string {
	if len(chart.DatasetIDs) == 0 {
		return ""
	}
	dataset, err := svc.GetDataset(chart.WorkspaceID, chart.DatasetIDs[0])
	if err != nil {
		return ""
	}
	return dataset.Title
}

// ---- cache management ----

func (svc *Service) invalidateDashboard(workspace, dashboardID string) {
	svc.cache.InvalidateOwner(dashboardID)
	charts, err := svc.DashboardCharts(workspace, dashboardID, true)
	if err != nil {
		log.Error("failed to list charts for invalidation: ", err)
		return
	}
	for _, chart := range charts {
		svc.cache.InvalidateOwner(chart.ID)
	}
}

// ChartCacheStatus reports whether the chart's default request is cached.
type ChartCacheStatus struct {
	ChartID     string     `json:"chart_id"`
	Cached      bool       `json:"cached"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

func (svc *Service) DashboardCacheStatus(workspace, dashboardID string) ([]ChartCacheStatus, error) {
	dash, err := svc.GetDashboard(workspace, dashboardID)
	if err != nil {
		return nil, err
	}
	charts, err := svc.DashboardCharts(workspace, dash.ID, false)
	if err != nil {
		return nil, err
	}
	statuses := make([]ChartCacheStatus, 0, len(charts))
	for _, chart := range charts {
		filters := svc.globalFiltersFor(dash, chart.ID, nil)
		effective := insight.MergeFilters(chart.Filters, filters)
		key := CacheKey(chart.ID, &chart.Config, effective, chart.Config.Limit)
		status := ChartCacheStatus{ChartID: chart.ID}
		if entry, ok := svc.cache.Get(key); ok {
			status.Cached = true
			generated := entry.GeneratedAt
			status.GeneratedAt = &generated
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (svc *Service) ClearDashboardCache(workspace, dashboardID string) error {
	dash, err := svc.GetDashboard(workspace, dashboardID)
	if err != nil {
		return err
	}
	svc.cache.InvalidateOwner(dash.ID)
	charts, err := svc.DashboardCharts(workspace, dash.ID, true)
	if err != nil {
		return err
	}
	for _, chart := range charts {
		svc.cache.InvalidateOwner(chart.ID)
	}
	return nil
}
