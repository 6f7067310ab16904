/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"net/http"

	"infini.sh/insight/core/api"
	"infini.sh/insight/core/errors"
)

const (
	PermissionDashboardRead   = "dashboard:read"
	PermissionDashboardWrite  = "dashboard:write"
	PermissionChartRead       = "chart:read"
	PermissionChartWrite      = "chart:write"
	PermissionDatasetRead     = "dataset:read"
	PermissionDatasetWrite    = "dataset:write"
	PermissionDatasourceRead  = "datasource:read"
	PermissionDatasourceWrite = "datasource:write"
	PermissionJobRead         = "job:read"
)

func registerPermissions() {
	reads := []string{
		PermissionDashboardRead, PermissionChartRead,
		PermissionDatasetRead, PermissionDatasourceRead, PermissionJobRead,
	}
	api.RegisterPermissionsByRole("viewer", reads)
	api.RegisterPermissionsByRole("editor", append(reads,
		PermissionDashboardWrite, PermissionChartWrite,
		PermissionDatasetWrite, PermissionDatasourceWrite,
	))
}

// APIHandler serves the REST surface of the insight module.
type APIHandler struct {
	api.Handler
	svc *Service
}

func registerAPI(svc *Service) {
	handler := &APIHandler{svc: svc}

	api.HandleAPIMethod(api.POST, "/dashboard", handler.createDashboard, api.Permission(PermissionDashboardWrite))
	api.HandleAPIMethod(api.GET, "/dashboard/_search", handler.searchDashboards, api.Permission(PermissionDashboardRead))
	api.HandleAPIMethod(api.GET, "/dashboard/:id", handler.getDashboard, api.Permission(PermissionDashboardRead))
	api.HandleAPIMethod(api.PUT, "/dashboard/:id", handler.updateDashboard, api.Permission(PermissionDashboardWrite))
	api.HandleAPIMethod(api.DELETE, "/dashboard/:id", handler.deleteDashboard, api.Permission(PermissionDashboardWrite))
	api.HandleAPIMethod(api.PUT, "/dashboard/:id/filter", handler.updateDashboardFilters, api.Permission(PermissionDashboardWrite))
	api.HandleAPIMethod(api.GET, "/dashboard/:id/chart", handler.listDashboardCharts, api.Permission(PermissionChartRead))
	api.HandleAPIMethod(api.POST, "/dashboard/:id/_data", handler.dashboardData, api.Permission(PermissionDashboardRead))
	api.HandleAPIMethod(api.POST, "/dashboard/:id/_refresh", handler.refreshDashboard, api.Permission(PermissionDashboardWrite))
	api.HandleAPIMethod(api.GET, "/dashboard/:id/cache", handler.dashboardCacheStatus, api.Permission(PermissionDashboardRead))
	api.HandleAPIMethod(api.DELETE, "/dashboard/:id/cache", handler.clearDashboardCache, api.Permission(PermissionDashboardWrite))

	api.HandleAPIMethod(api.POST, "/chart", handler.createChart, api.Permission(PermissionChartWrite))
	api.HandleAPIMethod(api.GET, "/chart/_search", handler.searchCharts, api.Permission(PermissionChartRead))
	api.HandleAPIMethod(api.GET, "/chart/:id", handler.getChart, api.Permission(PermissionChartRead))
	api.HandleAPIMethod(api.PUT, "/chart/:id", handler.updateChart, api.Permission(PermissionChartWrite))
	api.HandleAPIMethod(api.DELETE, "/chart/:id", handler.deleteChart, api.Permission(PermissionChartWrite))
	api.HandleAPIMethod(api.POST, "/chart/:id/_data", handler.chartData, api.Permission(PermissionChartRead))
	api.HandleAPIMethod(api.POST, "/chart/:id/_refresh", handler.refreshChart, api.Permission(PermissionChartWrite))
	api.HandleAPIMethod(api.POST, "/chart/:id/_export", handler.exportChart, api.Permission(PermissionChartRead))

	api.HandleAPIMethod(api.POST, "/dataset", handler.createDataset, api.Permission(PermissionDatasetWrite))
	api.HandleAPIMethod(api.GET, "/dataset/_search", handler.searchDatasets, api.Permission(PermissionDatasetRead))
	api.HandleAPIMethod(api.GET, "/dataset/:id", handler.getDataset, api.Permission(PermissionDatasetRead))
	api.HandleAPIMethod(api.PUT, "/dataset/:id", handler.updateDataset, api.Permission(PermissionDatasetWrite))
	api.HandleAPIMethod(api.DELETE, "/dataset/:id", handler.deleteDataset, api.Permission(PermissionDatasetWrite))
	api.HandleAPIMethod(api.GET, "/dataset/:id/_preview", handler.previewDataset, api.Permission(PermissionDatasetRead))

	api.HandleAPIMethod(api.POST, "/datasource", handler.createDatasource, api.Permission(PermissionDatasourceWrite))
	api.HandleAPIMethod(api.GET, "/datasource/_search", handler.searchDatasources, api.Permission(PermissionDatasourceRead))
	api.HandleAPIMethod(api.GET, "/datasource/:id", handler.getDatasource, api.Permission(PermissionDatasourceRead))
	api.HandleAPIMethod(api.PUT, "/datasource/:id", handler.updateDatasource, api.Permission(PermissionDatasourceWrite))
	api.HandleAPIMethod(api.DELETE, "/datasource/:id", handler.deleteDatasource, api.Permission(PermissionDatasourceWrite))
	api.HandleAPIMethod(api.POST, "/datasource/:id/_test", handler.testDatasource, api.Permission(PermissionDatasourceWrite))

	api.HandleAPIMethod(api.GET, "/job/_search", handler.searchJobs, api.Permission(PermissionJobRead))
	api.HandleAPIMethod(api.GET, "/job/:id", handler.getJob, api.Permission(PermissionJobRead))
}

// writeServiceError maps service error codes onto HTTP statuses, keeping the
// envelope shape of WriteError.
func (handler *APIHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch errors.CodeOf(err) {
	case errors.NotFound:
		handler.WriteError(w, err.Error(), http.StatusNotFound)
	case errors.BadRequest, errors.BodyEmpty, errors.JSONIsEmpty:
		handler.WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.PermissionDenied:
		handler.WriteError(w, err.Error(), http.StatusForbidden)
	default:
		handler.Error(w, err)
	}
}
