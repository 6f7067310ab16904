/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"net/http"

	httprouter "github.com/julienschmidt/httprouter"
	"infini.sh/insight/core/errors"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

// dataRequest carries optional filter overrides for data endpoints. The
// body may be omitted entirely.
type dataRequest struct {
	Filters      []insight.Filter `json:"filters,omitempty"`
	ForceRefresh bool             `json:"force_refresh,omitempty"`
}

func (handler *APIHandler) decodeDataRequest(req *http.Request) (*dataRequest, error) {
	request := &dataRequest{}
	if req.Body == nil || req.ContentLength == 0 {
		return request, nil
	}
	body, err := handler.GetRawBody(req)
	if err != nil {
		// an empty body is fine, a failed read is not
		if errors.CodeOf(err) == errors.BodyEmpty {
			return request, nil
		}
		return nil, badRequest("failed to read request body: %v", err)
	}
	if err := util.FromJSONBytes(body, request); err != nil {
		return nil, badRequest("invalid request body: %v", err)
	}
	return request, nil
}

func (handler *APIHandler) createDashboard(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	dash := &insight.Dashboard{}
	if err := handler.DecodeJSON(req, dash); err != nil {
		handler.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := handler.svc.CreateDashboard(handler.GetWorkspace(req), dash); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, dash, http.StatusOK)
}

func (handler *APIHandler) getDashboard(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	dash, err := handler.svc.GetDashboard(handler.GetWorkspace(req), ps.ByName("id"))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.svc.TouchDashboardView(dash)
	handler.WriteResult(w, dash, http.StatusOK)
}

func (handler *APIHandler) updateDashboard(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	dash := &insight.Dashboard{}
	if err := handler.DecodeJSON(req, dash); err != nil {
		handler.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	dash.ID = ps.ByName("id")
	if err := handler.svc.UpdateDashboard(handler.GetWorkspace(req), dash); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, dash, http.StatusOK)
}

func (handler *APIHandler) deleteDashboard(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	if err := handler.svc.DeleteDashboard(handler.GetWorkspace(req), ps.ByName("id")); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteAckOKJSON(w)
}

func (handler *APIHandler) searchDashboards(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	var (
		keyword         = handler.GetParameterOrDefault(req, "keyword", "")
		from            = handler.GetIntOrDefault(req, "from", 0)
		size            = handler.GetIntOrDefault(req, "size", 20)
		includeArchived = handler.GetBoolOrDefault(req, "include_archived", false)
	)
	items, total, err := handler.svc.SearchDashboards(handler.GetWorkspace(req), keyword, from, size, includeArchived)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteJSONListResult(w, total, items, http.StatusOK)
}

func (handler *APIHandler) updateDashboardFilters(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	request := struct {
		Filters     []insight.GlobalFilter     `json:"filters"`
		Connections []insight.FilterConnection `json:"connections"`
	}{}
	if err := handler.DecodeJSON(req, &request); err != nil {
		handler.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	dash, err := handler.svc.UpdateDashboardFilters(handler.GetWorkspace(req), ps.ByName("id"), request.Filters, request.Connections)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, dash, http.StatusOK)
}

func (handler *APIHandler) listDashboardCharts(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	workspace := handler.GetWorkspace(req)
	if _, err := handler.svc.GetDashboard(workspace, ps.ByName("id")); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	charts, err := handler.svc.DashboardCharts(workspace, ps.ByName("id"), false)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteJSONListResult(w, int64(len(charts)), charts, http.StatusOK)
}

func (handler *APIHandler) dashboardData(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	request, err := handler.decodeDataRequest(req)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	force := request.ForceRefresh || handler.GetBoolOrDefault(req, "force_refresh", false)
	result, err := handler.svc.DashboardData(req.Context(), handler.GetWorkspace(req), ps.ByName("id"), request.Filters, force)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, result, http.StatusOK)
}

func (handler *APIHandler) refreshDashboard(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	job, err := handler.svc.SubmitDashboardRefresh(handler.GetWorkspace(req), ps.ByName("id"))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, job, http.StatusOK)
}

func (handler *APIHandler) dashboardCacheStatus(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	statuses, err := handler.svc.DashboardCacheStatus(handler.GetWorkspace(req), ps.ByName("id"))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteJSONListResult(w, int64(len(statuses)), statuses, http.StatusOK)
}

func (handler *APIHandler) clearDashboardCache(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	if err := handler.svc.ClearDashboardCache(handler.GetWorkspace(req), ps.ByName("id")); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteAckOKJSON(w)
}
