/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"net/http"

	httprouter "github.com/julienschmidt/httprouter"
	"infini.sh/insight/core/insight"
)

func (handler *APIHandler) createChart(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	chart := &insight.Chart{}
	if err := handler.DecodeJSON(req, chart); err != nil {
		handler.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := handler.svc.CreateChart(handler.GetWorkspace(req), chart); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, chart, http.StatusOK)
}

func (handler *APIHandler) getChart(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	chart, err := handler.svc.GetChart(handler.GetWorkspace(req), ps.ByName("id"))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, chart, http.StatusOK)
}

func (handler *APIHandler) updateChart(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	chart := &insight.Chart{}
	if err := handler.DecodeJSON(req, chart); err != nil {
		handler.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	chart.ID = ps.ByName("id")
	if err := handler.svc.UpdateChart(handler.GetWorkspace(req), chart); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, chart, http.StatusOK)
}

func (handler *APIHandler) deleteChart(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	if err := handler.svc.DeleteChart(handler.GetWorkspace(req), ps.ByName("id")); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteAckOKJSON(w)
}

func (handler *APIHandler) searchCharts(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	var (
		keyword = handler.GetParameterOrDefault(req, "keyword", "")
		from    = handler.GetIntOrDefault(req, "from", 0)
		size    = handler.GetIntOrDefault(req, "size", 20)
	)
	items, total, err := handler.svc.SearchCharts(handler.GetWorkspace(req), keyword, from, size)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteJSONListResult(w, total, items, http.StatusOK)
}

func (handler *APIHandler) chartData(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	request, err := handler.decodeDataRequest(req)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	force := request.ForceRefresh || handler.GetBoolOrDefault(req, "force_refresh", false)
	result, err := handler.svc.ChartData(req.Context(), handler.GetWorkspace(req), ps.ByName("id"), request.Filters, force)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, result, http.StatusOK)
}

func (handler *APIHandler) refreshChart(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	job, err := handler.svc.SubmitChartRefresh(handler.GetWorkspace(req), ps.ByName("id"))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, job, http.StatusOK)
}

func (handler *APIHandler) exportChart(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	request, err := handler.decodeDataRequest(req)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	job, err := handler.svc.SubmitChartExport(handler.GetWorkspace(req), ps.ByName("id"), request.Filters)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, job, http.StatusOK)
}
