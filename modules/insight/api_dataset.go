/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"net/http"

	httprouter "github.com/julienschmidt/httprouter"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

func (handler *APIHandler) createDataset(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	dataset := &insight.Dataset{}
	if err := handler.DecodeJSON(req, dataset); err != nil {
		handler.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := handler.svc.CreateDataset(handler.GetWorkspace(req), dataset); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, dataset, http.StatusOK)
}

func (handler *APIHandler) getDataset(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	dataset, err := handler.svc.GetDataset(handler.GetWorkspace(req), ps.ByName("id"))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, dataset, http.StatusOK)
}

func (handler *APIHandler) updateDataset(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	dataset := &insight.Dataset{}
	if err := handler.DecodeJSON(req, dataset); err != nil {
		handler.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	dataset.ID = ps.ByName("id")
	if err := handler.svc.UpdateDataset(handler.GetWorkspace(req), dataset); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, dataset, http.StatusOK)
}

func (handler *APIHandler) deleteDataset(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	if err := handler.svc.DeleteDataset(handler.GetWorkspace(req), ps.ByName("id")); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteAckOKJSON(w)
}

func (handler *APIHandler) searchDatasets(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	var (
		from = handler.GetIntOrDefault(req, "from", 0)
		size = handler.GetIntOrDefault(req, "size", 20)
	)
	items, total, err := handler.svc.SearchDatasets(handler.GetWorkspace(req), from, size)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteJSONListResult(w, total, items, http.StatusOK)
}

func (handler *APIHandler) previewDataset(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	size := handler.GetIntOrDefault(req, "size", 0)
	rows, columns, err := handler.svc.DatasetPreview(req.Context(), handler.GetWorkspace(req), ps.ByName("id"), size)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, util.MapStr{
		"rows":    rows,
		"columns": columns,
		"total":   len(rows),
	}, http.StatusOK)
}

func (handler *APIHandler) createDatasource(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	ds := &insight.Datasource{}
	if err := handler.DecodeJSON(req, ds); err != nil {
		handler.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := handler.svc.CreateDatasource(handler.GetWorkspace(req), ds); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, ds, http.StatusOK)
}

func (handler *APIHandler) getDatasource(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	ds, err := handler.svc.GetDatasource(handler.GetWorkspace(req), ps.ByName("id"))
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, ds, http.StatusOK)
}

func (handler *APIHandler) updateDatasource(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	ds := &insight.Datasource{}
	if err := handler.DecodeJSON(req, ds); err != nil {
		handler.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ds.ID = ps.ByName("id")
	if err := handler.svc.UpdateDatasource(handler.GetWorkspace(req), ds); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteResult(w, ds, http.StatusOK)
}

func (handler *APIHandler) deleteDatasource(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	if err := handler.svc.DeleteDatasource(handler.GetWorkspace(req), ps.ByName("id")); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteAckOKJSON(w)
}

func (handler *APIHandler) searchDatasources(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	var (
		from = handler.GetIntOrDefault(req, "from", 0)
		size = handler.GetIntOrDefault(req, "size", 20)
	)
	items, total, err := handler.svc.SearchDatasources(handler.GetWorkspace(req), from, size)
	if err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteJSONListResult(w, total, items, http.StatusOK)
}

func (handler *APIHandler) testDatasource(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	if err := handler.svc.TestDatasource(req.Context(), handler.GetWorkspace(req), ps.ByName("id")); err != nil {
		handler.writeServiceError(w, err)
		return
	}
	handler.WriteAckOKJSON(w)
}
