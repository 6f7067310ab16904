/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"net/http"

	httprouter "github.com/julienschmidt/httprouter"
)

func (handler *APIHandler) getJob(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	job, ok := handler.svc.Jobs().Get(ps.ByName("id"))
	if !ok || job.WorkspaceID != handler.GetWorkspace(req) {
		handler.Error404(w)
		return
	}
	handler.WriteResult(w, job, http.StatusOK)
}

func (handler *APIHandler) searchJobs(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
	jobs := handler.svc.Jobs().List(handler.GetWorkspace(req))
	var (
		from = handler.GetIntOrDefault(req, "from", 0)
		size = handler.GetIntOrDefault(req, "size", 20)
	)
	total := int64(len(jobs))
	if from > len(jobs) {
		from = len(jobs)
	}
	end := from + size
	if size <= 0 || end > len(jobs) {
		end = len(jobs)
	}
	handler.WriteJSONListResult(w, total, jobs[from:end], http.StatusOK)
}
