/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package api

import (
	"net/http"
	"runtime"

	log "github.com/cihub/seelog"
)

// recoveryHandler turns a panicked request into a 500 envelope instead of
// tearing the connection down.
func recoveryHandler(w http.ResponseWriter, r *http.Request, rcv interface{}) {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	log.Errorf("panic in handler [%v %v]: %v\n%s", r.Method, r.URL.Path, rcv, buf[:n])

	defaultHandler.WriteInternalError(w)
}
