/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package api

import (
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/segmentio/encoding/json"
	"infini.sh/insight/core/errors"
	"infini.sh/insight/core/util"
)

// Method is object of http method
type Method string

const (
	// GET is http get method
	GET Method = "GET"
	// POST is http post method
	POST Method = "POST"
	// PUT is http put method
	PUT Method = "PUT"
	// DELETE is http delete method
	DELETE Method = "DELETE"
	// HEAD is http head method
	HEAD Method = "HEAD"

	OPTIONS Method = "OPTIONS"
)

// String return http method as string
func (method Method) String() string {
	return string(method)
}

// Handler is the object of http handler
type Handler struct {
	wroteHeader bool
	formParsed  bool
}

// Response is the standard api envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
	Message string      `json:"message,omitempty"`
}

// EncodeJSON encode the object to json string
func (handler Handler) EncodeJSON(v interface{}) (b []byte, err error) {
	return json.Marshal(v)
}

// WriteJSONHeader will write standard json header
func (handler Handler) WriteJSONHeader(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	handler.wroteHeader = true
}

// WriteResult writes the success envelope around data.
func (handler Handler) WriteResult(w http.ResponseWriter, data interface{}, statusCode int) error {
	return handler.WriteJSON(w, Response{Success: true, Data: data}, statusCode)
}

// WriteResultWithMessage writes the success envelope with a human message.
func (handler Handler) WriteResultWithMessage(w http.ResponseWriter, data interface{}, message string, statusCode int) error {
	return handler.WriteJSON(w, Response{Success: true, Data: data, Message: message}, statusCode)
}

// WriteJSONListResult output result list to json format
func (handler Handler) WriteJSONListResult(w http.ResponseWriter, total int64, v interface{}, statusCode int) error {
	return handler.WriteResult(w, util.MapStr{"total": total, "result": v}, statusCode)
}

func (handler Handler) WriteError(w http.ResponseWriter, errMessage string, statusCode int) error {
	return handler.WriteJSON(w, Response{
		Success: false,
		Errors:  []string{errMessage},
		Message: errMessage,
	}, statusCode)
}

// WriteInternalError hides the underlying error from the client, callers log
// it server side.
func (handler Handler) WriteInternalError(w http.ResponseWriter) error {
	return handler.WriteError(w, "internal server error", http.StatusInternalServerError)
}

func (handler Handler) WriteJSON(w http.ResponseWriter, v interface{}, statusCode int) error {
	b, err := handler.EncodeJSON(v)
	if err != nil {
		w.Write([]byte(err.Error()))
		return err
	}
	return handler.WriteBytes(w, b, statusCode)
}

func (handler Handler) WriteBytes(w http.ResponseWriter, b []byte, statusCode int) error {
	if !handler.wroteHeader {
		handler.WriteJSONHeader(w)
		w.WriteHeader(statusCode)
	}
	_, err := w.Write(b)
	return err
}

// WriteAckJSON writes an acknowledge envelope.
func (handler Handler) WriteAckJSON(w http.ResponseWriter, ack bool, status int, obj map[string]interface{}) error {
	v := util.MapStr{"acknowledged": ack}
	for k, v1 := range obj {
		v[k] = v1
	}
	return handler.WriteResult(w, v, status)
}

func (handler Handler) WriteAckOKJSON(w http.ResponseWriter) error {
	return handler.WriteAckJSON(w, true, 200, nil)
}

// GetParameter return query parameter with argument name
func (handler Handler) GetParameter(r *http.Request, key string) string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Query().Get(key)
}

// GetParameterOrDefault return query parameter or return default value
func (handler Handler) GetParameterOrDefault(r *http.Request, key string, defaultValue string) string {
	v := handler.GetParameter(r, key)
	if len(v) > 0 {
		return v
	}
	return defaultValue
}

// GetIntOrDefault return parameter or default, data type is int
func (handler Handler) GetIntOrDefault(r *http.Request, key string, defaultValue int) int {
	v := handler.GetParameter(r, key)
	s, err := util.ToInt(v)
	if err != nil {
		return defaultValue
	}
	return s
}

func (handler Handler) GetBoolOrDefault(r *http.Request, key string, defaultValue bool) bool {
	v := strings.ToLower(handler.GetParameter(r, key))
	if v == "false" {
		return false
	} else if v == "true" {
		return true
	}
	return defaultValue
}

// GetHeader return specify http header or return default value if not set
func (handler Handler) GetHeader(req *http.Request, key string, defaultValue string) string {
	v := req.Header.Get(key)
	if strings.TrimSpace(v) == "" {
		return defaultValue
	}
	return v
}

func (handler Handler) DecodeJSON(r *http.Request, o interface{}) error {
	content, err := ioutil.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return errors.NewWithCode(nil, errors.JSONIsEmpty, r.URL.String())
	}
	return json.Unmarshal(content, o)
}

// GetRawBody return raw http request body
func (handler Handler) GetRawBody(r *http.Request) ([]byte, error) {
	content, err := ioutil.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, errors.NewWithCode(nil, errors.BodyEmpty, r.URL.String())
	}
	return content, nil
}

// Error404 output 404 response
func (handler Handler) Error404(w http.ResponseWriter) {
	handler.WriteError(w, "not found", http.StatusNotFound)
}

// Error500 output 500 response
func (handler Handler) Error500(w http.ResponseWriter, msg string) {
	handler.WriteError(w, msg, http.StatusInternalServerError)
}

// Error output custom error
func (handler Handler) Error(w http.ResponseWriter, err error) {
	handler.WriteError(w, err.Error(), http.StatusInternalServerError)
}
