// Package response writes the API's JSON bodies. Successful responses are the
// payload itself; failures are {"error": "..."} with an optional "fields" map
// for validation problems.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/eburutu/mart/pkg/apperror"
	"github.com/eburutu/mart/pkg/logger"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func OK(w http.ResponseWriter, v interface{})      { JSON(w, http.StatusOK, v) }
func Created(w http.ResponseWriter, v interface{}) { JSON(w, http.StatusCreated, v) }

// Error writes {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// Fail maps err onto the error envelope. Anything that is not a client error
// is logged with the request logger and reported as a bare 500.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperror.From(err)
	status := ae.Status()

	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		JSON(w, status, errorBody{Error: "Internal server error"})
		return
	}

	JSON(w, status, errorBody{Error: ae.Message, Fields: ae.Fields})
}

func Unauthorized(w http.ResponseWriter) { Error(w, http.StatusUnauthorized, "Unauthorized") }
func Forbidden(w http.ResponseWriter)    { Error(w, http.StatusForbidden, "Forbidden") }
func NotFound(w http.ResponseWriter)     { Error(w, http.StatusNotFound, "Not found") }
