package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/eburutu/mart/pkg/logger"
	"github.com/eburutu/mart/pkg/response"
)

// Recovery turns a panic in any downstream handler into the standard 500
// envelope and logs the stack with the request logger.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
