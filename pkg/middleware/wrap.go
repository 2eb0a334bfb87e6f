package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nextyfine-dev/reqcheck/pkg/httputil"
)

// HandlerFunc is an HTTP handler that can fail. Returning a non-nil error
// hands the failure to the wrapper's error handler instead of leaving it
// unreported.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorHandler receives every failure escaping a wrapped handler. It is
// called at most once per request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Wrap converts a fallible handler into an http.Handler. Returned errors
// and panics both reach onError exactly once; nothing is swallowed. A nil
// onError falls back to NewErrorHandler with a default logger.
func Wrap(h HandlerFunc, onError ErrorHandler) http.Handler {
	if onError == nil {
		onError = NewErrorHandler(slog.Default())
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				onError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		if err := h(w, r); err != nil {
			onError(w, r, err)
		}
	})
}

// NewErrorHandler returns the default error handler: it logs the failure
// with the request's correlation ID and writes a 500 JSON body. Validation
// failures never travel this path; only engine and handler faults do.
func NewErrorHandler(logger *slog.Logger) ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("request handler failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httputil.GetRequestID(r.Context()))
		httputil.WriteInternalError(w, "internal_error", "internal server error")
	}
}
