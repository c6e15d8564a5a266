// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/bizadmin/internal/app/system/jsonio"
	"github.com/dalemusser/bizadmin/internal/app/system/requestid"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures with request context and writes the
// matching JSON error response.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	f := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestid.FromContext(r.Context())),
	}
	if err != nil {
		f = append(f, zap.Error(err))
	}
	return f
}

// LogServerError logs at error level and responds 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Error(logMsg, e.fields(r, err)...)
	jsonio.WriteMessage(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs at warn level and responds 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	jsonio.WriteMessage(w, http.StatusBadRequest, userMsg)
}

// LogUpstreamError logs a failed call to a third-party service and
// responds 502 with userMsg.
func (e *ErrorLogger) LogUpstreamError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	jsonio.WriteMessage(w, http.StatusBadGateway, userMsg)
}

// NotFound is the router's fallback for unknown paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	jsonio.WriteMessage(w, http.StatusNotFound, "Not found.")
}

// MethodNotAllowed is the router's fallback for a known path with the
// wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonio.WriteMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
}
