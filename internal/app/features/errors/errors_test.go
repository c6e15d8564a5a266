package errors_test

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/bizadmin/internal/app/features/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogServerError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	el := errorsfeature.NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/system/user", nil)
	el.LogServerError(rec, req, "database error listing users", stderrors.New("boom"), "A database error occurred.")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "A database error occurred.") {
		t.Errorf("body = %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Error("internal error leaked to response")
	}
	if logs.FilterMessage("database error listing users").Len() != 1 {
		t.Error("expected one error log entry")
	}
}

func TestLogBadRequest(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	el := errorsfeature.NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	el.LogBadRequest(rec, httptest.NewRequest("POST", "/system/user", nil), "decode failed", stderrors.New("eof"), "Invalid request body.")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if logs.Len() != 1 {
		t.Errorf("expected 1 log entry, got %d", logs.Len())
	}
}

func TestLogUpstreamError(t *testing.T) {
	el := errorsfeature.NewErrorLogger(zap.NewNop())

	rec := httptest.NewRecorder()
	el.LogUpstreamError(rec, httptest.NewRequest("GET", "/system/facebook/1/pages", nil), "graph failed", stderrors.New("401"), "Could not load pages.")

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestFallbacks(t *testing.T) {
	rec := httptest.NewRecorder()
	errorsfeature.NotFound(rec, httptest.NewRequest("GET", "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("NotFound status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	errorsfeature.MethodNotAllowed(rec, httptest.NewRequest("DELETE", "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("MethodNotAllowed status = %d", rec.Code)
	}
}
