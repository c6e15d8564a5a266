package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestMiddleware_GeneratesID(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected uuid in context, got %q", seen)
	}
	if rec.Header().Get(Header) != seen {
		t.Errorf("header = %q, want %q", rec.Header().Get(Header), seen)
	}
}

func TestMiddleware_ReusesValidIncomingID(t *testing.T) {
	in := uuid.NewString()
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(Header, in)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != in {
		t.Errorf("id = %q, want %q", seen, in)
	}
}

func TestMiddleware_ReplacesGarbageID(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(Header, "<script>")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen == "<script>" {
		t.Error("expected untrusted id to be replaced")
	}
}

func TestFromContext_Empty(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if got := FromContext(r.Context()); got != "" {
		t.Errorf("FromContext() = %q, want empty", got)
	}
}
