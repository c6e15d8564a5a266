package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	c := New()

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/system/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/system/user/"+id, nil))
	}

	got := testutil.ToFloat64(c.HTTPRequestsTotal.WithLabelValues("GET", "/system/user/{id}", "404"))
	if got != 3 {
		t.Errorf("requests counted = %v, want 3", got)
	}
}

func TestMiddleware_DefaultsStatusTo200(t *testing.T) {
	c := New()

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	if got := testutil.ToFloat64(c.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")); got != 1 {
		t.Errorf("requests counted = %v, want 1", got)
	}
}

func TestCounters(t *testing.T) {
	c := New()
	c.UsernameCheck("taken")
	c.UsernameCheck("taken")
	c.AdminAction("user_created")

	if got := testutil.ToFloat64(c.UsernameChecks.WithLabelValues("taken")); got != 2 {
		t.Errorf("taken checks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.AdminActions.WithLabelValues("user_created")); got != 1 {
		t.Errorf("admin actions = %v, want 1", got)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.UsernameCheck("free")
	c.AdminAction("user_deleted")

	called := false
	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !called {
		t.Error("expected nil collector middleware to pass through")
	}
}

func TestHandler_ServesTextFormat(t *testing.T) {
	c := New()
	c.AdminAction("user_updated")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `bizadmin_admin_actions_total{action="user_updated"} 1`) {
		t.Error("expected admin action sample in output")
	}
}
