package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllow_BurstThenDeny(t *testing.T) {
	l := New(3)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("fourth request allowed, want denied")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("other key denied, want allowed")
	}
}

func TestAllow_Refills(t *testing.T) {
	l := New(60) // one token per second
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 60; i++ {
		l.Allow("k")
	}
	if l.Allow("k") {
		t.Fatal("expected bucket to be empty")
	}

	now = now.Add(2 * time.Second)
	if !l.Allow("k") {
		t.Error("expected a token after refill")
	}
}

func TestAllow_Disabled(t *testing.T) {
	l := New(0)
	for i := 0; i < 1000; i++ {
		if !l.Allow("k") {
			t.Fatalf("request %d denied with limiting disabled", i)
		}
	}
}

func TestReset(t *testing.T) {
	l := New(1)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("expected second request denied")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("expected request allowed after reset")
	}
}

func TestSweep_DropsIdleBuckets(t *testing.T) {
	l := New(10)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	l.lastSweep = now

	l.Allow("old")
	now = now.Add(10 * time.Minute)
	l.Allow("new")

	if _, ok := l.buckets["old"]; ok {
		t.Error("expected idle bucket to be swept")
	}
	if _, ok := l.buckets["new"]; !ok {
		t.Error("expected fresh bucket to remain")
	}
}

func TestMiddleware_Returns429(t *testing.T) {
	l := New(1)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/system/user/check-username?username=a", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: got %d, want 429", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded for", "203.0.113.5, 10.0.0.1", "", "10.0.0.2:1", "203.0.113.5"},
		{"real ip", "", " 198.51.100.7 ", "10.0.0.2:1", "198.51.100.7"},
		{"remote addr", "", "", "192.0.2.9:4242", "192.0.2.9"},
		{"remote addr without port", "", "", "192.0.2.9", "192.0.2.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
