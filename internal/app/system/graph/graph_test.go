package graph_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/bizadmin/internal/app/system/graph"
)

func TestClient_Pages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/accounts" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("fields"); got != "id,name,picture,access_token" {
			t.Errorf("fields = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":"p1","name":"Shop","access_token":"pt1","picture":{"data":{"url":"https://img/p1.png"}}},
			{"id":"p2","name":"Blog"}
		]}`))
	}))
	defer srv.Close()

	c := graph.New("app", "secret", srv.URL).WithHTTPClient(srv.Client())
	pages, err := c.Pages(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2", len(pages))
	}
	if pages[0] != (graph.Page{ID: "p1", Name: "Shop", Picture: "https://img/p1.png", AccessToken: "pt1"}) {
		t.Errorf("pages[0] = %+v", pages[0])
	}
	if pages[1].Picture != "" || pages[1].AccessToken != "" {
		t.Errorf("pages[1] = %+v, want empty picture and token", pages[1])
	}
}

func TestClient_Pages_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token.","type":"OAuthException","code":190}}`))
	}))
	defer srv.Close()

	c := graph.New("app", "secret", srv.URL).WithHTTPClient(srv.Client())
	_, err := c.Pages(context.Background(), "bad")
	if !errors.Is(err, graph.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_Pages_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := graph.New("app", "secret", srv.URL).WithHTTPClient(srv.Client())
	_, err := c.Pages(context.Background(), "tok")
	if err == nil || errors.Is(err, graph.ErrUnauthorized) {
		t.Errorf("expected generic error, got %v", err)
	}
}
