package facebook_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/bizadmin/internal/app/features/errors"
	"github.com/dalemusser/bizadmin/internal/app/features/facebook"
	"github.com/dalemusser/bizadmin/internal/app/store/facebookconns"
	"github.com/dalemusser/bizadmin/internal/app/system/graph"
	"github.com/dalemusser/bizadmin/internal/app/system/indexes"
	"github.com/dalemusser/bizadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const accountsJSON = `{"data":[
	{"id":"p1","name":"Bakery","access_token":"page-token-1","picture":{"data":{"url":"https://cdn.example/p1.png"}}},
	{"id":"p2","name":"Garage","access_token":"page-token-2","picture":{"data":{"url":""}}}
]}`

type env struct {
	h        *facebook.Handler
	fixtures *testutil.Fixtures
	conns    *facebookconns.Store
	user     testutil.TestUser
	userID   primitive.ObjectID
}

func newEnv(t *testing.T, graphHandler http.HandlerFunc) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if graphHandler == nil {
		graphHandler = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(accountsJSON))
		}
	}
	srv := httptest.NewServer(graphHandler)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	gc := graph.New("app-123", "secret", srv.URL).WithHTTPClient(srv.Client())
	h := facebook.NewHandler(db, gc, "app-123", uierrors.NewErrorLogger(logger), nil, nil, logger)

	user := testutil.StaffUser()
	id, _ := primitive.ObjectIDFromHex(user.ID)
	return env{h: h, fixtures: testutil.NewFixtures(t, db), conns: facebookconns.New(db), user: user, userID: id}
}

func (e env) do(t *testing.T, fn http.HandlerFunc, method, target string, body any, params ...string) *testutil.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = testutil.NewJSONRequest(t, method, target, body)
	} else {
		req = testutil.NewRequest(method, target)
	}
	req = testutil.WithUser(req, e.user)
	for i := 0; i+1 < len(params); i += 2 {
		req = testutil.WithChiURLParam(req, params[i], params[i+1])
	}
	rec := testutil.NewRecorder()
	fn(rec, req)
	return rec
}

func TestServeIndex(t *testing.T) {
	e := newEnv(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fixtures.CreateConnection(ctx, e.userID, "fb-1")
	e.fixtures.CreateConnection(ctx, primitive.NewObjectID(), "fb-other")

	rec := e.do(t, e.h.ServeIndex, "GET", "/system/facebook", nil)
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Connections []struct {
			FacebookUserID string `json:"facebook_user_id"`
		} `json:"connections"`
		FacebookAppID string `json:"facebook_app_id"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Connections) != 1 || body.Connections[0].FacebookUserID != "fb-1" {
		t.Errorf("connections = %+v, want only fb-1", body.Connections)
	}
	if body.FacebookAppID != "app-123" {
		t.Errorf("facebook_app_id = %q", body.FacebookAppID)
	}
	rec.AssertNotContains(t, "token-fb-1")
}

func TestHandleConnect_WithoutSelectionStoresNoPage(t *testing.T) {
	e := newEnv(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := e.do(t, e.h.HandleConnect, "POST", "/system/facebook/connect", map[string]any{
		"facebook_user_id":   "fb-1",
		"facebook_user_name": "Pat",
		"access_token":       "user-token",
		"pages": []map[string]string{
			{"id": "p1", "name": "Bakery"},
			{"id": "p2", "name": "Garage"},
		},
	})
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Connection saved successfully")

	c, err := e.conns.Get(ctx, e.userID, "fb-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if c.HasPage() {
		t.Errorf("expected no page, got %q", *c.SelectedPageID)
	}
	if c.AccessToken != "user-token" {
		t.Errorf("AccessToken = %q", c.AccessToken)
	}
}

func TestHandleConnect_SelectedPage(t *testing.T) {
	e := newEnv(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := e.do(t, e.h.HandleConnect, "POST", "/system/facebook/connect", map[string]any{
		"facebook_user_id":   "fb-1",
		"facebook_user_name": "Pat",
		"access_token":       "user-token",
		"pages": []map[string]string{
			{"id": "p1", "name": "Bakery"},
			{"id": "p2", "name": "Garage", "access_token": "pt-2"},
		},
		"selected_page_id": "p2",
	})
	rec.AssertStatus(t, http.StatusOK)

	c, err := e.conns.Get(ctx, e.userID, "fb-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !c.HasPage() || *c.SelectedPageID != "p2" || *c.SelectedPageName != "Garage" {
		t.Errorf("unexpected page: %+v", c)
	}
	if c.SelectedPagePicture == nil || *c.SelectedPagePicture != facebookconns.PlaceholderPicture {
		t.Errorf("picture = %v, want placeholder", c.SelectedPagePicture)
	}
	if c.PageAccessToken == nil || *c.PageAccessToken != "pt-2" {
		t.Errorf("page token = %v", c.PageAccessToken)
	}
}

func TestHandleConnect_UpsertsExisting(t *testing.T) {
	e := newEnv(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fixtures.CreateConnection(ctx, e.userID, "fb-1")

	rec := e.do(t, e.h.HandleConnect, "POST", "/system/facebook/connect", map[string]any{
		"facebook_user_id":   "fb-1",
		"facebook_user_name": "Renamed",
		"access_token":       "fresh-token",
	})
	rec.AssertStatus(t, http.StatusOK)

	list, err := e.conns.ListForUser(ctx, e.userID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(list) != 1 || list[0].FacebookUserName != "Renamed" || list[0].AccessToken != "fresh-token" {
		t.Errorf("unexpected connections: %+v", list)
	}
}

func TestHandleConnect_Rejections(t *testing.T) {
	e := newEnv(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fixtures.CreateConnection(ctx, primitive.NewObjectID(), "fb-taken")

	tests := []struct {
		name   string
		body   map[string]any
		status int
		want   string
	}{
		{
			name:   "missing fields",
			body:   map[string]any{"facebook_user_id": "fb-1"},
			status: http.StatusUnprocessableEntity,
			want:   "The access token field is required.",
		},
		{
			name: "unknown selected page",
			body: map[string]any{
				"facebook_user_id": "fb-1", "facebook_user_name": "Pat", "access_token": "t",
				"pages":            []map[string]string{{"id": "p1", "name": "Bakery"}},
				"selected_page_id": "p9",
			},
			status: http.StatusUnprocessableEntity,
			want:   "The selected page id is invalid.",
		},
		{
			name: "connected to another user",
			body: map[string]any{
				"facebook_user_id": "fb-taken", "facebook_user_name": "Pat", "access_token": "t",
			},
			status: http.StatusConflict,
			want:   "connected to another user",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, e.h.HandleConnect, "POST", "/system/facebook/connect", tt.body)
			rec.AssertStatus(t, tt.status)
			rec.AssertContains(t, tt.want)
		})
	}

	if list, _ := e.conns.ListForUser(ctx, e.userID); len(list) != 0 {
		t.Errorf("expected no connections for caller, got %d", len(list))
	}
}

func TestServePages(t *testing.T) {
	var gotAuth string
	e := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(accountsJSON))
	})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fixtures.CreateConnection(ctx, e.userID, "fb-1")

	rec := e.do(t, e.h.ServePages, "GET", "/system/facebook/fb-1/pages", nil, "facebook_user_id", "fb-1")
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Pages []graph.Page `json:"pages"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Pages) != 2 || body.Pages[0].Name != "Bakery" || body.Pages[0].Picture != "https://cdn.example/p1.png" {
		t.Errorf("unexpected pages: %+v", body.Pages)
	}
	if gotAuth != "Bearer token-fb-1" {
		t.Errorf("Authorization = %q, want stored user token", gotAuth)
	}
}

func TestServePages_Errors(t *testing.T) {
	e := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Session has expired","type":"OAuthException","code":190}}`))
	})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := e.do(t, e.h.ServePages, "GET", "/system/facebook/nope/pages", nil, "facebook_user_id", "nope")
	rec.AssertStatus(t, http.StatusNotFound)

	e.fixtures.CreateConnection(ctx, e.userID, "fb-1")
	rec = e.do(t, e.h.ServePages, "GET", "/system/facebook/fb-1/pages", nil, "facebook_user_id", "fb-1")
	rec.AssertStatus(t, http.StatusBadGateway)
	rec.AssertContains(t, "Please reconnect.")
}

func TestHandleSelectPage(t *testing.T) {
	e := newEnv(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fixtures.CreateConnection(ctx, e.userID, "fb-1")

	rec := e.do(t, e.h.HandleSelectPage, "POST", "/system/facebook/select-page", map[string]any{
		"facebook_user_id": "fb-1",
		"page_id":          "p1",
		"page_name":        "Bakery",
		"page_picture":     "https://cdn.example/p1.png",
	})
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Page selected successfully")

	c, err := e.conns.Get(ctx, e.userID, "fb-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if *c.SelectedPageID != "p1" || *c.SelectedPagePicture != "https://cdn.example/p1.png" || c.PageAccessToken != nil {
		t.Errorf("unexpected connection: %+v", c)
	}

	rec = e.do(t, e.h.HandleSelectPage, "POST", "/system/facebook/select-page", map[string]any{
		"facebook_user_id": "fb-unknown", "page_id": "p1", "page_name": "Bakery",
	})
	rec.AssertStatus(t, http.StatusNotFound)

	rec = e.do(t, e.h.HandleSelectPage, "POST", "/system/facebook/select-page", map[string]any{
		"facebook_user_id": "fb-1",
	})
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	rec.AssertContains(t, "The page id field is required.")
}

func TestHandleDisconnect(t *testing.T) {
	e := newEnv(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fixtures.CreateConnection(ctx, e.userID, "fb-1")
	other := e.fixtures.CreateConnection(ctx, primitive.NewObjectID(), "fb-2")

	rec := e.do(t, e.h.HandleDisconnect, "POST", "/system/facebook/disconnect/fb-1", nil, "facebook_user_id", "fb-1")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Disconnected successfully")

	if _, err := e.conns.Get(ctx, e.userID, "fb-1"); err != facebookconns.ErrNotFound {
		t.Errorf("Get after disconnect = %v, want ErrNotFound", err)
	}

	// Another user's connection cannot be removed.
	rec = e.do(t, e.h.HandleDisconnect, "POST", "/system/facebook/disconnect/fb-2", nil, "facebook_user_id", "fb-2")
	rec.AssertStatus(t, http.StatusNotFound)
	if _, err := e.conns.Get(ctx, other.UserID, "fb-2"); err != nil {
		t.Errorf("other user's connection removed: %v", err)
	}
}

func TestConnectionJSONHidesTokens(t *testing.T) {
	e := newEnv(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fixtures.CreateConnection(ctx, e.userID, "fb-1")
	if err := e.conns.SetSelectedPage(ctx, e.userID, "fb-1", facebookconns.Page{ID: "p1", Name: "Bakery", AccessToken: "secret-page-token"}); err != nil {
		t.Fatalf("SetSelectedPage failed: %v", err)
	}

	rec := e.do(t, e.h.ServeIndex, "GET", "/system/facebook", nil)
	rec.AssertStatus(t, http.StatusOK)
	body := rec.Body.String()
	if strings.Contains(body, "secret-page-token") || strings.Contains(body, "access_token") {
		t.Errorf("tokens leaked: %s", body)
	}
}
