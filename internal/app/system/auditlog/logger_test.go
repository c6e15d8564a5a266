package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/bizadmin/internal/app/store/audit"
	"github.com/dalemusser/bizadmin/internal/app/system/auditlog"
	"github.com/dalemusser/bizadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "john")
	logger.Logout(ctx, req, primitive.NewObjectID().Hex())
	logger.UserDeleted(ctx, req, "not-an-id", primitive.NewObjectID())
}

func TestLogger_Destinations(t *testing.T) {
	tests := []struct {
		setting  string
		wantDB   int
		wantLogs int
	}{
		{"all", 1, 1},
		{"db", 1, 0},
		{"log", 0, 1},
		{"off", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			core, logs := observer.New(zap.InfoLevel)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			logger := auditlog.New(store, zap.New(core), auditlog.Config{Auth: tt.setting, Admin: "off"})
			userID := primitive.NewObjectID()
			logger.LoginSuccess(ctx, httptest.NewRequest("POST", "/login", nil), userID, "john")

			events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(events) != tt.wantDB {
				t.Errorf("db events = %d, want %d", len(events), tt.wantDB)
			}
			if logs.FilterMessage("audit event").Len() != tt.wantLogs {
				t.Errorf("log entries = %d, want %d", logs.Len(), tt.wantLogs)
			}
		})
	}
}

func TestLogger_CategoriesAreIndependent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "off", Admin: "db"})
	req := httptest.NewRequest("POST", "/system/user", nil)
	actor := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	logger.LoginSuccess(ctx, req, userID, "john")
	logger.UserCreated(ctx, req, actor.Hex(), userID, "john")

	events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected only the admin event, got %d", len(events))
	}
	ev := events[0]
	if ev.EventType != audit.EventUserCreated {
		t.Errorf("event type = %q, want %q", ev.EventType, audit.EventUserCreated)
	}
	if ev.ActorID == nil || *ev.ActorID != actor {
		t.Errorf("actor = %v, want %v", ev.ActorID, actor)
	}
	if ev.Details["username"] != "john" {
		t.Errorf("details.username = %q", ev.Details["username"])
	}
}

func TestLogger_FailureIsWarn(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: "log"})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger.LoginFailedUserNotFound(ctx, httptest.NewRequest("POST", "/login", nil), "ghost")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
	if entries[0].ContextMap()["detail_attempted_username"] != "ghost" {
		t.Error("expected attempted username in log fields")
	}
}

func TestLogger_FacebookEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Admin: "db"})
	req := httptest.NewRequest("POST", "/system/facebook/connect", nil)
	actor := primitive.NewObjectID()

	logger.FacebookConnected(ctx, req, actor.Hex(), "fb-1")
	logger.FacebookPageSelected(ctx, req, actor.Hex(), "fb-1", "page-9")
	logger.FacebookDisconnected(ctx, req, actor.Hex(), "fb-1")

	events, err := store.Query(ctx, audit.QueryFilter{ActorID: &actor})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	found := false
	for _, e := range events {
		if e.EventType == audit.EventFacebookPageSelected && e.Details["page_id"] == "page-9" {
			found = true
		}
	}
	if !found {
		t.Error("expected page selection event with page id")
	}
}
