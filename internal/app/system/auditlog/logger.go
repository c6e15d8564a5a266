// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/bizadmin/internal/app/store/audit"
	"github.com/dalemusser/bizadmin/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for sign-in and sign-out events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for user and Facebook connection changes.
	// Same values as Auth.
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handler tests can skip auditing.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// oid converts a hex id from the session into an ObjectID pointer.
// Malformed ids are dropped rather than failing the audit write.
func oid(hex string) *primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &id
}

func (l *Logger) base(r *http.Request, category, eventType string) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, username string) {
	ev := l.base(r, audit.CategoryAuth, audit.EventLoginSuccess)
	ev.UserID = &userID
	ev.Details = map[string]string{"username": username}
	l.Log(ctx, ev)
}

// LoginFailedUserNotFound logs a sign-in for an unknown or deleted username.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attempted string) {
	ev := l.base(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound)
	ev.Success = false
	ev.FailureReason = "user not found"
	ev.Details = map[string]string{"attempted_username": attempted}
	l.Log(ctx, ev)
}

// LoginFailedWrongPassword logs a sign-in with a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, username string) {
	ev := l.base(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword)
	ev.UserID = &userID
	ev.Success = false
	ev.FailureReason = "wrong password"
	ev.Details = map[string]string{"username": username}
	l.Log(ctx, ev)
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	ev := l.base(r, audit.CategoryAuth, audit.EventLogout)
	ev.UserID = oid(userID)
	l.Log(ctx, ev)
}

// --- Admin Events ---

// UserCreated logs creation of a user by actorID.
func (l *Logger) UserCreated(ctx context.Context, r *http.Request, actorID string, userID primitive.ObjectID, username string) {
	ev := l.base(r, audit.CategoryAdmin, audit.EventUserCreated)
	ev.ActorID = oid(actorID)
	ev.UserID = &userID
	ev.Details = map[string]string{"username": username}
	l.Log(ctx, ev)
}

// UserUpdated logs an edit. passwordChanged records whether a new password
// was supplied.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, actorID string, userID primitive.ObjectID, passwordChanged bool) {
	ev := l.base(r, audit.CategoryAdmin, audit.EventUserUpdated)
	ev.ActorID = oid(actorID)
	ev.UserID = &userID
	changed := "false"
	if passwordChanged {
		changed = "true"
	}
	ev.Details = map[string]string{"password_changed": changed}
	l.Log(ctx, ev)
}

// UserDeleted logs a soft delete.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actorID string, userID primitive.ObjectID) {
	ev := l.base(r, audit.CategoryAdmin, audit.EventUserDeleted)
	ev.ActorID = oid(actorID)
	ev.UserID = &userID
	l.Log(ctx, ev)
}

// FacebookConnected logs a new or refreshed Facebook connection.
func (l *Logger) FacebookConnected(ctx context.Context, r *http.Request, actorID, facebookUserID string) {
	ev := l.base(r, audit.CategoryAdmin, audit.EventFacebookConnected)
	ev.ActorID = oid(actorID)
	ev.UserID = oid(actorID)
	ev.Details = map[string]string{"facebook_user_id": facebookUserID}
	l.Log(ctx, ev)
}

// FacebookPageSelected logs the choice of a page for a connection.
func (l *Logger) FacebookPageSelected(ctx context.Context, r *http.Request, actorID, facebookUserID, pageID string) {
	ev := l.base(r, audit.CategoryAdmin, audit.EventFacebookPageSelected)
	ev.ActorID = oid(actorID)
	ev.UserID = oid(actorID)
	ev.Details = map[string]string{"facebook_user_id": facebookUserID, "page_id": pageID}
	l.Log(ctx, ev)
}

// FacebookDisconnected logs removal of a connection.
func (l *Logger) FacebookDisconnected(ctx context.Context, r *http.Request, actorID, facebookUserID string) {
	ev := l.base(r, audit.CategoryAdmin, audit.EventFacebookDisconnected)
	ev.ActorID = oid(actorID)
	ev.UserID = oid(actorID)
	ev.Details = map[string]string{"facebook_user_id": facebookUserID}
	l.Log(ctx, ev)
}
