// internal/app/features/facebook/handler.go
package facebook

import (
	"net/http"

	uierrors "github.com/dalemusser/bizadmin/internal/app/features/errors"
	"github.com/dalemusser/bizadmin/internal/app/store/facebookconns"
	"github.com/dalemusser/bizadmin/internal/app/system/auditlog"
	"github.com/dalemusser/bizadmin/internal/app/system/auth"
	"github.com/dalemusser/bizadmin/internal/app/system/graph"
	"github.com/dalemusser/bizadmin/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Metrics  *metrics.Collector
	Graph    *graph.Client
	AppID    string

	conns *facebookconns.Store
}

// NewHandler builds the connection handler. appID is echoed to the client
// so it can start the Facebook login dialog. audit and m may be nil.
func NewHandler(db *mongo.Database, gc *graph.Client, appID string, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, m *metrics.Collector, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Metrics:  m,
		Graph:    gc,
		AppID:    appID,
		conns:    facebookconns.New(db),
	}
}

// caller returns the signed-in user's id. Routes sit behind
// RequireSignedIn, so a miss means a malformed session id.
func caller(r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	return id, err == nil
}
