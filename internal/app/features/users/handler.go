// internal/app/features/users/handler.go
package users

import (
	uierrors "github.com/dalemusser/bizadmin/internal/app/features/errors"
	rolestore "github.com/dalemusser/bizadmin/internal/app/store/roles"
	userstore "github.com/dalemusser/bizadmin/internal/app/store/users"
	"github.com/dalemusser/bizadmin/internal/app/system/auditlog"
	"github.com/dalemusser/bizadmin/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Metrics  *metrics.Collector

	users *userstore.Store
	roles *rolestore.Store
}

// NewHandler constructs the user management handler bound to the given
// Mongo database and logger. audit and m may be nil.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, m *metrics.Collector, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Metrics:  m,
		users:    userstore.New(db),
		roles:    rolestore.New(db),
	}
}
