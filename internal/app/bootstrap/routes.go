// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/bizadmin/internal/app/features/errors"
	facebookfeature "github.com/dalemusser/bizadmin/internal/app/features/facebook"
	healthfeature "github.com/dalemusser/bizadmin/internal/app/features/health"
	loginfeature "github.com/dalemusser/bizadmin/internal/app/features/login"
	logoutfeature "github.com/dalemusser/bizadmin/internal/app/features/logout"
	usersfeature "github.com/dalemusser/bizadmin/internal/app/features/users"
	"github.com/dalemusser/bizadmin/internal/app/store/audit"
	userstore "github.com/dalemusser/bizadmin/internal/app/store/users"
	"github.com/dalemusser/bizadmin/internal/app/system/auditlog"
	"github.com/dalemusser/bizadmin/internal/app/system/auth"
	"github.com/dalemusser/bizadmin/internal/app/system/graph"
	"github.com/dalemusser/bizadmin/internal/app/system/metrics"
	"github.com/dalemusser/bizadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/bizadmin/internal/app/system/requestid"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. Every route speaks JSON; the console client is
// the only UI.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request, so role changes and deletions take
	// effect immediately.
	db := deps.MongoDatabase
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	m := metrics.New()

	return newRouter(routerDeps{
		db:         db,
		client:     deps.MongoClient,
		sessionMgr: sessionMgr,
		errLog:     errLog,
		auditLog:   auditLog,
		metrics:    m,
		graph:      graph.New(appCfg.FacebookAppID, appCfg.FacebookAppSecret, appCfg.FacebookGraphURL),
		appCfg:     appCfg,
		logger:     logger,
	}), nil
}

type routerDeps struct {
	db         *mongo.Database
	client     *mongo.Client
	sessionMgr *auth.SessionManager
	errLog     *errorsfeature.ErrorLogger
	auditLog   *auditlog.Logger
	metrics    *metrics.Collector
	graph      *graph.Client
	appCfg     AppConfig
	logger     *zap.Logger
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(d.metrics.Middleware)
	// Loads SessionUser into context if signed in.
	r.Use(d.sessionMgr.LoadSessionUser)

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(d.client, d.logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", d.metrics.Handler())

	// Authentication
	loginHandler := loginfeature.NewHandler(d.db, d.sessionMgr, d.errLog, d.auditLog, d.logger)
	r.Mount("/login", loginfeature.Routes(loginHandler, limiter(d.appCfg.LoginRatePerMinute)))

	logoutHandler := logoutfeature.NewHandler(d.sessionMgr, d.auditLog, d.logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, d.sessionMgr))

	// User management
	usersHandler := usersfeature.NewHandler(d.db, d.errLog, d.auditLog, d.metrics, d.logger)
	r.Mount("/system/user", usersfeature.Routes(usersHandler, d.sessionMgr, limiter(d.appCfg.CheckRatePerMinute)))

	// Facebook page connections
	fbHandler := facebookfeature.NewHandler(d.db, d.graph, d.appCfg.FacebookAppID, d.errLog, d.auditLog, d.metrics, d.logger)
	r.Mount("/system/facebook", facebookfeature.Routes(fbHandler, d.sessionMgr))

	return r
}

// limiter returns nil for a non-positive budget so routes skip the middleware.
func limiter(perMinute int) *ratelimit.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return ratelimit.New(perMinute)
}
