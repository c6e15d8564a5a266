// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for bizadmin.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: BIZADMIN_MONGO_URI, BIZADMIN_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "bizadmin", Desc: "MongoDB database name"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "bizadmin-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 24h, 30m)"},

	// Facebook
	{Name: "facebook_app_id", Default: "", Desc: "Facebook app ID returned to clients"},
	{Name: "facebook_app_secret", Default: "", Desc: "Facebook app secret"},
	{Name: "facebook_graph_url", Default: "", Desc: "Graph API base URL (blank for the default version)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Rate limits
	{Name: "check_rate_per_minute", Default: 120, Desc: "Username checks per client IP per minute (0 disables)"},
	{Name: "login_rate_per_minute", Default: 20, Desc: "Sign-in attempts per client IP per minute (0 disables)"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries and writes"},

	// SuperAdmin bootstrap
	{Name: "superadmin_username", Default: "", Desc: "Username of the default admin (created or promoted on startup)"},
	{Name: "superadmin_password", Default: "", Desc: "Password used when the default admin is created"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig reads .env files, config files,
// environment variables (WAFFLE_* for core, BIZADMIN_* for app) and flags,
// merging with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "BIZADMIN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		FacebookAppID:     appValues.String("facebook_app_id"),
		FacebookAppSecret: appValues.String("facebook_app_secret"),
		FacebookGraphURL:  appValues.String("facebook_graph_url"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		CheckRatePerMinute: appValues.Int("check_rate_per_minute"),
		LoginRatePerMinute: appValues.Int("login_rate_per_minute"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),

		SuperAdminUsername: appValues.String("superadmin_username"),
		SuperAdminPassword: appValues.String("superadmin_password"),
	}

	return coreCfg, appCfg, nil
}

var auditModes = map[string]bool{"all": true, "db": true, "log": true, "off": true}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if !auditModes[appCfg.AuditLogAuth] {
		return fmt.Errorf("audit_log_auth: unknown mode %q", appCfg.AuditLogAuth)
	}
	if !auditModes[appCfg.AuditLogAdmin] {
		return fmt.Errorf("audit_log_admin: unknown mode %q", appCfg.AuditLogAdmin)
	}
	if appCfg.CheckRatePerMinute < 0 || appCfg.LoginRatePerMinute < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}
	if appCfg.SuperAdminPassword != "" && len(appCfg.SuperAdminPassword) < 8 {
		return fmt.Errorf("superadmin_password must be at least 8 characters")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.FacebookAppID != "" && appCfg.FacebookAppSecret == "" {
		logger.Warn("facebook_app_id set without facebook_app_secret")
	}
	return nil
}
