// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and CORS; everything specific to bizadmin lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: bizadmin-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Facebook app credentials for the page connection flow
	FacebookAppID     string
	FacebookAppSecret string
	FacebookGraphURL  string // Graph API base URL; blank uses graph.DefaultBaseURL

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Per-IP request budgets; 0 disables the limiter
	CheckRatePerMinute int
	LoginRatePerMinute int

	// Handler timeouts
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration

	// Default admin created on startup when missing
	SuperAdminUsername string
	SuperAdminPassword string
}
