// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, request limits). AppConfig is everything specific to the
// Viral Motors service: the MongoDB connection, session cookies, OAuth
// credentials, and content/engagement tunables.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL for OAuth callbacks and absolute links
	BaseURL string // e.g., "https://viralmotors.com" or "http://localhost:3000"

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Admin bootstrap: profile with this email is promoted to admin on startup.
	AdminEmail string

	// Rate limiting for login and newsletter signup
	LoginRateLimit      int
	LoginRateWindow     time.Duration
	SignupRateLimit     int
	SignupRateWindow    time.Duration
	NewsletterRateLimit int

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLog string
}
