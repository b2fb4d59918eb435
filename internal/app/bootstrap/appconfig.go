// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging, CORS). AppConfig is everything specific to this application:
// database connection strings, external integration endpoints and
// credentials, and domain defaults.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions
	SessionDomain string // Cookie domain (blank means current host)

	// Meeting server integration (BigBlueButton-compatible)
	MeetingURL    string // API root, e.g. https://meet.example.org/bigbluebutton/api
	MeetingSecret string // shared secret for request checksums

	// Identity provider integration (Keycloak-compatible)
	DirectoryURL      string // base URL, e.g. https://idp.example.org
	DirectoryRealm    string
	DirectoryClientID string
	DirectoryUsername string // service account for the admin API
	DirectoryPassword string

	// Rate limiting for mutating API routes
	MutationRateLimit int // requests per second per client

	// SuperAdmin bootstrap
	SuperAdminEmail string // promotes/creates this account as admin on startup
}

// MeetingConfigured reports whether the meeting integration is usable.
func (c AppConfig) MeetingConfigured() bool {
	return c.MeetingURL != "" && c.MeetingSecret != ""
}

// DirectoryConfigured reports whether the identity-provider sync is usable.
func (c AppConfig) DirectoryConfigured() bool {
	return c.DirectoryURL != "" && c.DirectoryRealm != "" && c.DirectoryUsername != ""
}
