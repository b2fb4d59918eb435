// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for TeamHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: TEAMHUB_MONGO_URI, TEAMHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "teamhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "teamhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Meeting server (BigBlueButton-compatible)
	{Name: "meeting_url", Default: "", Desc: "Meeting server API root (blank disables the integration)"},
	{Name: "meeting_secret", Default: "", Desc: "Meeting server shared secret"},

	// Identity provider (Keycloak-compatible)
	{Name: "directory_url", Default: "", Desc: "Identity provider base URL (blank disables the sync)"},
	{Name: "directory_realm", Default: "", Desc: "Identity provider realm"},
	{Name: "directory_client_id", Default: "admin-cli", Desc: "Identity provider OAuth client ID"},
	{Name: "directory_username", Default: "", Desc: "Identity provider service account username"},
	{Name: "directory_password", Default: "", Desc: "Identity provider service account password"},

	// Rate limiting
	{Name: "mutation_rate_limit", Default: 5, Desc: "Mutating requests per second per client"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the superadmin user (promotes/creates on startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app. config.LoadWithAppConfig merges .env files, config
// files, environment variables (WAFFLE_* for core, TEAMHUB_* for app),
// and command-line flags, with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TEAMHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		MeetingURL:    appValues.String("meeting_url"),
		MeetingSecret: appValues.String("meeting_secret"),

		DirectoryURL:      appValues.String("directory_url"),
		DirectoryRealm:    appValues.String("directory_realm"),
		DirectoryClientID: appValues.String("directory_client_id"),
		DirectoryUsername: appValues.String("directory_username"),
		DirectoryPassword: appValues.String("directory_password"),

		MutationRateLimit: appValues.Int("mutation_rate_limit"),

		SuperAdminEmail: appValues.String("superadmin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// TeamHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and refuses half-configured
// integrations so a typo'd key fails loudly instead of silently running
// in no-op mode.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if (appCfg.MeetingURL == "") != (appCfg.MeetingSecret == "") {
		return fmt.Errorf("meeting_url and meeting_secret must be set together")
	}

	if appCfg.DirectoryURL != "" && !appCfg.DirectoryConfigured() {
		return fmt.Errorf("directory_url requires directory_realm and directory_username")
	}

	if appCfg.MutationRateLimit <= 0 {
		return fmt.Errorf("mutation_rate_limit must be positive")
	}

	return nil
}
