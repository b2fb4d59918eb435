// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	authnfeature "github.com/dalemusser/teamhub/internal/app/features/authn"
	bookmarksfeature "github.com/dalemusser/teamhub/internal/app/features/bookmarks"
	groupsfeature "github.com/dalemusser/teamhub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/teamhub/internal/app/features/health"
	servicesfeature "github.com/dalemusser/teamhub/internal/app/features/services"
	userinfofeature "github.com/dalemusser/teamhub/internal/app/features/userinfo"
	usersfeature "github.com/dalemusser/teamhub/internal/app/features/users"
	"github.com/dalemusser/teamhub/internal/app/policy"
	bookmarkstore "github.com/dalemusser/teamhub/internal/app/store/bookmarks"
	groupstore "github.com/dalemusser/teamhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/teamhub/internal/app/store/memberships"
	servicestore "github.com/dalemusser/teamhub/internal/app/store/services"
	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	"github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/app/system/ratelimit"
	"github.com/dalemusser/teamhub/internal/clients/directory"
	"github.com/dalemusser/teamhub/internal/clients/meeting"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. It creates the session manager,
// the stores, the authorization checker, and the external integration
// clients, then mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Stores share the one database handle.
	db := deps.MongoDatabase
	users := userstore.New(db)
	groups := groupstore.New(db)
	memberships := membershipstore.New(db)
	bookmarks := bookmarkstore.New(db)
	services := servicestore.New(db)

	// The UserFetcher re-reads the user document on every request so
	// deactivations and admin-flag changes take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	checker := policy.NewChecker(db)

	// External integrations degrade to disabled/no-op when unconfigured.
	meetClient := meeting.New(appCfg.MeetingURL, appCfg.MeetingSecret, logger)

	var dir directory.Sync = directory.NoOp{}
	if appCfg.DirectoryConfigured() {
		dir = directory.New(directory.Config{
			BaseURL:  appCfg.DirectoryURL,
			Realm:    appCfg.DirectoryRealm,
			ClientID: appCfg.DirectoryClientID,
			Username: appCfg.DirectoryUsername,
			Password: appCfg.DirectoryPassword,
		}, logger)
		logger.Info("directory sync enabled", zap.String("realm", appCfg.DirectoryRealm))
	}

	// One shared limiter covers all mutating API routes.
	mutationLimiter := ratelimit.New(appCfg.MutationRateLimit, time.Second)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Session identity for API consumers
	userinfoHandler := userinfofeature.NewHandler()
	r.Mount("/api/userinfo", userinfofeature.Routes(userinfoHandler))

	// Authentication
	authnHandler := authnfeature.NewHandler(users, sessionMgr, logger)
	r.Mount("/auth", authnfeature.Routes(authnHandler))

	// Group management
	groupsHandler := groupsfeature.NewHandler(groups, memberships, users, bookmarks, checker, meetClient, dir, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr, mutationLimiter))

	// Bookmark management (addressed by bookmark ID)
	bookmarksHandler := bookmarksfeature.NewHandler(bookmarks, groups, checker, logger)
	r.Mount("/bookmarks", bookmarksfeature.Routes(bookmarksHandler, sessionMgr, mutationLimiter))

	// User administration and self-service
	usersHandler := usersfeature.NewHandler(users, groups, memberships, dir, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr, mutationLimiter))

	// Services catalog
	servicesHandler := servicesfeature.NewHandler(services, users, logger)
	r.Mount("/services", servicesfeature.Routes(servicesHandler, sessionMgr, mutationLimiter))

	return r, nil
}
