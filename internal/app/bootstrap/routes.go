// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	adminfeature "github.com/viralmotors/platform/internal/app/features/admin"
	articlesfeature "github.com/viralmotors/platform/internal/app/features/articles"
	authgooglefeature "github.com/viralmotors/platform/internal/app/features/authgoogle"
	bookmarksfeature "github.com/viralmotors/platform/internal/app/features/bookmarks"
	engagementfeature "github.com/viralmotors/platform/internal/app/features/engagement"
	errorsfeature "github.com/viralmotors/platform/internal/app/features/errors"
	healthfeature "github.com/viralmotors/platform/internal/app/features/health"
	homefeature "github.com/viralmotors/platform/internal/app/features/home"
	loginfeature "github.com/viralmotors/platform/internal/app/features/login"
	logoutfeature "github.com/viralmotors/platform/internal/app/features/logout"
	newsletterfeature "github.com/viralmotors/platform/internal/app/features/newsletter"
	profilefeature "github.com/viralmotors/platform/internal/app/features/profile"
	settingsfeature "github.com/viralmotors/platform/internal/app/features/settings"
	"github.com/viralmotors/platform/internal/app/store/audit"
	profilestore "github.com/viralmotors/platform/internal/app/store/profiles"
	"github.com/viralmotors/platform/internal/app/system/auditlog"
	"github.com/viralmotors/platform/internal/app/system/auth"
	"github.com/viralmotors/platform/internal/app/system/metrics"
	"github.com/viralmotors/platform/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// Viral Motors wires the session manager, audit logging, rate limiters, and
// Prometheus metrics here, then mounts feature routers for the public site
// (articles, newsletter), the signed-in surface (authoring, profile,
// settings, bookmarks, engagement), and the admin console.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// The UserFetcher joins users and profiles on every request, so role
	// changes and profile edits take effect immediately.
	sessionMgr.SetUserFetcher(profilestore.NewFetcher(deps.MongoDatabase))

	errLog := errorsfeature.NewErrorLogger(logger)

	auditLog := auditlog.New(audit.New(deps.MongoDatabase), logger, appCfg.AuditLog)

	loginLimiter := ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
	signupLimiter := ratelimit.NewLoginLimiter(appCfg.SignupRateLimit, appCfg.SignupRateWindow)
	newsletterLimiter := ratelimit.New(appCfg.NewsletterRateLimit, time.Minute)

	r := chi.NewRouter()

	// Request metrics, labeled by chi route pattern.
	r.Use(metrics.Middleware)

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint
	r.Handle("/metrics", metrics.Handler())

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, auditLog, loginLimiter, signupLimiter, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/signup", loginfeature.SignupRoutes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(
		deps.MongoDatabase, sessionMgr, errLog, auditLog,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Articles: public reads plus the signed-in authoring surface, with the
	// engagement toggles sharing the /articles prefix.
	articlesHandler := articlesfeature.NewHandler(deps.MongoDatabase, errLog, auditLog, logger)
	engagementHandler := engagementfeature.NewHandler(deps.MongoClient, deps.MongoDatabase, errLog, logger)
	r.Mount("/articles", articlesfeature.Routes(articlesHandler, sessionMgr.RequireSignedIn,
		func(r chi.Router) { engagementfeature.Register(r, engagementHandler) }))

	// Newsletter signups are public but rate limited per IP.
	newsletterHandler := newsletterfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/newsletter", newsletterfeature.Routes(newsletterHandler, ratelimit.PerIP(newsletterLimiter)))

	// Signed-in account surface
	profileHandler := profilefeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.With(sessionMgr.RequireSignedIn).Mount("/profile", profilefeature.Routes(profileHandler))

	settingsHandler := settingsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.With(sessionMgr.RequireSignedIn).Mount("/settings", settingsfeature.Routes(settingsHandler))

	bookmarksHandler := bookmarksfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.With(sessionMgr.RequireSignedIn).Mount("/bookmarks", bookmarksfeature.Routes(bookmarksHandler))

	// Admin console
	adminHandler := adminfeature.NewHandler(deps.MongoDatabase, errLog, auditLog, logger)
	r.With(sessionMgr.RequireAdmin).Mount("/admin", adminfeature.Routes(adminHandler))

	return r, nil
}
