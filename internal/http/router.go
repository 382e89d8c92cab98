package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/metrics"
)

// hstsMaxAge is one year, applied only when cookies are HTTPS-only.
const hstsMaxAge = 31536000

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cfg.Metrics.Middleware())

	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware(hstsMaxAge))
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Every request gets an identity, anonymous without a session.
	authMiddleware := cfg.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = auth.NewMiddleware(cfg.AuthService, cfg.SessionManager)
	}
	router.Use(authMiddleware.Handler())

	flash := cfg.flasher()
	auditor := cfg.auditor()

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", Ping)

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := router.Group("/api")
	authed := api.Group("", authMiddleware.RequireAuth())
	admin := api.Group("/admin", authMiddleware.RequireAdmin())

	// Account creation, login, logout and session state
	if cfg.AuthService != nil {
		var authAuditor auth.Auditor
		if cfg.Audit != nil {
			authAuditor = cfg.Audit
		}
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, &loginObserver{
			next:    authAuditor,
			metrics: cfg.Metrics,
		})
		authController.RegisterRoutes(api)

		accountsController := NewAccountsController(cfg.AuthService, auditor, flash)
		admin.GET("/accounts", accountsController.ListAccounts)
		admin.DELETE("/accounts/:email", accountsController.RemoveAccount)
	}

	// Catalog
	if cfg.Catalog != nil {
		catalogController := NewCatalogController(cfg.Catalog, auditor, cfg.Metrics, flash)
		api.GET("/books", catalogController.ListBooks)
		api.GET("/books/search", catalogController.SearchBooks)
		api.GET("/books/:isbn", catalogController.GetBook)
		admin.POST("/books", catalogController.AddBook)
		admin.DELETE("/books/:isbn", catalogController.RemoveBook)
	}

	// Circulation
	if cfg.Ledger != nil && cfg.Settings != nil {
		checkoutsController := NewCheckoutsController(cfg.Ledger, cfg.Settings, auditor, cfg.Metrics, flash)
		if cfg.Clock != nil {
			checkoutsController.now = cfg.Clock
		}
		authed.GET("/checkouts", checkoutsController.ListMine)
		authed.POST("/checkouts/:isbn", checkoutsController.CheckOut)
		authed.POST("/checkouts/:isbn/return", checkoutsController.ReturnBook)
		admin.GET("/checkouts", checkoutsController.ListAll)
	}

	// Runtime settings
	if cfg.Settings != nil {
		settingsController := NewSettingsController(cfg.Settings, auditor, flash)
		admin.GET("/settings", settingsController.GetSettings)
		admin.GET("/settings/late-fee", settingsController.GetLateFee)
		admin.PUT("/settings/late-fee", settingsController.UpdateLateFee)
		admin.DELETE("/settings/late-fee", settingsController.ResetLateFee)
	}

	// Audit log
	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		admin.GET("/audit", auditController.GetAuditEvents)
	}

	return router
}

// loginObserver forwards auth events to the audit log and counts logins.
type loginObserver struct {
	next    auth.Auditor
	metrics *metrics.Metrics
}

func (o *loginObserver) LogAuth(email, action, ipAddr, userAgent string, success bool) {
	if action == "login" {
		o.metrics.ObserveLogin(success)
	}
	if o.next != nil {
		o.next.LogAuth(email, action, ipAddr, userAgent, success)
	}
}
