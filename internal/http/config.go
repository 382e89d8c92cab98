package http

import (
	"time"

	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/metrics"
)

// AuditService is the full audit surface the router hands to controllers.
// Implemented by audit.Service.
type AuditService interface {
	Auditor
	AuditReader
	auth.Auditor
}

// RouterConfig holds all dependencies needed to create the HTTP router.
// Optional dependencies may be nil; their routes or middleware are skipped.
type RouterConfig struct {
	Version  string
	Database Pinger

	// Library services
	Catalog  CatalogService
	Ledger   CirculationService
	Settings SettingsStore

	// Clock overrides time.Now for due dates and late fees.
	Clock func() time.Time

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	// Observability (optional)
	Audit   AuditService
	Metrics *metrics.Metrics
}

// flasher returns the session manager as a Flasher, or nil without sessions.
func (cfg RouterConfig) flasher() Flasher {
	if cfg.SessionManager == nil {
		return nil
	}
	return cfg.SessionManager
}

// auditor returns the audit service as an Auditor, or nil when disabled.
func (cfg RouterConfig) auditor() Auditor {
	if cfg.Audit == nil {
		return nil
	}
	return cfg.Audit
}
