package interfaces

// Compile-time checks that concrete types satisfy the interfaces their
// consumers declare.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/accounts"
	"github.com/mrlokans/library/internal/database/catalog"
	"github.com/mrlokans/library/internal/database/checkouts"
	"github.com/mrlokans/library/internal/database/settings"
	"github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/library"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/settingsstore"
	"github.com/mrlokans/library/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ library.BookStore = (*catalog.Repository)(nil)
var _ library.BookGetter = (*catalog.Repository)(nil)
var _ library.AccountFinder = (*accounts.Repository)(nil)
var _ library.CheckoutStore = (*checkouts.Repository)(nil)
var _ auth.AccountRepository = (*accounts.Repository)(nil)
var _ settingsstore.Repository = (*settings.Repository)(nil)

// =============================================================================
// HTTP Layer
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)
var _ http.CatalogService = (*library.Catalog)(nil)
var _ http.CirculationService = (*library.Ledger)(nil)
var _ http.AccountAdmin = (*auth.Service)(nil)
var _ http.SettingsStore = (*settingsstore.SettingsStore)(nil)
var _ http.AuditService = (*audit.Service)(nil)
var _ http.Flasher = (*auth.SessionManager)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.AuditPurger = (*audit.Service)(nil)
var _ scheduler.PurgeEnqueuer = (*tasks.Client)(nil)
