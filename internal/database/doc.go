// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, SQLite pragmas, migrations
//	├── catalog/         # Books: upsert, substring search, delete
//	├── accounts/        # Accounts: insert-if-absent, lookup, delete
//	├── checkouts/       # Open checkouts: conditional insert, settle and remove
//	├── audit/           # Audit trail
//	└── settings/        # Application settings
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./library.db")
//
//	books := catalog.NewRepository(db.DB)
//	loans := checkouts.NewRepository(db.DB)
//
//	ledger := library.NewLedger(loans, books, accounts.NewRepository(db.DB), 14*24*time.Hour)
//
// # Interface Implementations
//
//   - catalog.Repository: implements library.BookStore
//   - accounts.Repository: implements library.AccountFinder
//   - checkouts.Repository: implements library.CheckoutStore
//   - audit.Repository: backs audit.Service
//   - settings.Repository: implements settingsstore.Repository
//
// Lookups that find nothing return gorm.ErrRecordNotFound unchanged; the
// services translate it into their own not-found errors.
//
// # Integrity
//
// Checkout uniqueness and the cascades on book and account removal are
// enforced by SQLite itself (unique index and foreign keys), so connections
// must be opened through DSN.
package database
