// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Storage Interfaces (internal/library/stores.go)
//
//   - BookStore: Catalog table (upsert, search, delete)
//   - BookGetter: Single book lookup used by the ledger
//   - AccountFinder: Account lookup used by the ledger
//   - CheckoutStore: Open checkouts (conditional insert, settle and remove)
//
// Other storage contracts live next to their consumer:
//
//   - auth.AccountRepository: Account registration and removal (internal/auth/service.go)
//   - settingsstore.Repository: Key/value settings (internal/settingsstore/settingsstore.go)
//
// ## HTTP Interfaces (internal/http/stores.go)
//
//   - CatalogService: Implemented by library.Catalog
//   - CirculationService: Implemented by library.Ledger
//   - AccountAdmin: Implemented by auth.Service
//   - SettingsStore: Implemented by settingsstore.SettingsStore
//   - AuditService: Implemented by audit.Service
//
// ## Background Work
//
//   - tasks.AuditPurger: Deletes expired audit events (audit.Service)
//   - scheduler.PurgeEnqueuer: Queues purge tasks (tasks.Client)
//
// # Adding a New Circulation Rule
//
// Rules that depend on time take "now" as a parameter instead of reading the
// clock, so handlers and tests control it:
//
//  1. Add the computation to internal/library (see fees.go)
//
//     func RenewalAllowed(co entities.Checkout, now time.Time) bool
//
//  2. Expose it through the Ledger and add the method to CirculationService
//
//  3. Register the route in internal/http/router.go
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., reservations):
//
//  1. Create sub-package: internal/database/reservations/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add the entity to the AutoMigrate list in database.go
//
//  4. Add compile-time check:
//
//     var _ library.ReservationStore = (*reservations.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
