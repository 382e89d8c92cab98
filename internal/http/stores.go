package http

import (
	"context"
	"time"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
	"github.com/mrlokans/library/internal/settingsstore"
)

// This file consolidates the service interfaces used by HTTP controllers.
// Each controller depends only on the methods it calls.

// CatalogService is implemented by library.Catalog.
type CatalogService interface {
	AddBook(ctx context.Context, title, author, isbn string) (*entities.Book, error)
	RemoveBook(ctx context.Context, isbn string) error
	SearchBooks(ctx context.Context, query string) ([]entities.Book, error)
	GetBook(ctx context.Context, isbn string) (*entities.Book, error)
	ListBooks(ctx context.Context) ([]entities.Book, error)
}

// CirculationService is implemented by library.Ledger.
type CirculationService interface {
	CheckOut(ctx context.Context, who library.Identity, isbn string, now time.Time) (*library.CheckoutResult, error)
	ReturnBook(ctx context.Context, who library.Identity, isbn string, now time.Time, dailyRate library.Cents) (*library.ReturnReceipt, error)
	ListOpenCheckouts(ctx context.Context, who library.Identity, now time.Time, dailyRate library.Cents) ([]library.OpenCheckout, error)
	ListAllOpenCheckouts(ctx context.Context, now time.Time, dailyRate library.Cents, overdueOnly bool) ([]library.OpenCheckout, error)
}

// AccountAdmin is implemented by auth.Service.
type AccountAdmin interface {
	ListAccounts() ([]entities.Account, error)
	RemoveAccount(email string) error
}

// LateFeeRate supplies the daily rate applied at return and listing time.
type LateFeeRate interface {
	LateFeeDailyRate() library.Cents
}

// SettingsStore is implemented by settingsstore.SettingsStore.
type SettingsStore interface {
	LateFeeRate
	LateFeeInfo() settingsstore.LateFeeInfo
	SetLateFeeDailyRate(rate library.Cents) error
	ClearLateFeeDailyRate() error
	CatalogSeededAt() *time.Time
}

// Auditor records domain events. Implemented by audit.Service.
type Auditor interface {
	LogCheckout(actor string, result *library.CheckoutResult)
	LogReturn(actor string, receipt *library.ReturnReceipt)
	LogCatalog(actor, action, isbn, description string, err error)
	LogAccount(actor, action, email, description string)
	LogSettings(actor, action, description string)
}

// AuditReader lists recorded events.
type AuditReader interface {
	GetEvents(filter audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error)
}
