package library

import (
	"context"

	"github.com/mrlokans/library/internal/entities"
)

// Storage contracts used by Catalog and Ledger. Lookups that find nothing
// return gorm.ErrRecordNotFound; the services translate it into ErrNotFound.

// BookStore is the catalog table.
type BookStore interface {
	UpsertBook(ctx context.Context, book *entities.Book) error
	GetBook(ctx context.Context, isbn string) (*entities.Book, error)
	DeleteBook(ctx context.Context, isbn string) (int64, error)
	SearchBooks(ctx context.Context, query string, caseSensitive bool) ([]entities.Book, error)
	ListBooks(ctx context.Context) ([]entities.Book, error)
}

// BookGetter provides read access to a single book.
type BookGetter interface {
	GetBook(ctx context.Context, isbn string) (*entities.Book, error)
}

// AccountFinder looks up accounts by email.
type AccountFinder interface {
	GetAccount(email string) (*entities.Account, error)
}

// CheckoutStore is the open checkout table.
type CheckoutStore interface {
	// CreateIfAbsent inserts co unless the account already holds the book.
	// It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, co *entities.Checkout) (bool, error)
	GetOpen(ctx context.Context, email, isbn string) (*entities.Checkout, error)
	// Close settles the open checkout and removes it in one transaction.
	Close(ctx context.Context, email, isbn string, settle func(co *entities.Checkout)) (*entities.Checkout, error)
	ListOpenForAccount(ctx context.Context, email string) ([]entities.Checkout, error)
	ListOpen(ctx context.Context) ([]entities.Checkout, error)
}
