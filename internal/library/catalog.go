package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

// Catalog manages the set of books available for checkout.
type Catalog struct {
	books         BookStore
	caseSensitive bool
}

func NewCatalog(books BookStore, caseSensitive bool) *Catalog {
	return &Catalog{
		books:         books,
		caseSensitive: caseSensitive,
	}
}

// AddBook inserts the book or replaces title and author of the existing
// entry with the same ISBN.
func (c *Catalog) AddBook(ctx context.Context, title, author, isbn string) (*entities.Book, error) {
	normalized, err := NormalizeISBN(isbn)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	book := &entities.Book{
		ISBN:   normalized,
		Title:  title,
		Author: strings.TrimSpace(author),
	}
	if err := c.books.UpsertBook(ctx, book); err != nil {
		return nil, Operational("save book", err)
	}
	return book, nil
}

// RemoveBook deletes a book. Open checkouts of it go with it.
func (c *Catalog) RemoveBook(ctx context.Context, isbn string) error {
	normalized, err := NormalizeISBN(isbn)
	if err != nil {
		return err
	}
	deleted, err := c.books.DeleteBook(ctx, normalized)
	if err != nil {
		return Operational("delete book", err)
	}
	if deleted == 0 {
		return ErrBookNotFound
	}
	return nil
}

// SearchBooks returns every book whose title, author or ISBN contains query.
func (c *Catalog) SearchBooks(ctx context.Context, query string) ([]entities.Book, error) {
	books, err := c.books.SearchBooks(ctx, query, c.caseSensitive)
	if err != nil {
		return nil, Operational("search books", err)
	}
	return books, nil
}

func (c *Catalog) GetBook(ctx context.Context, isbn string) (*entities.Book, error) {
	normalized, err := NormalizeISBN(isbn)
	if err != nil {
		return nil, err
	}
	book, err := c.books.GetBook(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, Operational("get book", err)
	}
	return book, nil
}

func (c *Catalog) ListBooks(ctx context.Context) ([]entities.Book, error) {
	books, err := c.books.ListBooks(ctx)
	if err != nil {
		return nil, Operational("list books", err)
	}
	return books, nil
}

// SeedReport summarizes a catalog seed run.
type SeedReport struct {
	Loaded  int      `json:"loaded"`
	Skipped []string `json:"skipped,omitempty"`
}

// Seed loads a title;author;isbn list into the catalog. Malformed rows are
// skipped and listed in the report; storage failures abort the run.
func (c *Catalog) Seed(ctx context.Context, r io.Reader) (*SeedReport, error) {
	rows, skipped, err := ParseCatalogSeed(r)
	if err != nil {
		return nil, err
	}

	report := &SeedReport{Skipped: skipped}
	for _, row := range rows {
		if _, err := c.AddBook(ctx, row.Title, row.Author, row.ISBN); err != nil {
			if errors.Is(err, ErrValidation) {
				report.Skipped = append(report.Skipped, fmt.Sprintf("line %d: %v", row.Line, err))
				continue
			}
			return report, err
		}
		report.Loaded++
	}
	return report, nil
}
