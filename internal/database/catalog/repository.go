// Package catalog provides database operations for the book catalog.
//
// # Usage
//
//	repo := catalog.NewRepository(db)
//	books, err := repo.SearchBooks(ctx, "Tolkien", false)
package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertBook inserts a book or overwrites title and author of the row with
// the same ISBN.
func (r *Repository) UpsertBook(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "isbn"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "author", "updated_at"}),
		}).
		Create(book).Error
}

// GetBook retrieves a book by ISBN.
func (r *Repository) GetBook(ctx context.Context, isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes a book and reports how many rows were deleted.
func (r *Repository) DeleteBook(ctx context.Context, isbn string) (int64, error) {
	result := r.db.WithContext(ctx).Where("isbn = ?", isbn).Delete(&entities.Book{})
	return result.RowsAffected, result.Error
}

// SearchBooks returns books whose title, author or ISBN contains query.
// instr is used instead of LIKE so '%' and '_' in the query match literally.
// Case-insensitive matching folds both sides with the Unicode-aware
// database.LowerFunc.
func (r *Repository) SearchBooks(ctx context.Context, query string, caseSensitive bool) ([]entities.Book, error) {
	var books []entities.Book
	q := r.db.WithContext(ctx).Order("title ASC, isbn ASC")
	if query != "" {
		if caseSensitive {
			q = q.Where("instr(title, ?) > 0 OR instr(author, ?) > 0 OR instr(isbn, ?) > 0", query, query, query)
		} else {
			lowered := strings.ToLower(query)
			q = q.Where("instr("+database.LowerFunc+"(title), ?) > 0 OR instr("+database.LowerFunc+"(author), ?) > 0 OR instr(isbn, ?) > 0", lowered, lowered, query)
		}
	}
	err := q.Find(&books).Error
	return books, err
}

// ListBooks returns the whole catalog ordered by title.
func (r *Repository) ListBooks(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Order("title ASC, isbn ASC").Find(&books).Error
	return books, err
}

// CountBooks returns the catalog size.
func (r *Repository) CountBooks(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}
