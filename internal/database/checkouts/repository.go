// Package checkouts provides database operations for open book checkouts.
//
// A row exists only while a book is out. Uniqueness of (account, book) is
// enforced by the idx_checkouts_account_isbn index, and CreateIfAbsent relies
// on it rather than on a prior lookup.
//
// # Usage
//
//	repo := checkouts.NewRepository(db)
//	created, err := repo.CreateIfAbsent(ctx, &checkout)
package checkouts

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all checkout database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new checkouts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateIfAbsent issues a single INSERT ... ON CONFLICT DO NOTHING and
// reports whether the row was written.
func (r *Repository) CreateIfAbsent(ctx context.Context, co *entities.Checkout) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(co)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// GetOpen retrieves the open checkout of a book by an account.
func (r *Repository) GetOpen(ctx context.Context, email, isbn string) (*entities.Checkout, error) {
	var co entities.Checkout
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("account_email = ? AND isbn = ? AND returned = ?", email, isbn, false).
		First(&co).Error
	if err != nil {
		return nil, err
	}
	return &co, nil
}

// Close loads the open checkout, lets settle fill in the fee, persists it
// and deletes the row, all inside one transaction. The delete is keyed on
// the row id so a concurrent return of the same checkout finds nothing and
// gets gorm.ErrRecordNotFound.
func (r *Repository) Close(ctx context.Context, email, isbn string, settle func(co *entities.Checkout)) (*entities.Checkout, error) {
	var closed entities.Checkout
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Book").
			Where("account_email = ? AND isbn = ? AND returned = ?", email, isbn, false).
			First(&closed).Error; err != nil {
			return err
		}

		settle(&closed)

		if err := tx.Model(&entities.Checkout{}).
			Where("id = ?", closed.ID).
			Updates(map[string]any{
				"returned":       closed.Returned,
				"late_fee_cents": closed.LateFeeCents,
			}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", closed.ID).Delete(&entities.Checkout{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &closed, nil
}

// ListOpenForAccount returns an account's open checkouts with their books,
// soonest due first.
func (r *Repository) ListOpenForAccount(ctx context.Context, email string) ([]entities.Checkout, error) {
	var list []entities.Checkout
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("account_email = ? AND returned = ?", email, false).
		Order("due_time ASC").
		Find(&list).Error
	return list, err
}

// ListOpen returns every open checkout with its book, soonest due first.
func (r *Repository) ListOpen(ctx context.Context) ([]entities.Checkout, error) {
	var list []entities.Checkout
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("returned = ?", false).
		Order("due_time ASC, account_email ASC").
		Find(&list).Error
	return list, err
}

// CountOpen returns the number of books currently out.
func (r *Repository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Checkout{}).Where("returned = ?", false).Count(&count).Error
	return count, err
}
