// Package accounts provides database operations for library accounts.
//
// # Usage
//
//	repo := accounts.NewRepository(db)
//	account, err := repo.GetAccount("alice@example.com")
package accounts

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all account database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new accounts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateIfAbsent inserts the account unless one with the same email exists.
// An existing row is never modified. Reports whether a row was inserted.
func (r *Repository) CreateIfAbsent(account *entities.Account) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(account)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// GetAccount retrieves an account by email.
func (r *Repository) GetAccount(email string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.Where("email = ?", email).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts returns all accounts ordered by email.
func (r *Repository) ListAccounts() ([]entities.Account, error) {
	var list []entities.Account
	err := r.db.Order("email ASC").Find(&list).Error
	return list, err
}

// DeleteAccount removes an account and reports how many rows were deleted.
// Open checkouts are removed by the foreign key cascade.
func (r *Repository) DeleteAccount(email string) (int64, error) {
	result := r.db.Where("email = ?", email).Delete(&entities.Account{})
	return result.RowsAffected, result.Error
}

// TouchLastLogin records a successful login.
func (r *Repository) TouchLastLogin(email string, at time.Time) error {
	return r.db.Model(&entities.Account{}).Where("email = ?", email).Update("last_login_at", at).Error
}
