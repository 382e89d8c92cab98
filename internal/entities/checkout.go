package entities

import "time"

// Checkout is an open loan of one book to one account.
//
// The composite unique index on (account_email, isbn) guarantees a single
// open checkout per pair; returning a book removes the row.
type Checkout struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	AccountEmail string    `gorm:"size:254;not null;uniqueIndex:idx_checkouts_account_isbn" json:"account_email"`
	ISBN         string    `gorm:"column:isbn;size:32;not null;uniqueIndex:idx_checkouts_account_isbn;index" json:"isbn"`
	CheckoutTime time.Time `gorm:"not null" json:"checkout_time"`
	DueTime      time.Time `gorm:"not null;index" json:"due_time"`
	Returned     bool      `gorm:"not null" json:"returned"`
	LateFeeCents int64     `gorm:"not null" json:"late_fee_cents"`

	// Both relations are belongs-to. ISBN shares its name with Book.ISBN, so
	// without the tag GORM would put the key on books instead.
	Account Account `gorm:"foreignKey:AccountEmail;references:Email;belongsTo;constraint:OnDelete:CASCADE" json:"-"`
	Book    Book    `gorm:"foreignKey:ISBN;references:ISBN;belongsTo;constraint:OnDelete:CASCADE" json:"book"`
}

func (Checkout) TableName() string {
	return "checkouts"
}
