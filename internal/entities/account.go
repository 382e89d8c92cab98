package entities

import "time"

type Account struct {
	Email        string     `gorm:"primaryKey;size:254" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"` // bcrypt, never serialized
	IsAdmin      bool       `gorm:"not null" json:"is_admin"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
