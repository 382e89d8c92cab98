package entities

import "time"

// Book is a catalog entry. ISBN holds digits only and identifies the book.
type Book struct {
	ISBN      string    `gorm:"column:isbn;primaryKey;size:32" json:"isbn"`
	Title     string    `gorm:"index;size:512;not null" json:"title"`
	Author    string    `gorm:"index;size:256" json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}
