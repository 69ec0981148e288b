package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Genres is the fixed genre set the catalog accepts. The transport layer
// rejects anything outside this list before it reaches the store.
var Genres = []string{"Фэнтези", "Ужасы", "Роман"}

const (
	RatingMin = 1
	RatingMax = 5
)

type Book struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	Title      string     `gorm:"not null" json:"title"`
	Authors    string     `gorm:"not null" json:"authors"`
	ISBN       string     `gorm:"uniqueIndex;not null" json:"isbn"`
	Genre      string     `gorm:"not null" json:"genre"`
	Year       int        `gorm:"not null" json:"year"`
	Rating     int        `gorm:"default:1" json:"rating"`
	BorrowedBy *string    `gorm:"type:uuid" json:"borrowed_by,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	IsDeleted  bool       `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt  time.Time  `json:"created_at"`

	// association; loaded explicitly, never by default
	History []BorrowRecord `gorm:"foreignKey:BookID" json:"history,omitempty"`
}

// BeforeCreate hook to set UUID before creating a Book
func (b *Book) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

func (Book) TableName() string {
	return "books"
}

// Borrowed reports whether the book currently has an active borrower.
func (b *Book) Borrowed() bool {
	return b.BorrowedBy != nil
}

// OverdueAt reports whether the book is past due at the given instant.
// A book due exactly at now is not overdue.
func (b *Book) OverdueAt(now time.Time) bool {
	return b.BorrowedBy != nil && b.DueDate != nil && b.DueDate.Before(now)
}
