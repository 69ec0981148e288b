package models

import "time"

// BorrowRecord is one lending cycle of a book. Records are append-only:
// an open record (ReturnedDate == nil) marks the active borrow, and at most
// one open record exists per book at any time.
type BorrowRecord struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID       string     `gorm:"type:uuid;not null;index" json:"book_id"`
	MemberID     string     `gorm:"type:uuid;not null" json:"member_id"`
	BorrowedDate time.Time  `gorm:"not null" json:"borrowed_date"`
	ReturnedDate *time.Time `json:"returned_date,omitempty"`
}

func (BorrowRecord) TableName() string {
	return "borrow_records"
}

// Open reports whether this lending cycle is still active.
func (r *BorrowRecord) Open() bool {
	return r.ReturnedDate == nil
}
