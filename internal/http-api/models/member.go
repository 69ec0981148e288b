package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Member struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	FirstName   string    `gorm:"not null" json:"first_name"`
	LastName    string    `gorm:"not null" json:"last_name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	MemberSince time.Time `json:"member_since"`
	IsDeleted   bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate hook to set UUID before creating a Member
func (m *Member) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

func (Member) TableName() string {
	return "members"
}

// FullName is the display name used when history entries are resolved.
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
