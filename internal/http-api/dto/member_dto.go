package dto

import (
	"time"

	"librarium/internal/http-api/models"
)

// RegisterMemberDTO used for POST /api/members/register
type RegisterMemberDTO struct {
	FirstName   string     `json:"first_name" binding:"required"`
	LastName    string     `json:"last_name" binding:"required"`
	Email       string     `json:"email" binding:"required,email"`
	MemberSince *time.Time `json:"member_since,omitempty"`
}

// UpdateMemberDTO used for PATCH /api/members/:id (present => overwrite)
type UpdateMemberDTO struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
}

// MemberResponse DTO for responses
type MemberResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	MemberSince time.Time `json:"member_since"`
	IsDeleted   bool      `json:"is_deleted"`
}

// Converters

func (d RegisterMemberDTO) ToModel() models.Member {
	m := models.Member{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
	}
	if d.MemberSince != nil {
		m.MemberSince = *d.MemberSince
	}
	return m
}

func (d UpdateMemberDTO) ApplyTo(m *models.Member) {
	if d.FirstName != nil {
		m.FirstName = *d.FirstName
	}
	if d.LastName != nil {
		m.LastName = *d.LastName
	}
	if d.Email != nil {
		m.Email = *d.Email
	}
}

func FromMemberToResponse(m models.Member) MemberResponse {
	return MemberResponse{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		MemberSince: m.MemberSince,
		IsDeleted:   m.IsDeleted,
	}
}
