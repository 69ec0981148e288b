package dto

import (
	"time"

	"librarium/internal/http-api/models"
)

// CreateBookDTO used for POST /api/books
type CreateBookDTO struct {
	Title   string `json:"title" binding:"required"`
	Authors string `json:"authors" binding:"required"`
	ISBN    string `json:"isbn" binding:"required"`
	Genre   string `json:"genre" binding:"required,oneof=Фэнтези Ужасы Роман"`
	Year    int    `json:"year" binding:"required,min=1800"`
	Rating  *int   `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
}

// UpdateBookDTO used for PATCH /api/books/:id. A field present in the
// payload is always applied, including zero values; absent fields are left
// untouched. Lending state is never patchable.
type UpdateBookDTO struct {
	Title   *string `json:"title,omitempty"`
	Authors *string `json:"authors,omitempty"`
	ISBN    *string `json:"isbn,omitempty"`
	Genre   *string `json:"genre,omitempty" binding:"omitempty,oneof=Фэнтези Ужасы Роман"`
	Year    *int    `json:"year,omitempty" binding:"omitempty,min=1800"`
	Rating  *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
}

// BookResponse DTO for list/detail responses; history is never inlined here.
type BookResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Authors    string     `json:"authors"`
	ISBN       string     `json:"isbn"`
	Genre      string     `json:"genre"`
	Year       int        `json:"year"`
	Rating     int        `json:"rating"`
	BorrowedBy *string    `json:"borrowed_by,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	IsDeleted  bool       `json:"is_deleted"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Converters

func (d CreateBookDTO) ToModel() models.Book {
	b := models.Book{
		Title:   d.Title,
		Authors: d.Authors,
		ISBN:    d.ISBN,
		Genre:   d.Genre,
		Year:    d.Year,
	}
	if d.Rating != nil {
		b.Rating = *d.Rating
	}
	return b
}

func (d UpdateBookDTO) ApplyTo(b *models.Book) {
	if d.Title != nil {
		b.Title = *d.Title
	}
	if d.Authors != nil {
		b.Authors = *d.Authors
	}
	if d.ISBN != nil {
		b.ISBN = *d.ISBN
	}
	if d.Genre != nil {
		b.Genre = *d.Genre
	}
	if d.Year != nil {
		b.Year = *d.Year
	}
	if d.Rating != nil {
		b.Rating = *d.Rating
	}
}

func FromBookToResponse(b models.Book) BookResponse {
	return BookResponse{
		ID:         b.ID,
		Title:      b.Title,
		Authors:    b.Authors,
		ISBN:       b.ISBN,
		Genre:      b.Genre,
		Year:       b.Year,
		Rating:     b.Rating,
		BorrowedBy: b.BorrowedBy,
		DueDate:    b.DueDate,
		IsDeleted:  b.IsDeleted,
		CreatedAt:  b.CreatedAt,
	}
}
