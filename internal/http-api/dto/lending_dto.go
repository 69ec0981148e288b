package dto

import "time"

// MemberRef is the resolved display form of a non-owning member reference.
// Name and Email stay empty when the member is unknown or archived away.
type MemberRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// HistoryEntryResponse is one lending cycle with its member resolved.
type HistoryEntryResponse struct {
	Member       MemberRef  `json:"member"`
	BorrowedDate time.Time  `json:"borrowed_date"`
	ReturnedDate *time.Time `json:"returned_date,omitempty"`
}

// BookHistoryResponse is the GET /api/books/:id/history payload.
type BookHistoryResponse struct {
	Book    BookResponse           `json:"book"`
	History []HistoryEntryResponse `json:"history"`
}
