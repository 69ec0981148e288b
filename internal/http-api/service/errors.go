package service

import "errors"

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrMemberNotFound = errors.New("member not found")

	// Lending state machine rejections. The upstream system silently
	// overwrote the active borrow and re-stamped closed history entries;
	// both transitions are invalid here and surface as conflicts.
	ErrBookAlreadyBorrowed = errors.New("book is already borrowed")
	ErrBookNotBorrowed     = errors.New("book is not borrowed")

	ErrDuplicateISBN  = errors.New("book with this isbn already exists")
	ErrDuplicateEmail = errors.New("member with this email already exists")
)
