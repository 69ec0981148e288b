package service

import (
	"context"
	"errors"
	"time"

	"librarium/internal/http-api/models"
	"librarium/internal/http-api/repository"
)

// HistoryEntry is one lending cycle with its member reference resolved.
// Member is nil when the id no longer resolves (non-owning reference,
// archival does not cascade).
type HistoryEntry struct {
	Record models.BorrowRecord
	Member *models.Member
}

// BookHistory is the full lending history of one book.
type BookHistory struct {
	Book    models.Book
	Entries []HistoryEntry
}

// LendingService enforces the borrow/return state machine. A book is either
// available (borrowed_by null) or borrowed (borrowed_by + due date set and
// exactly one open history record); every transition between the two is a
// single atomic write against the catalog.
type LendingService interface {
	Borrow(ctx context.Context, bookID, memberID string) (*models.Book, error)
	Return(ctx context.Context, bookID string) (*models.Book, error)
	Overdue(ctx context.Context, limit, offset int) ([]models.Book, int64, error)
	History(ctx context.Context, bookID string) (*BookHistory, error)
}

type lendingService struct {
	books   repository.BookRepository
	members repository.MemberRepository
	cache   BookCacheInvalidator
	// borrowing period in calendar days, threaded in from config
	periodDays int
	now        func() time.Time
}

// BookCacheInvalidator drops cached book projections after a mutation.
// A nil invalidator is a no-op.
type BookCacheInvalidator interface {
	Invalidate(ctx context.Context, bookID string)
}

func NewLendingService(books repository.BookRepository, members repository.MemberRepository, cache BookCacheInvalidator, periodDays int) LendingService {
	if periodDays <= 0 {
		periodDays = 14
	}
	return &lendingService{
		books:      books,
		members:    members,
		cache:      cache,
		periodDays: periodDays,
		now:        time.Now,
	}
}

// Borrow moves a book from available to borrowed on behalf of a member.
// The member existence check runs outside the book transaction; a member
// archived in between is an accepted race.
func (s *lendingService) Borrow(ctx context.Context, bookID, memberID string) (*models.Book, error) {
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if member.IsDeleted {
		return nil, ErrMemberNotFound
	}

	var borrowed *models.Book
	err = s.books.UpdateAtomic(ctx, bookID, func(b *models.Book) error {
		if b.IsDeleted {
			return ErrBookNotFound
		}
		if b.Borrowed() {
			return ErrBookAlreadyBorrowed
		}

		now := s.now()
		due := now.AddDate(0, 0, s.periodDays)
		b.BorrowedBy = &member.ID
		b.DueDate = &due
		b.History = append(b.History, models.BorrowRecord{
			BookID:       b.ID,
			MemberID:     member.ID,
			BorrowedDate: now,
		})
		borrowed = b
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, bookID)
	return borrowed, nil
}

// Return closes the active lending cycle: clears the lending fields and
// stamps the open history record, all in one write. Archived books are
// still returnable so an archived copy cannot be stuck as borrowed.
func (s *lendingService) Return(ctx context.Context, bookID string) (*models.Book, error) {
	var returned *models.Book
	err := s.books.UpdateAtomic(ctx, bookID, func(b *models.Book) error {
		if !b.Borrowed() {
			return ErrBookNotBorrowed
		}

		b.BorrowedBy = nil
		b.DueDate = nil
		now := s.now()
		for i := len(b.History) - 1; i >= 0; i-- {
			if b.History[i].Open() {
				b.History[i].ReturnedDate = &now
				break
			}
		}
		returned = b
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, bookID)
	return returned, nil
}

// Overdue lists non-archived books whose due date is strictly in the past.
func (s *lendingService) Overdue(ctx context.Context, limit, offset int) ([]models.Book, int64, error) {
	now := s.now()
	return s.books.Find(ctx, repository.BookFilter{
		Limit:     limit,
		Offset:    offset,
		DueBefore: &now,
	})
}

// History returns the book's full lending history with member references
// resolved lazily. Archived books keep their history reachable.
func (s *lendingService) History(ctx context.Context, bookID string) (*BookHistory, error) {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	records, err := s.books.HistoryByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if !seen[r.MemberID] {
			seen[r.MemberID] = true
			ids = append(ids, r.MemberID)
		}
	}
	resolved, err := s.members.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Member, len(resolved))
	for i := range resolved {
		byID[resolved[i].ID] = &resolved[i]
	}

	history := &BookHistory{Book: *book, Entries: make([]HistoryEntry, 0, len(records))}
	for _, r := range records {
		history.Entries = append(history.Entries, HistoryEntry{
			Record: r,
			Member: byID[r.MemberID],
		})
	}
	return history, nil
}

func (s *lendingService) invalidate(ctx context.Context, bookID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, bookID)
	}
}
