package service

import (
	"context"
	"fmt"
	"strings"

	"librarium/internal/http-api/models"
	"librarium/internal/http-api/repository"
)

// In-memory repositories mirroring the GORM implementations closely enough
// for the state machine tests: insertion order, soft-delete filtering,
// strict due-date comparison, conflict on duplicate unique fields.

type fakeBookRepo struct {
	order []string
	books map[string]*models.Book
}

func newFakeBookRepo(books ...*models.Book) *fakeBookRepo {
	r := &fakeBookRepo{books: make(map[string]*models.Book)}
	for i, b := range books {
		if b.ID == "" {
			b.ID = fmt.Sprintf("book-%d", i+1)
		}
		r.order = append(r.order, b.ID)
		r.books[b.ID] = b
	}
	return r
}

func (r *fakeBookRepo) Find(_ context.Context, filter repository.BookFilter) ([]models.Book, int64, error) {
	var matched []models.Book
	for _, id := range r.order {
		b := r.books[id]
		if b.IsDeleted && !filter.IncludeArchived {
			continue
		}
		if filter.Genre != "" && b.Genre != filter.Genre {
			continue
		}
		if filter.DueBefore != nil {
			if b.DueDate == nil || !b.DueDate.Before(*filter.DueBefore) {
				continue
			}
		}
		cp := *b
		cp.History = nil
		matched = append(matched, cp)
	}

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeBookRepo) FindByID(_ context.Context, id string) (*models.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	cp.History = nil
	return &cp, nil
}

func (r *fakeBookRepo) Create(_ context.Context, book *models.Book) error {
	for _, b := range r.books {
		if b.ISBN == book.ISBN {
			return repository.ErrConflict
		}
	}
	if book.ID == "" {
		book.ID = fmt.Sprintf("book-%d", len(r.order)+1)
	}
	cp := *book
	r.order = append(r.order, cp.ID)
	r.books[cp.ID] = &cp
	return nil
}

func (r *fakeBookRepo) UpdateAtomic(_ context.Context, id string, fn func(book *models.Book) error) error {
	b, ok := r.books[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := fn(b); err != nil {
		return err
	}
	for otherID, other := range r.books {
		if otherID != id && other.ISBN == b.ISBN {
			return repository.ErrConflict
		}
	}
	return nil
}

func (r *fakeBookRepo) HistoryByBook(_ context.Context, bookID string) ([]models.BorrowRecord, error) {
	b, ok := r.books[bookID]
	if !ok {
		return nil, nil
	}
	return append([]models.BorrowRecord(nil), b.History...), nil
}

type fakeMemberRepo struct {
	order   []string
	members map[string]*models.Member
}

func newFakeMemberRepo(members ...*models.Member) *fakeMemberRepo {
	r := &fakeMemberRepo{members: make(map[string]*models.Member)}
	for i, m := range members {
		if m.ID == "" {
			m.ID = fmt.Sprintf("member-%d", i+1)
		}
		r.order = append(r.order, m.ID)
		r.members[m.ID] = m
	}
	return r
}

func (r *fakeMemberRepo) Find(_ context.Context, filter repository.MemberFilter) ([]models.Member, int64, error) {
	var matched []models.Member
	for _, id := range r.order {
		m := r.members[id]
		if m.IsDeleted && !filter.IncludeArchived {
			continue
		}
		if filter.Search != "" && !containsFold(m.Email, filter.Search) {
			continue
		}
		matched = append(matched, *m)
	}

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeMemberRepo) FindByID(_ context.Context, id string) (*models.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMemberRepo) FindByIDs(_ context.Context, ids []string) ([]models.Member, error) {
	var out []models.Member
	for _, id := range ids {
		if m, ok := r.members[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) Create(_ context.Context, member *models.Member) error {
	for _, m := range r.members {
		if m.Email == member.Email {
			return repository.ErrConflict
		}
	}
	if member.ID == "" {
		member.ID = fmt.Sprintf("member-%d", len(r.order)+1)
	}
	cp := *member
	r.order = append(r.order, cp.ID)
	r.members[cp.ID] = &cp
	return nil
}

func (r *fakeMemberRepo) UpdateAtomic(_ context.Context, id string, fn func(member *models.Member) error) error {
	m, ok := r.members[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := fn(m); err != nil {
		return err
	}
	for otherID, other := range r.members {
		if otherID != id && other.Email == m.Email {
			return repository.ErrConflict
		}
	}
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// fakeBookCache records cache traffic for the read-through tests.
type fakeBookCache struct {
	entries     map[string]*models.Book
	invalidated []string
}

func newFakeBookCache() *fakeBookCache {
	return &fakeBookCache{entries: make(map[string]*models.Book)}
}

func (c *fakeBookCache) Get(_ context.Context, bookID string) (*models.Book, bool) {
	b, ok := c.entries[bookID]
	return b, ok
}

func (c *fakeBookCache) Set(_ context.Context, book *models.Book) {
	c.entries[book.ID] = book
}

func (c *fakeBookCache) Invalidate(_ context.Context, bookID string) {
	delete(c.entries, bookID)
	c.invalidated = append(c.invalidated, bookID)
}
