package service

import (
	"context"
	"errors"

	"librarium/internal/http-api/models"
	"librarium/internal/http-api/repository"
)

// BookCache is the read-through cache contract for book detail lookups.
// A nil cache is a no-op.
type BookCache interface {
	BookCacheInvalidator
	Get(ctx context.Context, bookID string) (*models.Book, bool)
	Set(ctx context.Context, book *models.Book)
}

type BookService interface {
	GetAll(ctx context.Context, limit, offset int, genre string) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, id string, apply func(*models.Book)) (*models.Book, error)
	Archive(ctx context.Context, id string) error
}

type bookService struct {
	repo  repository.BookRepository
	cache BookCache
}

func NewBookService(r repository.BookRepository, cache BookCache) BookService {
	return &bookService{repo: r, cache: cache}
}

func (s *bookService) GetAll(ctx context.Context, limit, offset int, genre string) ([]models.Book, int64, error) {
	return s.repo.Find(ctx, repository.BookFilter{
		Limit:  limit,
		Offset: offset,
		Genre:  genre,
	})
}

// GetByID resolves archived books too, so history stays reachable after
// archival. Listings are where archived records disappear.
func (s *bookService) GetByID(ctx context.Context, id string) (*models.Book, error) {
	if s.cache != nil {
		if b, ok := s.cache.Get(ctx, id); ok {
			return b, nil
		}
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, b)
	}
	return b, nil
}

func (s *bookService) Create(ctx context.Context, b *models.Book) error {
	if b.Rating == 0 {
		b.Rating = models.RatingMin
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrDuplicateISBN
		}
		return err
	}
	return nil
}

// Update applies a partial update under the per-record lock. apply sees the
// current row and overwrites exactly the fields present in the patch.
func (s *bookService) Update(ctx context.Context, id string, apply func(*models.Book)) (*models.Book, error) {
	var updated *models.Book
	err := s.repo.UpdateAtomic(ctx, id, func(b *models.Book) error {
		apply(b)
		updated = b
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrBookNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrDuplicateISBN
		}
		return nil, err
	}

	s.invalidate(ctx, id)
	return updated, nil
}

// Archive soft-deletes: the record drops out of listings but keeps its
// borrow history and identity.
func (s *bookService) Archive(ctx context.Context, id string) error {
	err := s.repo.UpdateAtomic(ctx, id, func(b *models.Book) error {
		b.IsDeleted = true
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *bookService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
}
