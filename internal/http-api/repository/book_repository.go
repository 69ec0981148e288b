package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"librarium/internal/http-api/models"
)

// BookFilter narrows Find results. Zero values mean "no constraint";
// archived books are excluded unless IncludeArchived is set.
type BookFilter struct {
	Limit           int
	Offset          int
	Genre           string
	DueBefore       *time.Time
	IncludeArchived bool
}

// BookRepository is the storage contract for the catalog. UpdateAtomic is
// the single mutation primitive for existing rows: every read-modify-write
// (borrow, return, patch, archive) goes through it so the lending fields and
// history are always written together under a per-row lock.
type BookRepository interface {
	Find(ctx context.Context, filter BookFilter) ([]models.Book, int64, error)
	FindByID(ctx context.Context, id string) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	UpdateAtomic(ctx context.Context, id string, fn func(book *models.Book) error) error
	HistoryByBook(ctx context.Context, bookID string) ([]models.BorrowRecord, error)
}

// bookRepository is the GORM implementation of BookRepository.
type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Find(ctx context.Context, filter BookFilter) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Book{})
	if !filter.IncludeArchived {
		q = q.Where("is_deleted = ?", false)
	}
	if filter.Genre != "" {
		q = q.Where("genre = ?", filter.Genre)
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date < ?", *filter.DueBefore)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Order("created_at, id").Offset(filter.Offset).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("find books: %w", err)
	}

	return list, total, nil
}

func (r *bookRepository) FindByID(ctx context.Context, id string) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return &b, nil
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// UpdateAtomic locks the book row, loads it together with its ordered
// history, applies fn, and persists the result in the same transaction.
// Concurrent writers on the same book serialize on the row lock, so two
// borrows can never both observe an available book.
func (r *bookRepository) UpdateAtomic(ctx context.Context, id string, fn func(book *models.Book) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lock book: %w", err)
		}

		if err := tx.Order("borrowed_date, id").
			Find(&b.History, "book_id = ?", id).Error; err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		if err := fn(&b); err != nil {
			return err
		}

		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).
			Save(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return fmt.Errorf("save book: %w", err)
		}
		return nil
	})
}

func (r *bookRepository) HistoryByBook(ctx context.Context, bookID string) ([]models.BorrowRecord, error) {
	var records []models.BorrowRecord
	if err := r.db.WithContext(ctx).
		Order("borrowed_date, id").
		Find(&records, "book_id = ?", bookID).Error; err != nil {
		return nil, fmt.Errorf("book history: %w", err)
	}
	return records, nil
}
