package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"librarium/internal/http-api/models"
)

// MemberFilter narrows Find results. Search does a case-insensitive
// substring match on email.
type MemberFilter struct {
	Limit           int
	Offset          int
	Search          string
	IncludeArchived bool
}

// MemberRepository is the storage contract for member records.
type MemberRepository interface {
	Find(ctx context.Context, filter MemberFilter) ([]models.Member, int64, error)
	FindByID(ctx context.Context, id string) (*models.Member, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	UpdateAtomic(ctx context.Context, id string, fn func(member *models.Member) error) error
}

// memberRepository is the GORM implementation of MemberRepository.
type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Find(ctx context.Context, filter MemberFilter) ([]models.Member, int64, error) {
	var list []models.Member
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Member{})
	if !filter.IncludeArchived {
		q = q.Where("is_deleted = ?", false)
	}
	if filter.Search != "" {
		q = q.Where("email ILIKE ?", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Order("created_at, id").Offset(filter.Offset).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("find members: %w", err)
	}

	return list, total, nil
}

func (r *memberRepository) FindByID(ctx context.Context, id string) (*models.Member, error) {
	var m models.Member
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return &m, nil
}

// FindByIDs resolves a batch of member references. Missing ids are simply
// absent from the result; history rendering degrades per entry instead of
// failing wholesale.
func (r *memberRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.Member
	if err := r.db.WithContext(ctx).Find(&list, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("find members by ids: %w", err)
	}
	return list, nil
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (r *memberRepository) UpdateAtomic(ctx context.Context, id string, fn func(member *models.Member) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lock member: %w", err)
		}

		if err := fn(&m); err != nil {
			return err
		}

		if err := tx.Save(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return fmt.Errorf("save member: %w", err)
		}
		return nil
	})
}
