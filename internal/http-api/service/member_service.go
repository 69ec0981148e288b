package service

import (
	"context"
	"errors"
	"time"

	"librarium/internal/http-api/models"
	"librarium/internal/http-api/repository"
)

type MemberService interface {
	GetAll(ctx context.Context, limit, offset int, search string) ([]models.Member, int64, error)
	GetByID(ctx context.Context, id string) (*models.Member, error)
	Register(ctx context.Context, m *models.Member) error
	Update(ctx context.Context, id string, apply func(*models.Member)) (*models.Member, error)
	Archive(ctx context.Context, id string) error
}

type memberService struct {
	repo repository.MemberRepository
	now  func() time.Time
}

func NewMemberService(r repository.MemberRepository) MemberService {
	return &memberService{repo: r, now: time.Now}
}

func (s *memberService) GetAll(ctx context.Context, limit, offset int, search string) ([]models.Member, int64, error) {
	return s.repo.Find(ctx, repository.MemberFilter{
		Limit:  limit,
		Offset: offset,
		Search: search,
	})
}

func (s *memberService) GetByID(ctx context.Context, id string) (*models.Member, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *memberService) Register(ctx context.Context, m *models.Member) error {
	if m.MemberSince.IsZero() {
		m.MemberSince = s.now()
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *memberService) Update(ctx context.Context, id string, apply func(*models.Member)) (*models.Member, error) {
	var updated *models.Member
	err := s.repo.UpdateAtomic(ctx, id, func(m *models.Member) error {
		apply(m)
		updated = m
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrMemberNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return updated, nil
}

// Archive soft-deletes the member. Books the member borrowed keep their
// non-owning reference; nothing cascades.
func (s *memberService) Archive(ctx context.Context, id string) error {
	err := s.repo.UpdateAtomic(ctx, id, func(m *models.Member) error {
		m.IsDeleted = true
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	return nil
}
