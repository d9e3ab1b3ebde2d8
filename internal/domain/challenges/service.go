package challenges

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hacknight/server/internal/domain/ids"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound = errors.New("challenge not found")
	ErrConflict = errors.New("challenge already exists")
)

type Challenge struct {
	ID          string
	ChallengeID string
	Name        string
	Modified    time.Time
}

type Repository interface {
	Create(ctx context.Context, challenge Challenge) error
	GetBySlug(ctx context.Context, slug string) (*Challenge, error)
	List(ctx context.Context, nameFilter string) ([]Challenge, error)
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "challenges").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, name string) (*Challenge, error) {
	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("generate challenge id: %w", err)
	}

	challenge := Challenge{
		ID:          id,
		ChallengeID: ids.Slugify(name),
		Name:        name,
	}
	if err := s.repo.Create(ctx, challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (s *Service) Get(ctx context.Context, slug string) (*Challenge, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) List(ctx context.Context, nameFilter string) ([]Challenge, error) {
	return s.repo.List(ctx, nameFilter)
}
