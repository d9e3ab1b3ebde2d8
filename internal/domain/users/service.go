package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID     string
	UserID string
	Name   string
}

// TeamSummary is the team a user belongs to, if any, with its full member
// list for response shaping.
type TeamSummary struct {
	TeamID  string
	Name    string
	Motto   string
	Members []User
}

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// TeamForUser returns the team whose member list contains the user, or
	// nil when the user is teamless.
	TeamForUser(ctx context.Context, id string) (*TeamSummary, error)
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

// Get returns the user and, when they belong to one, their team.
func (s *Service) Get(ctx context.Context, userID string) (*User, *TeamSummary, error) {
	user, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	team, err := s.repo.TeamForUser(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("find team for user: %w", err)
	}
	return user, team, nil
}
