package attendees

import (
	"context"
	"errors"
	"fmt"

	"github.com/hacknight/server/internal/domain/ids"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound = errors.New("attendee not found")
	ErrConflict = errors.New("attendee already exists")
)

// Attendee is a registration row imported ahead of the event. The identity
// resolver only ever reads these; this service is the admin import surface.
type Attendee struct {
	ID         string
	AttendeeID string
	SlackID    string
}

type Repository interface {
	Create(ctx context.Context, attendee Attendee) error
	GetByAttendeeID(ctx context.Context, attendeeID string) (*Attendee, error)
	List(ctx context.Context) ([]Attendee, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "attendees").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, attendeeID, slackID string) (*Attendee, error) {
	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("generate attendee id: %w", err)
	}

	attendee := Attendee{ID: id, AttendeeID: attendeeID, SlackID: slackID}
	if err := s.repo.Create(ctx, attendee); err != nil {
		return nil, err
	}
	return &attendee, nil
}

func (s *Service) Get(ctx context.Context, attendeeID string) (*Attendee, error) {
	return s.repo.GetByAttendeeID(ctx, attendeeID)
}

func (s *Service) List(ctx context.Context) ([]Attendee, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, attendeeID string) error {
	attendee, err := s.repo.GetByAttendeeID(ctx, attendeeID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, attendee.ID)
}
