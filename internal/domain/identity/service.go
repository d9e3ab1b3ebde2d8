package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hacknight/server/internal/domain/ids"
	"github.com/rs/zerolog"
)

var slackIDPattern = regexp.MustCompile(`^U[A-Z0-9]{8}$`)

// Credentials identify an authenticated attendee and the user row acting on
// their behalf. They are attached to requests as the authorization actor.
type Credentials struct {
	Attendee AttendeeIdentity
	User     UserIdentity
}

type AttendeeIdentity struct {
	ID         string
	AttendeeID string
}

type UserIdentity struct {
	ID     string
	UserID string
	Name   string
}

// Service authenticates basic-credential pairs against the shared attendee
// secret and resolves the caller to an internal user, creating the user row
// lazily on first sight.
type Service struct {
	repo      Repository
	directory Directory
	secret    []byte
	logger    zerolog.Logger
}

func NewService(repo Repository, directory Directory, secret string, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		secret:    []byte(secret),
		logger:    logger.With().Str("component", "identity").Logger(),
	}
}

// Authenticate returns nil Credentials (and nil error) for every resolvable
// "who is this" failure: wrong password, malformed username, unknown attendee,
// unusable Slack profile. Only unexpected store errors are returned.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Credentials, error) {
	if subtle.ConstantTimeCompare([]byte(password), s.secret) != 1 {
		return nil, nil
	}

	if strings.Index(username, "@") > 0 {
		return s.authenticateByEmail(ctx, username)
	}
	return s.authenticateBySlackID(ctx, username)
}

func (s *Service) authenticateByEmail(ctx context.Context, email string) (*Credentials, error) {
	s.logger.Info().Str("email", email).Msg("finding attendee by email")

	attendee, err := s.repo.FindAttendeeByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attendee by email: %w", err)
	}

	if attendee.SlackID == "" {
		s.logger.Warn().Str("email", email).Msg("attendee has no slack id")
		return nil, nil
	}

	user, err := s.findOrCreateUser(ctx, attendee.SlackID, nil)
	if err != nil || user == nil {
		return nil, err
	}

	return credentials(attendee, user), nil
}

func (s *Service) authenticateBySlackID(ctx context.Context, slackID string) (*Credentials, error) {
	if !slackIDPattern.MatchString(slackID) {
		s.logger.Info().Str("username", slackID).Msg("invalid slack id")
		return nil, nil
	}

	s.logger.Info().Str("slack_id", slackID).Msg("finding attendee by slack id")

	attendee, err := s.repo.FindAttendeeBySlackID(ctx, slackID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find attendee by slack id: %w", err)
	}

	var profile *Profile
	if attendee == nil {
		looked, err := s.directory.Lookup(ctx, slackID)
		if err != nil {
			s.logger.Warn().Err(err).Str("slack_id", slackID).Msg("slack lookup failed")
			return nil, nil
		}
		profile = &looked

		attendee, err = s.repo.FindAttendeeByEmail(ctx, looked.Email)
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn().Str("email", looked.Email).Msg("no attendee for slack profile email")
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find attendee by profile email: %w", err)
		}
	}

	user, err := s.findOrCreateUser(ctx, slackID, profile)
	if err != nil || user == nil {
		return nil, err
	}

	return credentials(attendee, user), nil
}

// findOrCreateUser resolves the user row for a Slack ID, inserting one when
// absent. A unique-constraint rejection means a concurrent request created the
// row first; the now-existing record is fetched and used instead.
func (s *Service) findOrCreateUser(ctx context.Context, slackID string, profile *Profile) (*User, error) {
	user, err := s.repo.FindUserBySlackID(ctx, slackID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if profile == nil {
		looked, err := s.directory.Lookup(ctx, slackID)
		if err != nil {
			s.logger.Warn().Err(err).Str("slack_id", slackID).Msg("slack lookup failed")
			return nil, nil
		}
		profile = &looked
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("generate user id: %w", err)
	}

	created := User{ID: id, SlackID: profile.ID, Name: profile.Name}
	if err := s.repo.CreateUser(ctx, created); err != nil {
		if !errors.Is(err, ErrDuplicateUser) {
			return nil, fmt.Errorf("create user %q: %w", profile.ID, err)
		}
		existing, err := s.repo.FindUserBySlackID(ctx, slackID)
		if err != nil {
			return nil, fmt.Errorf("refetch user %q: %w", slackID, err)
		}
		return existing, nil
	}

	return &created, nil
}

func credentials(attendee *Attendee, user *User) *Credentials {
	return &Credentials{
		Attendee: AttendeeIdentity{ID: attendee.ID, AttendeeID: attendee.AttendeeID},
		User:     UserIdentity{ID: user.ID, UserID: user.SlackID, Name: user.Name},
	}
}
