package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hacknight/server/internal/domain/identity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time interface assertion.
var _ identity.Repository = (*IdentityRepository)(nil)

// IdentityRepository implements identity.Repository using PostgreSQL.
type IdentityRepository struct {
	pool *pgxpool.Pool
}

func (r *IdentityRepository) FindUserBySlackID(ctx context.Context, slackID string) (*identity.User, error) {
	var user identity.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, modified
		FROM users
		WHERE user_id = $1
	`, slackID).Scan(&user.ID, &user.SlackID, &user.Name, &user.Modified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", slackID, err)
	}
	return &user, nil
}

// CreateUser inserts a user row. The unique index on user_id turns a lost
// creation race into identity.ErrDuplicateUser, which the resolver recovers
// from by re-reading.
func (r *IdentityRepository) CreateUser(ctx context.Context, user identity.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, user_id, name, modified)
		VALUES ($1, $2, $3, NOW())
	`, user.ID, user.SlackID, user.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.ErrDuplicateUser
		}
		return fmt.Errorf("create user %q: %w", user.SlackID, err)
	}
	return nil
}

func (r *IdentityRepository) FindAttendeeByEmail(ctx context.Context, email string) (*identity.Attendee, error) {
	return r.findAttendee(ctx, `attendee_id = $1`, email)
}

func (r *IdentityRepository) FindAttendeeBySlackID(ctx context.Context, slackID string) (*identity.Attendee, error) {
	return r.findAttendee(ctx, `slack_id = $1`, slackID)
}

func (r *IdentityRepository) findAttendee(ctx context.Context, where string, arg string) (*identity.Attendee, error) {
	var (
		attendee identity.Attendee
		slackID  *string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, attendee_id, slack_id
		FROM attendees
		WHERE `+where, arg).Scan(&attendee.ID, &attendee.AttendeeID, &slackID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrNotFound
		}
		return nil, fmt.Errorf("find attendee %q: %w", arg, err)
	}
	attendee.SlackID = derefString(slackID)
	return &attendee, nil
}
