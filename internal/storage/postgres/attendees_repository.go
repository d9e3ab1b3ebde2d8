package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hacknight/server/internal/domain/attendees"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ attendees.Repository = (*AttendeeRepository)(nil)

// AttendeeRepository implements attendees.Repository using PostgreSQL.
type AttendeeRepository struct {
	pool *pgxpool.Pool
}

func (r *AttendeeRepository) Create(ctx context.Context, attendee attendees.Attendee) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO attendees (id, attendee_id, slack_id)
		VALUES ($1, $2, $3)
	`, attendee.ID, attendee.AttendeeID, nullableString(attendee.SlackID))
	if err != nil {
		if isUniqueViolation(err) {
			return attendees.ErrConflict
		}
		return fmt.Errorf("create attendee %q: %w", attendee.AttendeeID, err)
	}
	return nil
}

func (r *AttendeeRepository) GetByAttendeeID(ctx context.Context, attendeeID string) (*attendees.Attendee, error) {
	var (
		attendee attendees.Attendee
		slackID  *string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, attendee_id, slack_id
		FROM attendees
		WHERE attendee_id = $1
	`, attendeeID).Scan(&attendee.ID, &attendee.AttendeeID, &slackID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendees.ErrNotFound
		}
		return nil, fmt.Errorf("get attendee %q: %w", attendeeID, err)
	}
	attendee.SlackID = derefString(slackID)
	return &attendee, nil
}

func (r *AttendeeRepository) List(ctx context.Context) ([]attendees.Attendee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, attendee_id, slack_id
		FROM attendees
		ORDER BY attendee_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	list := make([]attendees.Attendee, 0)
	for rows.Next() {
		var (
			attendee attendees.Attendee
			slackID  *string
		)
		if err := rows.Scan(&attendee.ID, &attendee.AttendeeID, &slackID); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendee.SlackID = derefString(slackID)
		list = append(list, attendee)
	}
	return list, rows.Err()
}

func (r *AttendeeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attendees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendees.ErrNotFound
	}
	return nil
}
