package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hacknight/server/internal/domain/users"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ users.Repository = (*UserRepository)(nil)

// UserRepository implements users.Repository using PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*users.User, error) {
	var user users.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name
		FROM users
		WHERE user_id = $1
	`, userID).Scan(&user.ID, &user.UserID, &user.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("get user %q: %w", userID, err)
	}
	return &user, nil
}

func (r *UserRepository) TeamForUser(ctx context.Context, id string) (*users.TeamSummary, error) {
	var (
		summary users.TeamSummary
		teamID  string
		motto   *string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT t.id, t.team_id, t.name, t.motto
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
		LIMIT 1
	`, id).Scan(&teamID, &summary.TeamID, &summary.Name, &motto)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find team for user: %w", err)
	}
	summary.Motto = derefString(motto)

	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.user_id, u.name
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.position
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var member users.User
		if err := rows.Scan(&member.ID, &member.UserID, &member.Name); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		summary.Members = append(summary.Members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return &summary, nil
}
