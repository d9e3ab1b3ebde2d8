package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hacknight/server/internal/domain/challenges"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ challenges.Repository = (*ChallengeRepository)(nil)

// ChallengeRepository implements challenges.Repository using PostgreSQL.
type ChallengeRepository struct {
	pool *pgxpool.Pool
}

func (r *ChallengeRepository) Create(ctx context.Context, challenge challenges.Challenge) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO challenges (id, challenge_id, name, modified)
		VALUES ($1, $2, $3, NOW())
	`, challenge.ID, challenge.ChallengeID, challenge.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return challenges.ErrConflict
		}
		return fmt.Errorf("create challenge %q: %w", challenge.ChallengeID, err)
	}
	return nil
}

func (r *ChallengeRepository) GetBySlug(ctx context.Context, slug string) (*challenges.Challenge, error) {
	var challenge challenges.Challenge
	err := r.pool.QueryRow(ctx, `
		SELECT id, challenge_id, name, modified
		FROM challenges
		WHERE challenge_id = $1
	`, slug).Scan(&challenge.ID, &challenge.ChallengeID, &challenge.Name, &challenge.Modified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, challenges.ErrNotFound
		}
		return nil, fmt.Errorf("get challenge %q: %w", slug, err)
	}
	return &challenge, nil
}

func (r *ChallengeRepository) List(ctx context.Context, nameFilter string) ([]challenges.Challenge, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, challenge_id, name, modified
		FROM challenges
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY challenge_id
	`, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	list := make([]challenges.Challenge, 0)
	for rows.Next() {
		var challenge challenges.Challenge
		if err := rows.Scan(&challenge.ID, &challenge.ChallengeID, &challenge.Name, &challenge.Modified); err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		list = append(list, challenge)
	}
	return list, rows.Err()
}
