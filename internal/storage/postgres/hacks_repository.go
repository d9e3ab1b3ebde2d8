package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hacknight/server/internal/domain/hacks"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ hacks.Repository = (*HackRepository)(nil)

// HackRepository implements hacks.Repository using PostgreSQL.
type HackRepository struct {
	pool *pgxpool.Pool
}

func (r *HackRepository) Create(ctx context.Context, hack hacks.Hack) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hacks (id, hack_id, name, team_id, modified)
		VALUES ($1, $2, $3, $4, NOW())
	`, hack.ID, hack.HackID, hack.Name, hack.TeamID)
	if err != nil {
		if isUniqueViolation(err) {
			return hacks.ErrConflict
		}
		return fmt.Errorf("create hack %q: %w", hack.HackID, err)
	}
	return nil
}

func (r *HackRepository) GetBySlug(ctx context.Context, slug string) (*hacks.Detail, error) {
	var (
		detail hacks.Detail
		team   hacks.TeamRef
		motto  *string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT h.id, h.hack_id, h.name, h.team_id, h.modified,
		       t.id, t.team_id, t.name, t.motto
		FROM hacks h
		JOIN teams t ON t.id = h.team_id
		WHERE h.hack_id = $1
	`, slug).Scan(
		&detail.ID, &detail.HackID, &detail.Name, &detail.TeamID, &detail.Modified,
		&team.ID, &team.TeamID, &team.Name, &motto,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, hacks.ErrNotFound
		}
		return nil, fmt.Errorf("get hack %q: %w", slug, err)
	}
	team.Motto = derefString(motto)
	detail.Team = &team

	detail.Challenges, err = r.challengesOf(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *HackRepository) List(ctx context.Context, nameFilter string) ([]hacks.Detail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT h.id, h.hack_id, h.name, h.team_id, h.modified,
		       t.id, t.team_id, t.name, t.motto
		FROM hacks h
		JOIN teams t ON t.id = h.team_id
		WHERE $1 = '' OR h.name ILIKE '%' || $1 || '%'
		ORDER BY h.hack_id
	`, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("list hacks: %w", err)
	}
	defer rows.Close()

	list := make([]hacks.Detail, 0)
	for rows.Next() {
		var (
			detail hacks.Detail
			team   hacks.TeamRef
			motto  *string
		)
		err := rows.Scan(
			&detail.ID, &detail.HackID, &detail.Name, &detail.TeamID, &detail.Modified,
			&team.ID, &team.TeamID, &team.Name, &motto,
		)
		if err != nil {
			return nil, fmt.Errorf("scan hack: %w", err)
		}
		team.Motto = derefString(motto)
		detail.Team = &team
		list = append(list, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list hacks: %w", err)
	}

	for i := range list {
		list[i].Challenges, err = r.challengesOf(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *HackRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM hacks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete hack: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return hacks.ErrNotFound
	}
	return nil
}

func (r *HackRepository) FindTeamBySlug(ctx context.Context, slug string, actorUserID string) (*hacks.TeamRef, error) {
	var (
		team  hacks.TeamRef
		motto *string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT t.id, t.team_id, t.name, t.motto,
		       EXISTS (
		           SELECT 1 FROM team_members tm
		           WHERE tm.team_id = t.id AND tm.user_id = $2
		       )
		FROM teams t
		WHERE t.team_id = $1
	`, slug, actorUserID).Scan(&team.ID, &team.TeamID, &team.Name, &motto, &team.ActorIsMember)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find team %q: %w", slug, err)
	}
	team.Motto = derefString(motto)
	return &team, nil
}

func (r *HackRepository) ActorIsMember(ctx context.Context, teamID string, actorUserID string) (bool, error) {
	var isMember bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM team_members
			WHERE team_id = $1 AND user_id = $2
		)
	`, teamID, actorUserID).Scan(&isMember)
	if err != nil {
		return false, fmt.Errorf("check team membership: %w", err)
	}
	return isMember, nil
}

func (r *HackRepository) challengesOf(ctx context.Context, hackID string) ([]hacks.ChallengeRef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.challenge_id, c.name
		FROM hack_challenges hc
		JOIN challenges c ON c.id = hc.challenge_id
		WHERE hc.hack_id = $1
		ORDER BY hc.position
	`, hackID)
	if err != nil {
		return nil, fmt.Errorf("list hack challenges: %w", err)
	}
	defer rows.Close()

	refs := make([]hacks.ChallengeRef, 0)
	for rows.Next() {
		var ref hacks.ChallengeRef
		if err := rows.Scan(&ref.ChallengeID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
