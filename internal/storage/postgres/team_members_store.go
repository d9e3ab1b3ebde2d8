package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hacknight/server/internal/domain/relation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ relation.Store = (*TeamMemberStore)(nil)

// TeamMemberStore backs the team-members relationship: parents are teams,
// children are users, and the exclusivity scope is every team_members row (a
// user belongs to at most one team). Child refs carry the user name as the
// display name; users have no separate slug, so the Slack user id serves as
// both.
type TeamMemberStore struct {
	pool *pgxpool.Pool
}

func (s *TeamMemberStore) FindParent(ctx context.Context, slug string, actorUserID string) (*relation.Parent, error) {
	var parent relation.Parent
	err := s.pool.QueryRow(ctx, `
		SELECT t.id, t.team_id, t.name,
		       EXISTS (
		           SELECT 1 FROM team_members tm
		           WHERE tm.team_id = t.id AND tm.user_id = $2
		       )
		FROM teams t
		WHERE t.team_id = $1
	`, slug, actorUserID).Scan(&parent.ID, &parent.Slug, &parent.Name, &parent.ActorIsMember)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find team %q: %w", slug, err)
	}

	parent.Children, err = scanRefs(s.pool.Query(ctx, `
		SELECT u.id, u.user_id, u.name
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.position
	`, parent.ID))
	if err != nil {
		return nil, fmt.Errorf("list members of team %q: %w", slug, err)
	}
	return &parent, nil
}

func (s *TeamMemberStore) ResolveChildren(ctx context.Context, slugs []string) ([]relation.Ref, error) {
	refs, err := scanRefs(s.pool.Query(ctx, `
		SELECT id, user_id, name
		FROM users
		WHERE user_id = ANY($1)
	`, slugs))
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	return orderBySlugs(refs, slugs), nil
}

func (s *TeamMemberStore) LinkedAnywhere(ctx context.Context, childIDs []string) ([]string, error) {
	linked, err := scanIDs(s.pool.Query(ctx, `
		SELECT DISTINCT user_id
		FROM team_members
		WHERE user_id = ANY($1)
	`, childIDs))
	if err != nil {
		return nil, fmt.Errorf("scan teamed users: %w", err)
	}
	return linked, nil
}

func (s *TeamMemberStore) AppendChildren(ctx context.Context, parentID string, childIDs []string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, position)
		SELECT $1, child, COALESCE((SELECT MAX(position) + 1 FROM team_members WHERE team_id = $1), 0) + ord - 1
		FROM UNNEST($2::text[]) WITH ORDINALITY AS t(child, ord)
	`, parentID, childIDs)
	if err != nil {
		return fmt.Errorf("append members: %w", err)
	}
	return nil
}

func (s *TeamMemberStore) RemoveChildren(ctx context.Context, parentID string, childIDs []string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM team_members
		WHERE team_id = $1 AND user_id = ANY($2)
	`, parentID, childIDs)
	if err != nil {
		return fmt.Errorf("remove members: %w", err)
	}
	return nil
}
