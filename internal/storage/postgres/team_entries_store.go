package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hacknight/server/internal/domain/relation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ relation.Store = (*TeamEntryStore)(nil)

// TeamEntryStore backs the team-entries relationship: parents are teams,
// children are hacks, and the exclusivity scope is every team_entries row (a
// hack is entered by at most one team). Membership is evaluated against the
// parent team itself.
type TeamEntryStore struct {
	pool *pgxpool.Pool
}

func (s *TeamEntryStore) FindParent(ctx context.Context, slug string, actorUserID string) (*relation.Parent, error) {
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
		SELECT h.id, h.hack_id, h.name
		FROM team_entries te
		JOIN hacks h ON h.id = te.hack_id
		WHERE te.team_id = $1
		ORDER BY te.position
	`, parent.ID))
	if err != nil {
		return nil, fmt.Errorf("list entries of team %q: %w", slug, err)
	}
	return &parent, nil
}

func (s *TeamEntryStore) ResolveChildren(ctx context.Context, slugs []string) ([]relation.Ref, error) {
	refs, err := scanRefs(s.pool.Query(ctx, `
		SELECT id, hack_id, name
		FROM hacks
		WHERE hack_id = ANY($1)
	`, slugs))
	if err != nil {
		return nil, fmt.Errorf("resolve hacks: %w", err)
	}
	return orderBySlugs(refs, slugs), nil
}

func (s *TeamEntryStore) LinkedAnywhere(ctx context.Context, childIDs []string) ([]string, error) {
	linked, err := scanIDs(s.pool.Query(ctx, `
		SELECT DISTINCT hack_id
		FROM team_entries
		WHERE hack_id = ANY($1)
	`, childIDs))
	if err != nil {
		return nil, fmt.Errorf("scan entered hacks: %w", err)
	}
	return linked, nil
}

func (s *TeamEntryStore) AppendChildren(ctx context.Context, parentID string, childIDs []string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO team_entries (team_id, hack_id, position)
		SELECT $1, child, COALESCE((SELECT MAX(position) + 1 FROM team_entries WHERE team_id = $1), 0) + ord - 1
		FROM UNNEST($2::text[]) WITH ORDINALITY AS t(child, ord)
	`, parentID, childIDs)
	if err != nil {
		return fmt.Errorf("append entries: %w", err)
	}
	return nil
}

func (s *TeamEntryStore) RemoveChildren(ctx context.Context, parentID string, childIDs []string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM team_entries
		WHERE team_id = $1 AND hack_id = ANY($2)
	`, parentID, childIDs)
	if err != nil {
		return fmt.Errorf("remove entries: %w", err)
	}
	return nil
}
