package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hacknight/server/internal/domain/relation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ relation.Store = (*HackChallengeStore)(nil)

// HackChallengeStore backs the hack-challenges relationship: parents are
// hacks, children are challenges, and the exclusivity scope is every
// hack_challenges row. Membership is evaluated against the hack's owning
// team.
type HackChallengeStore struct {
	pool *pgxpool.Pool
}

func (s *HackChallengeStore) FindParent(ctx context.Context, slug string, actorUserID string) (*relation.Parent, error) {
	var (
		parent relation.Parent
		teamID string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT h.id, h.hack_id, h.name, h.team_id,
		       EXISTS (
		           SELECT 1 FROM team_members tm
		           WHERE tm.team_id = h.team_id AND tm.user_id = $2
		       )
		FROM hacks h
		WHERE h.hack_id = $1
	`, slug, actorUserID).Scan(&parent.ID, &parent.Slug, &parent.Name, &teamID, &parent.ActorIsMember)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find hack %q: %w", slug, err)
	}

	parent.Children, err = scanRefs(s.pool.Query(ctx, `
		SELECT c.id, c.challenge_id, c.name
		FROM hack_challenges hc
		JOIN challenges c ON c.id = hc.challenge_id
		WHERE hc.hack_id = $1
		ORDER BY hc.position
	`, parent.ID))
	if err != nil {
		return nil, fmt.Errorf("list challenges of hack %q: %w", slug, err)
	}
	return &parent, nil
}

func (s *HackChallengeStore) ResolveChildren(ctx context.Context, slugs []string) ([]relation.Ref, error) {
	refs, err := scanRefs(s.pool.Query(ctx, `
		SELECT id, challenge_id, name
		FROM challenges
		WHERE challenge_id = ANY($1)
	`, slugs))
	if err != nil {
		return nil, fmt.Errorf("resolve challenges: %w", err)
	}
	return orderBySlugs(refs, slugs), nil
}

func (s *HackChallengeStore) LinkedAnywhere(ctx context.Context, childIDs []string) ([]string, error) {
	linked, err := scanIDs(s.pool.Query(ctx, `
		SELECT DISTINCT challenge_id
		FROM hack_challenges
		WHERE challenge_id = ANY($1)
	`, childIDs))
	if err != nil {
		return nil, fmt.Errorf("scan linked challenges: %w", err)
	}
	return linked, nil
}

func (s *HackChallengeStore) AppendChildren(ctx context.Context, parentID string, childIDs []string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hack_challenges (hack_id, challenge_id, position)
		SELECT $1, child, COALESCE((SELECT MAX(position) + 1 FROM hack_challenges WHERE hack_id = $1), 0) + ord - 1
		FROM UNNEST($2::text[]) WITH ORDINALITY AS t(child, ord)
	`, parentID, childIDs)
	if err != nil {
		return fmt.Errorf("append challenges: %w", err)
	}
	return nil
}

func (s *HackChallengeStore) RemoveChildren(ctx context.Context, parentID string, childIDs []string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM hack_challenges
		WHERE hack_id = $1 AND challenge_id = ANY($2)
	`, parentID, childIDs)
	if err != nil {
		return fmt.Errorf("remove challenges: %w", err)
	}
	return nil
}
