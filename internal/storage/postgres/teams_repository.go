package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hacknight/server/internal/domain/teams"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ teams.Repository = (*TeamRepository)(nil)

// TeamRepository implements teams.Repository using PostgreSQL.
type TeamRepository struct {
	pool *pgxpool.Pool
}

// Create inserts the team and its initial member rows. The team and its
// member list commit together; everything after creation mutates the member
// list through the relationship store instead.
func (r *TeamRepository) Create(ctx context.Context, team teams.Team, memberIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO teams (id, team_id, name, motto, modified)
		VALUES ($1, $2, $3, $4, NOW())
	`, team.ID, team.TeamID, team.Name, nullableString(team.Motto))
	if err != nil {
		if isUniqueViolation(err) {
			return teams.ErrConflict
		}
		return fmt.Errorf("create team %q: %w", team.TeamID, err)
	}

	for i, memberID := range memberIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO team_members (team_id, user_id, position)
			VALUES ($1, $2, $3)
		`, team.ID, memberID, i)
		if err != nil {
			return fmt.Errorf("add member to team %q: %w", team.TeamID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (*teams.Detail, error) {
	var (
		detail teams.Detail
		motto  *string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, team_id, name, motto, modified
		FROM teams
		WHERE team_id = $1
	`, slug).Scan(&detail.ID, &detail.TeamID, &detail.Name, &motto, &detail.Modified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, teams.ErrNotFound
		}
		return nil, fmt.Errorf("get team %q: %w", slug, err)
	}
	detail.Motto = derefString(motto)

	detail.Members, err = r.membersOf(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	detail.Entries, err = r.entriesOf(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *TeamRepository) List(ctx context.Context, nameFilter string) ([]teams.Detail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, team_id, name, motto, modified
		FROM teams
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY team_id
	`, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	list := make([]teams.Detail, 0)
	for rows.Next() {
		var (
			detail teams.Detail
			motto  *string
		)
		if err := rows.Scan(&detail.ID, &detail.TeamID, &detail.Name, &motto, &detail.Modified); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		detail.Motto = derefString(motto)
		list = append(list, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	for i := range list {
		list[i].Members, err = r.membersOf(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Entries, err = r.entriesOf(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Delete removes the team row. Remaining entry links go with it via cascade;
// the service guarantees the member list is empty before calling.
func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return teams.ErrNotFound
	}
	return nil
}

// ResolveUsers maps Slack user ids to member records in the requested order.
// Unknown ids simply produce no row.
func (r *TeamRepository) ResolveUsers(ctx context.Context, userIDs []string) ([]teams.Member, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name
		FROM users
		WHERE user_id = ANY($1)
	`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	defer rows.Close()

	found := make(map[string]teams.Member, len(userIDs))
	for rows.Next() {
		var member teams.Member
		if err := rows.Scan(&member.ID, &member.UserID, &member.Name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		found[member.UserID] = member
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}

	resolved := make([]teams.Member, 0, len(found))
	for _, userID := range userIDs {
		if member, ok := found[userID]; ok {
			resolved = append(resolved, member)
		}
	}
	return resolved, nil
}

func (r *TeamRepository) membersOf(ctx context.Context, teamID string) ([]teams.Member, error) {
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

	members := make([]teams.Member, 0)
	for rows.Next() {
		var member teams.Member
		if err := rows.Scan(&member.ID, &member.UserID, &member.Name); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *TeamRepository) entriesOf(ctx context.Context, teamID string) ([]teams.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT h.id, h.hack_id, h.name
		FROM team_entries te
		JOIN hacks h ON h.id = te.hack_id
		WHERE te.team_id = $1
		ORDER BY te.position
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team entries: %w", err)
	}
	defer rows.Close()

	entries := make([]teams.Entry, 0)
	for rows.Next() {
		var entry teams.Entry
		if err := rows.Scan(&entry.ID, &entry.HackID, &entry.Name); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
