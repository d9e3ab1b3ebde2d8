package teams

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("team not found")
	ErrConflict = errors.New("team already exists")

	// ErrNotEmpty guards deletion: a team with members cannot be removed.
	ErrNotEmpty = errors.New("team still has members")
)

type Team struct {
	ID       string
	TeamID   string
	Name     string
	Motto    string
	Modified time.Time
}

type Member struct {
	ID     string
	UserID string
	Name   string
}

type Entry struct {
	ID     string
	HackID string
	Name   string
}

// Detail is a team with its ordered members and entries.
type Detail struct {
	Team
	Members []Member
	Entries []Entry
}

type Repository interface {
	// Create inserts the team and its initial member rows in order.
	Create(ctx context.Context, team Team, memberIDs []string) error
	GetBySlug(ctx context.Context, slug string) (*Detail, error)
	// List returns teams ordered by slug, optionally filtered by a name
	// substring match.
	List(ctx context.Context, nameFilter string) ([]Detail, error)
	Delete(ctx context.Context, id string) error
	// ResolveUsers maps Slack user ids to member records, preserving the
	// requested order and silently dropping unknown ids.
	ResolveUsers(ctx context.Context, userIDs []string) ([]Member, error)
}
