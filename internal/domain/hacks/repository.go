package hacks

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("hack not found")
	ErrConflict  = errors.New("hack already exists")
	ErrForbidden = errors.New("only team members may do this")

	// ErrTeamNotFound distinguishes "the named team does not exist" from a
	// missing hack; it maps to a bad request, not a 404.
	ErrTeamNotFound = errors.New("team does not exist")
)

type Hack struct {
	ID       string
	HackID   string
	Name     string
	TeamID   string // internal id of the owning team
	Modified time.Time
}

type TeamRef struct {
	ID            string
	TeamID        string
	Name          string
	Motto         string
	ActorIsMember bool
}

type ChallengeRef struct {
	ChallengeID string
	Name        string
}

type Detail struct {
	Hack
	Team       *TeamRef
	Challenges []ChallengeRef
}

type Repository interface {
	Create(ctx context.Context, hack Hack) error
	GetBySlug(ctx context.Context, slug string) (*Detail, error)
	List(ctx context.Context, nameFilter string) ([]Detail, error)
	Delete(ctx context.Context, id string) error
	// FindTeamBySlug loads a team together with whether the actor appears on
	// its member list. Returns nil when the team does not exist.
	FindTeamBySlug(ctx context.Context, slug string, actorUserID string) (*TeamRef, error)
	// ActorIsMember reports whether the user belongs to the team with the
	// given internal id.
	ActorIsMember(ctx context.Context, teamID string, actorUserID string) (bool, error)
}
