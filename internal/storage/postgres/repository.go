package postgres

import (
	"fmt"

	"github.com/hacknight/server/internal/domain/attendees"
	"github.com/hacknight/server/internal/domain/challenges"
	"github.com/hacknight/server/internal/domain/hacks"
	"github.com/hacknight/server/internal/domain/identity"
	"github.com/hacknight/server/internal/domain/relation"
	"github.com/hacknight/server/internal/domain/teams"
	"github.com/hacknight/server/internal/domain/users"
	"github.com/hacknight/server/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements storage.Repository with PostgreSQL backend.
type Repository struct {
	pool *pgxpool.Pool

	identity       *IdentityRepository
	teams          *TeamRepository
	hacks          *HackRepository
	challenges     *ChallengeRepository
	users          *UserRepository
	attendees      *AttendeeRepository
	hackChallenges *HackChallengeStore
	teamEntries    *TeamEntryStore
	teamMembers    *TeamMemberStore
}

var _ storage.Repository = (*Repository)(nil)

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool cannot be nil")
	}

	return &Repository{
		pool:           pool,
		identity:       &IdentityRepository{pool: pool},
		teams:          &TeamRepository{pool: pool},
		hacks:          &HackRepository{pool: pool},
		challenges:     &ChallengeRepository{pool: pool},
		users:          &UserRepository{pool: pool},
		attendees:      &AttendeeRepository{pool: pool},
		hackChallenges: &HackChallengeStore{pool: pool},
		teamEntries:    &TeamEntryStore{pool: pool},
		teamMembers:    &TeamMemberStore{pool: pool},
	}, nil
}

func (r *Repository) Identity() identity.Repository { return r.identity }

func (r *Repository) Teams() teams.Repository { return r.teams }

func (r *Repository) Hacks() hacks.Repository { return r.hacks }

func (r *Repository) Challenges() challenges.Repository { return r.challenges }

func (r *Repository) Users() users.Repository { return r.users }

func (r *Repository) Attendees() attendees.Repository { return r.attendees }

func (r *Repository) HackChallenges() relation.Store { return r.hackChallenges }

func (r *Repository) TeamEntries() relation.Store { return r.teamEntries }

func (r *Repository) TeamMembers() relation.Store { return r.teamMembers }
