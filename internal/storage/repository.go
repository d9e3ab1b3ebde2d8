// Package storage groups the persistence interfaces the server binds at
// startup. Each domain package declares its own Repository; this package only
// collects them behind one constructor surface so main wires a single value.
package storage

import (
	"github.com/hacknight/server/internal/domain/attendees"
	"github.com/hacknight/server/internal/domain/challenges"
	"github.com/hacknight/server/internal/domain/hacks"
	"github.com/hacknight/server/internal/domain/identity"
	"github.com/hacknight/server/internal/domain/relation"
	"github.com/hacknight/server/internal/domain/teams"
	"github.com/hacknight/server/internal/domain/users"
)

// Repository exposes every persistence surface the services need.
type Repository interface {
	Identity() identity.Repository
	Teams() teams.Repository
	Hacks() hacks.Repository
	Challenges() challenges.Repository
	Users() users.Repository
	Attendees() attendees.Repository

	// Relationship stores, one per guarded link table.
	HackChallenges() relation.Store
	TeamEntries() relation.Store
	TeamMembers() relation.Store
}
