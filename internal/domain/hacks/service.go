package hacks

import (
	"context"
	"fmt"

	"github.com/hacknight/server/internal/domain/identity"
	"github.com/hacknight/server/internal/domain/ids"
	"github.com/hacknight/server/internal/domain/relation"
	"github.com/hacknight/server/internal/events"
	"github.com/rs/zerolog"
)

type Service struct {
	repo    Repository
	emitter events.Emitter
	logger  zerolog.Logger
}

func NewService(repo Repository, emitter events.Emitter, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		emitter: emitter,
		logger:  logger.With().Str("component", "hacks").Logger(),
	}
}

// Create registers a hack for a team. Only members of that team may do it.
func (s *Service) Create(ctx context.Context, name string, teamSlug string, actor identity.Credentials) (*Detail, error) {
	team, err := s.repo.FindTeamBySlug(ctx, teamSlug, actor.User.ID)
	if err != nil {
		return nil, fmt.Errorf("find team %q: %w", teamSlug, err)
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}
	if !team.ActorIsMember {
		return nil, ErrForbidden
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("generate hack id: %w", err)
	}

	hack := Hack{
		ID:     id,
		HackID: ids.Slugify(name),
		Name:   name,
		TeamID: team.ID,
	}

	if err := s.repo.Create(ctx, hack); err != nil {
		return nil, err
	}

	s.emitter.Trigger(ctx, events.HacksAdd, map[string]any{
		"hackid": hack.HackID,
		"name":   hack.Name,
		"team": map[string]any{
			"teamid": team.TeamID,
			"name":   team.Name,
			"motto":  team.Motto,
		},
	})

	return &Detail{Hack: hack, Team: team, Challenges: []ChallengeRef{}}, nil
}

func (s *Service) Get(ctx context.Context, slug string) (*Detail, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) List(ctx context.Context, nameFilter string) ([]Detail, error) {
	return s.repo.List(ctx, nameFilter)
}

// Delete removes a hack; only members of its owning team may do it.
func (s *Service) Delete(ctx context.Context, slug string, actor identity.Credentials) error {
	detail, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	member, err := s.repo.ActorIsMember(ctx, detail.TeamID, actor.User.ID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, detail.ID)
}

// ChallengesRelation configures the relationship engine for a hack's
// challenge list. A challenge may be taken on by at most one hack, and only
// members of the hack's owning team may change the list.
func ChallengesRelation() relation.Config {
	return relation.Config{
		Name:        "hack-challenges",
		AddEvent:    events.HacksUpdateChallengesAdd,
		RemoveEvent: events.HacksUpdateChallengesDelete,
		ParentKey:   "hackid",
		ChildKey:    "challengeid",
		Messages: relation.Messages{
			ParentNotFound:  "Hack not found",
			Forbidden:       "Only team members can add a challenge to a hack",
			AlreadyLinked:   "One or more challenges are already challenges of this hack",
			UnknownChildren: "One or more of the specified challenges could not be found",
			LinkedElsewhere: "One or more of the specified challenges are already in a hack",
			NotLinked:       "One or more of the specified challenges are not challenges of this hack",
		},
	}
}
