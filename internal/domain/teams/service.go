package teams

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
		logger:  logger.With().Str("component", "teams").Logger(),
	}
}

type CreateParams struct {
	Name          string
	Motto         string
	MemberUserIDs []string
}

// Create registers a team. The acting attendee always ends up on the member
// list, whether or not the request named them; unknown member ids are dropped.
func (s *Service) Create(ctx context.Context, params CreateParams, actor identity.Credentials) (*Detail, error) {
	memberUserIDs := params.MemberUserIDs
	found := false
	for _, userID := range memberUserIDs {
		if userID == actor.User.UserID {
			found = true
			break
		}
	}
	if !found {
		memberUserIDs = append(memberUserIDs, actor.User.UserID)
	}

	members, err := s.repo.ResolveUsers(ctx, memberUserIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve members: %w", err)
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("generate team id: %w", err)
	}

	team := Team{
		ID:     id,
		TeamID: ids.Slugify(params.Name),
		Name:   params.Name,
		Motto:  params.Motto,
	}

	memberIDs := make([]string, len(members))
	for i, member := range members {
		memberIDs[i] = member.ID
	}

	if err := s.repo.Create(ctx, team, memberIDs); err != nil {
		return nil, err
	}

	memberPayload := make([]map[string]any, len(members))
	for i, member := range members {
		memberPayload[i] = map[string]any{"userid": member.UserID, "name": member.Name}
	}
	s.emitter.Trigger(ctx, events.TeamsAdd, map[string]any{
		"teamid":  team.TeamID,
		"name":    team.Name,
		"motto":   team.Motto,
		"members": memberPayload,
	})

	return &Detail{Team: team, Members: members, Entries: []Entry{}}, nil
}

func (s *Service) Get(ctx context.Context, slug string) (*Detail, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) List(ctx context.Context, nameFilter string) ([]Detail, error) {
	return s.repo.List(ctx, nameFilter)
}

// Delete removes a team. Teams keep their history as long as anyone is on
// them; only an emptied team can be deleted.
func (s *Service) Delete(ctx context.Context, slug string) error {
	detail, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if len(detail.Members) > 0 {
		return ErrNotEmpty
	}
	return s.repo.Delete(ctx, detail.ID)
}

// EntriesRelation configures the relationship engine for a team's entry list.
// A hack may be entered by at most one team.
func EntriesRelation() relation.Config {
	return relation.Config{
		Name:        "team-entries",
		AddEvent:    events.TeamsUpdateEntriesAdd,
		RemoveEvent: events.TeamsUpdateEntriesDelete,
		ParentKey:   "teamid",
		ChildKey:    "hackid",
		Messages: relation.Messages{
			ParentNotFound:  "Team not found",
			Forbidden:       "Only team members can modify a team's entries",
			AlreadyLinked:   "One or more hacks are already entries of this team",
			UnknownChildren: "One or more of the specified hacks could not be found",
			LinkedElsewhere: "One or more of the specified hacks are already entered by a team",
			NotLinked:       "One or more of the specified hacks are not entries of this team",
		},
	}
}

// MembersRelation configures the relationship engine for a team's member
// list. A user may be on at most one team.
func MembersRelation() relation.Config {
	return relation.Config{
		Name:        "team-members",
		AddEvent:    events.TeamsUpdateMembersAdd,
		RemoveEvent: events.TeamsUpdateMembersDelete,
		ParentKey:   "teamid",
		ChildKey:    "userid",
		Messages: relation.Messages{
			ParentNotFound:  "Team not found",
			Forbidden:       "Only team members can modify a team's members",
			AlreadyLinked:   "One or more users are already members of this team",
			UnknownChildren: "One or more of the specified users could not be found",
			LinkedElsewhere: "One or more of the specified users are already in a team",
			NotLinked:       "One or more of the specified users are not members of this team",
		},
	}
}
