package teams

import (
	"context"
	"testing"

	"github.com/hacknight/server/internal/domain/identity"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	teams   map[string]*Detail // by slug
	users   map[string]Member  // by slack user id
	deleted []string
	created []Team
	members [][]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		teams: make(map[string]*Detail),
		users: make(map[string]Member),
	}
}

func (r *fakeRepo) Create(_ context.Context, team Team, memberIDs []string) error {
	if _, ok := r.teams[team.TeamID]; ok {
		return ErrConflict
	}
	r.created = append(r.created, team)
	r.members = append(r.members, memberIDs)
	r.teams[team.TeamID] = &Detail{Team: team}
	return nil
}

func (r *fakeRepo) GetBySlug(_ context.Context, slug string) (*Detail, error) {
	if detail, ok := r.teams[slug]; ok {
		return detail, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context, _ string) ([]Detail, error) {
	return nil, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeRepo) ResolveUsers(_ context.Context, userIDs []string) ([]Member, error) {
	var members []Member
	for _, userID := range userIDs {
		if member, ok := r.users[userID]; ok {
			members = append(members, member)
		}
	}
	return members, nil
}

type recordingEmitter struct {
	names    []string
	payloads []any
}

func (e *recordingEmitter) Trigger(_ context.Context, name string, payload any) {
	e.names = append(e.names, name)
	e.payloads = append(e.payloads, payload)
}

var actor = identity.Credentials{
	User: identity.UserIdentity{ID: "u1", UserID: "U12345678", Name: "Otter"},
}

func TestCreateAddsActorToMembers(t *testing.T) {
	repo := newFakeRepo()
	repo.users["U12345678"] = Member{ID: "u1", UserID: "U12345678", Name: "Otter"}
	repo.users["U87654321"] = Member{ID: "u2", UserID: "U87654321", Name: "Badger"}
	emitter := &recordingEmitter{}
	svc := NewService(repo, emitter, zerolog.Nop())

	detail, err := svc.Create(context.Background(), CreateParams{
		Name:          "Rocket Surgery",
		Motto:         "mostly harmless",
		MemberUserIDs: []string{"U87654321"},
	}, actor)

	require.NoError(t, err)
	require.Equal(t, "rocket-surgery", detail.TeamID)
	require.Len(t, detail.Members, 2)
	require.Equal(t, "U87654321", detail.Members[0].UserID)
	require.Equal(t, "U12345678", detail.Members[1].UserID, "actor appended last")
	require.Equal(t, []string{"teams_add"}, emitter.names)
}

func TestCreateDropsUnknownMembers(t *testing.T) {
	repo := newFakeRepo()
	repo.users["U12345678"] = Member{ID: "u1", UserID: "U12345678", Name: "Otter"}
	svc := NewService(repo, &recordingEmitter{}, zerolog.Nop())

	detail, err := svc.Create(context.Background(), CreateParams{
		Name:          "Ghost Crew",
		MemberUserIDs: []string{"UNOBODY00"},
	}, actor)

	require.NoError(t, err)
	require.Len(t, detail.Members, 1)
	require.Equal(t, "U12345678", detail.Members[0].UserID)
}

func TestCreateDuplicateIsConflict(t *testing.T) {
	repo := newFakeRepo()
	repo.users["U12345678"] = Member{ID: "u1", UserID: "U12345678", Name: "Otter"}
	emitter := &recordingEmitter{}
	svc := NewService(repo, emitter, zerolog.Nop())

	_, err := svc.Create(context.Background(), CreateParams{Name: "Rocket Surgery"}, actor)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateParams{Name: "Rocket Surgery"}, actor)
	require.ErrorIs(t, err, ErrConflict)
	require.Len(t, emitter.names, 1, "no event for the rejected duplicate")
}

func TestDeleteRequiresEmptyTeam(t *testing.T) {
	repo := newFakeRepo()
	repo.teams["crewed"] = &Detail{
		Team:    Team{ID: "t1", TeamID: "crewed", Name: "Crewed"},
		Members: []Member{{ID: "u1", UserID: "U12345678"}},
	}
	svc := NewService(repo, &recordingEmitter{}, zerolog.Nop())

	err := svc.Delete(context.Background(), "crewed")

	require.ErrorIs(t, err, ErrNotEmpty)
	require.Empty(t, repo.deleted)
}

func TestDeleteEmptyTeam(t *testing.T) {
	repo := newFakeRepo()
	repo.teams["empty"] = &Detail{Team: Team{ID: "t1", TeamID: "empty", Name: "Empty"}}
	svc := NewService(repo, &recordingEmitter{}, zerolog.Nop())

	err := svc.Delete(context.Background(), "empty")

	require.NoError(t, err)
	require.Equal(t, []string{"t1"}, repo.deleted)
}

func TestDeleteUnknownTeam(t *testing.T) {
	svc := NewService(newFakeRepo(), &recordingEmitter{}, zerolog.Nop())

	err := svc.Delete(context.Background(), "ghost")

	require.ErrorIs(t, err, ErrNotFound)
}
