package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hacknight/server/internal/api/middleware"
	"github.com/hacknight/server/internal/domain/identity"
	"github.com/hacknight/server/internal/domain/teams"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeTeamRepo struct {
	teams map[string]*teams.Detail
	users map[string]teams.Member
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams: map[string]*teams.Detail{},
		users: map[string]teams.Member{},
	}
}

func (f *fakeTeamRepo) Create(_ context.Context, team teams.Team, memberIDs []string) error {
	if _, ok := f.teams[team.TeamID]; ok {
		return teams.ErrConflict
	}
	members := make([]teams.Member, 0, len(memberIDs))
	for _, id := range memberIDs {
		for _, user := range f.users {
			if user.ID == id {
				members = append(members, user)
			}
		}
	}
	f.teams[team.TeamID] = &teams.Detail{Team: team, Members: members, Entries: []teams.Entry{}}
	return nil
}

func (f *fakeTeamRepo) GetBySlug(_ context.Context, slug string) (*teams.Detail, error) {
	detail, ok := f.teams[slug]
	if !ok {
		return nil, teams.ErrNotFound
	}
	return detail, nil
}

func (f *fakeTeamRepo) List(_ context.Context, _ string) ([]teams.Detail, error) {
	list := make([]teams.Detail, 0, len(f.teams))
	for _, detail := range f.teams {
		list = append(list, *detail)
	}
	return list, nil
}

func (f *fakeTeamRepo) Delete(_ context.Context, id string) error {
	for slug, detail := range f.teams {
		if detail.ID == id {
			delete(f.teams, slug)
			return nil
		}
	}
	return teams.ErrNotFound
}

func (f *fakeTeamRepo) ResolveUsers(_ context.Context, userIDs []string) ([]teams.Member, error) {
	resolved := make([]teams.Member, 0, len(userIDs))
	for _, userID := range userIDs {
		if member, ok := f.users[userID]; ok {
			resolved = append(resolved, member)
		}
	}
	return resolved, nil
}

type nopEmitter struct{}

func (nopEmitter) Trigger(context.Context, string, any) {}

func testActor() identity.Credentials {
	return identity.Credentials{
		Attendee: identity.AttendeeIdentity{ID: "01ATT", AttendeeID: "otter@hack.night"},
		User:     identity.UserIdentity{ID: "01USR", UserID: "UOTTER001", Name: "otter"},
	}
}

func withActor(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.CredentialsKey, testActor())
	return r.WithContext(ctx)
}

func newTeamsHandler(repo *fakeTeamRepo) *TeamsHandler {
	service := teams.NewService(repo, nopEmitter{}, zerolog.Nop())
	return NewTeamsHandler(service, "test")
}

func TestCreateTeamAddsCreatorAndReturns201(t *testing.T) {
	repo := newFakeTeamRepo()
	repo.users["UOTTER001"] = teams.Member{ID: "01USR", UserID: "UOTTER001", Name: "otter"}
	handler := newTeamsHandler(repo)

	body := `{"data":{"type":"teams","attributes":{"name":"Night Owls","motto":"ship it"}}}`
	req := withActor(httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(body)))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":"night-owls"`)
	require.Contains(t, rec.Body.String(), `"UOTTER001"`)

	created := repo.teams["night-owls"]
	require.NotNil(t, created)
	require.Len(t, created.Members, 1)
}

func TestCreateTeamDuplicateIs409(t *testing.T) {
	repo := newFakeTeamRepo()
	repo.teams["night-owls"] = &teams.Detail{Team: teams.Team{ID: "01TEAM", TeamID: "night-owls", Name: "Night Owls"}}
	handler := newTeamsHandler(repo)

	body := `{"data":{"type":"teams","attributes":{"name":"Night Owls"}}}`
	req := withActor(httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(body)))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestCreateTeamRejectsMalformedDocument(t *testing.T) {
	handler := newTeamsHandler(newFakeTeamRepo())

	body := `{"data":{"type":"hacks","attributes":{"name":"x"}}}`
	req := withActor(httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(body)))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTeamNotFoundIs404(t *testing.T) {
	handler := newTeamsHandler(newFakeTeamRepo())

	req := httptest.NewRequest(http.MethodGet, "/teams/missing", nil)
	req.SetPathValue("teamId", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTeamWithMembersIs403(t *testing.T) {
	repo := newFakeTeamRepo()
	repo.teams["night-owls"] = &teams.Detail{
		Team:    teams.Team{ID: "01TEAM", TeamID: "night-owls", Name: "Night Owls"},
		Members: []teams.Member{{ID: "01USR", UserID: "UOTTER001", Name: "otter"}},
	}
	handler := newTeamsHandler(repo)

	req := withActor(httptest.NewRequest(http.MethodDelete, "/teams/night-owls", nil))
	req.SetPathValue("teamId", "night-owls")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, repo.teams, "night-owls")
}

func TestDeleteEmptyTeamIs204(t *testing.T) {
	repo := newFakeTeamRepo()
	repo.teams["night-owls"] = &teams.Detail{
		Team: teams.Team{ID: "01TEAM", TeamID: "night-owls", Name: "Night Owls"},
	}
	handler := newTeamsHandler(repo)

	req := withActor(httptest.NewRequest(http.MethodDelete, "/teams/night-owls", nil))
	req.SetPathValue("teamId", "night-owls")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotContains(t, repo.teams, "night-owls")
}
