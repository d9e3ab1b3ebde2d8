package handlers

import (
	"net/http"

	"github.com/hacknight/server/internal/api/jsonapi"
	"github.com/hacknight/server/internal/domain/users"
)

type UsersHandler struct {
	service *users.Service
	env     string
}

func NewUsersHandler(service *users.Service, env string) *UsersHandler {
	return &UsersHandler{service: service, env: env}
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, team, err := h.service.Get(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	jsonapi.Write(w, http.StatusOK, jsonapi.Document{Data: userResource(user, team)})
}

// Create materializes the caller's user row. Authentication already created
// it lazily; this endpoint just makes the result visible to the client.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	credentials, ok := actor(w, r, h.env)
	if !ok {
		return
	}

	user, team, err := h.service.Get(r.Context(), credentials.User.UserID)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	jsonapi.Write(w, http.StatusCreated, jsonapi.Document{Data: userResource(user, team)})
}

func userResource(user *users.User, team *users.TeamSummary) jsonapi.Resource {
	resource := jsonapi.Resource{
		Type: "users",
		ID:   user.UserID,
		Attributes: map[string]any{
			"name": user.Name,
		},
		Links: map[string]string{
			"self": "/users/" + user.UserID,
		},
	}
	if team != nil {
		resource.Relationships = map[string]jsonapi.Relationship{
			"team": jsonapi.ToOne("teams", team.TeamID),
		}
	}
	return resource
}
