package handlers

import (
	"net/http"

	"github.com/hacknight/server/internal/api/jsonapi"
	"github.com/hacknight/server/internal/domain/teams"
)

type TeamsHandler struct {
	service *teams.Service
	env     string
}

func NewTeamsHandler(service *teams.Service, env string) *TeamsHandler {
	return &TeamsHandler{service: service, env: env}
}

type createTeamDocument struct {
	Data struct {
		Type       string `json:"type" validate:"required,eq=teams"`
		Attributes struct {
			Name  string `json:"name" validate:"required,min=1,max=80"`
			Motto string `json:"motto" validate:"max=160"`
		} `json:"attributes" validate:"required"`
		Relationships struct {
			Members struct {
				Data []jsonapi.Identifier `json:"data" validate:"dive"`
			} `json:"members"`
		} `json:"relationships"`
	} `json:"data" validate:"required"`
}

func (h *TeamsHandler) Create(w http.ResponseWriter, r *http.Request) {
	credentials, ok := actor(w, r, h.env)
	if !ok {
		return
	}

	var doc createTeamDocument
	if err := jsonapi.Decode(r, &doc); err != nil {
		writeBadRequest(w, r, err, h.env)
		return
	}

	memberIDs := make([]string, 0, len(doc.Data.Relationships.Members.Data))
	for _, member := range doc.Data.Relationships.Members.Data {
		memberIDs = append(memberIDs, member.ID)
	}

	detail, err := h.service.Create(r.Context(), teams.CreateParams{
		Name:          doc.Data.Attributes.Name,
		Motto:         doc.Data.Attributes.Motto,
		MemberUserIDs: memberIDs,
	}, credentials)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}

	jsonapi.Write(w, http.StatusCreated, jsonapi.Document{Data: teamResource(detail)})
}

func (h *TeamsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("filter[name]"))
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}

	resources := make([]jsonapi.Resource, len(list))
	for i := range list {
		resources[i] = teamResource(&list[i])
	}
	jsonapi.Write(w, http.StatusOK, jsonapi.CollectionDocument{Data: resources})
}

func (h *TeamsHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), r.PathValue("teamId"))
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	jsonapi.Write(w, http.StatusOK, jsonapi.Document{Data: teamResource(detail)})
}

func (h *TeamsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := actor(w, r, h.env); !ok {
		return
	}

	if err := h.service.Delete(r.Context(), r.PathValue("teamId")); err != nil {
		writeError(w, r, err, h.env)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Members serves the member list as a relationship document.
func (h *TeamsHandler) Members(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), r.PathValue("teamId"))
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}

	ids := make([]string, len(detail.Members))
	for i, member := range detail.Members {
		ids[i] = member.UserID
	}
	jsonapi.Write(w, http.StatusOK, jsonapi.ToMany("users", ids))
}

// Entries serves the entry list as a relationship document.
func (h *TeamsHandler) Entries(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), r.PathValue("teamId"))
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}

	ids := make([]string, len(detail.Entries))
	for i, entry := range detail.Entries {
		ids[i] = entry.HackID
	}
	jsonapi.Write(w, http.StatusOK, jsonapi.ToMany("hacks", ids))
}

func teamResource(detail *teams.Detail) jsonapi.Resource {
	memberIDs := make([]string, len(detail.Members))
	for i, member := range detail.Members {
		memberIDs[i] = member.UserID
	}
	entryIDs := make([]string, len(detail.Entries))
	for i, entry := range detail.Entries {
		entryIDs[i] = entry.HackID
	}

	return jsonapi.Resource{
		Type: "teams",
		ID:   detail.TeamID,
		Attributes: map[string]any{
			"name":  detail.Name,
			"motto": detail.Motto,
		},
		Relationships: map[string]jsonapi.Relationship{
			"members": jsonapi.ToMany("users", memberIDs),
			"entries": jsonapi.ToMany("hacks", entryIDs),
		},
		Links: map[string]string{
			"self": "/teams/" + detail.TeamID,
		},
	}
}
