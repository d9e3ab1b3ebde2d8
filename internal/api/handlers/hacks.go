package handlers

import (
	"net/http"

	"github.com/hacknight/server/internal/api/jsonapi"
	"github.com/hacknight/server/internal/domain/hacks"
)

type HacksHandler struct {
	service *hacks.Service
	env     string
}

func NewHacksHandler(service *hacks.Service, env string) *HacksHandler {
	return &HacksHandler{service: service, env: env}
}

type createHackDocument struct {
	Data struct {
		Type       string `json:"type" validate:"required,eq=hacks"`
		Attributes struct {
			Name string `json:"name" validate:"required,min=1,max=80"`
		} `json:"attributes" validate:"required"`
		Relationships struct {
			Team struct {
				Data *jsonapi.Identifier `json:"data" validate:"required"`
			} `json:"team" validate:"required"`
		} `json:"relationships" validate:"required"`
	} `json:"data" validate:"required"`
}

func (h *HacksHandler) Create(w http.ResponseWriter, r *http.Request) {
	credentials, ok := actor(w, r, h.env)
	if !ok {
		return
	}

	var doc createHackDocument
	if err := jsonapi.Decode(r, &doc); err != nil {
		writeBadRequest(w, r, err, h.env)
		return
	}

	detail, err := h.service.Create(r.Context(), doc.Data.Attributes.Name, doc.Data.Relationships.Team.Data.ID, credentials)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}

	jsonapi.Write(w, http.StatusCreated, jsonapi.Document{Data: hackResource(detail)})
}

func (h *HacksHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("filter[name]"))
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}

	resources := make([]jsonapi.Resource, len(list))
	for i := range list {
		resources[i] = hackResource(&list[i])
	}
	jsonapi.Write(w, http.StatusOK, jsonapi.CollectionDocument{Data: resources})
}

func (h *HacksHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), r.PathValue("hackId"))
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	jsonapi.Write(w, http.StatusOK, jsonapi.Document{Data: hackResource(detail)})
}

func (h *HacksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	credentials, ok := actor(w, r, h.env)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), r.PathValue("hackId"), credentials); err != nil {
		writeError(w, r, err, h.env)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func hackResource(detail *hacks.Detail) jsonapi.Resource {
	challengeIDs := make([]string, len(detail.Challenges))
	for i, challenge := range detail.Challenges {
		challengeIDs[i] = challenge.ChallengeID
	}

	resource := jsonapi.Resource{
		Type: "hacks",
		ID:   detail.HackID,
		Attributes: map[string]any{
			"name": detail.Name,
		},
		Relationships: map[string]jsonapi.Relationship{
			"challenges": jsonapi.ToMany("challenges", challengeIDs),
		},
		Links: map[string]string{
			"self": "/hacks/" + detail.HackID,
		},
	}
	if detail.Team != nil {
		resource.Relationships["team"] = jsonapi.ToOne("teams", detail.Team.TeamID)
	}
	return resource
}
