package handlers

import (
	"net/http"

	"github.com/hacknight/server/internal/api/jsonapi"
	"github.com/hacknight/server/internal/domain/challenges"
)

type ChallengesHandler struct {
	service *challenges.Service
	env     string
}

func NewChallengesHandler(service *challenges.Service, env string) *ChallengesHandler {
	return &ChallengesHandler{service: service, env: env}
}

type createChallengeDocument struct {
	Data struct {
		Type       string `json:"type" validate:"required,eq=challenges"`
		Attributes struct {
			Name string `json:"name" validate:"required,min=1,max=80"`
		} `json:"attributes" validate:"required"`
	} `json:"data" validate:"required"`
}

func (h *ChallengesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc createChallengeDocument
	if err := jsonapi.Decode(r, &doc); err != nil {
		writeBadRequest(w, r, err, h.env)
		return
	}

	challenge, err := h.service.Create(r.Context(), doc.Data.Attributes.Name)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}

	jsonapi.Write(w, http.StatusCreated, jsonapi.Document{Data: challengeResource(challenge)})
}

func (h *ChallengesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("filter[name]"))
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}

	resources := make([]jsonapi.Resource, len(list))
	for i := range list {
		resources[i] = challengeResource(&list[i])
	}
	jsonapi.Write(w, http.StatusOK, jsonapi.CollectionDocument{Data: resources})
}

func (h *ChallengesHandler) Get(w http.ResponseWriter, r *http.Request) {
	challenge, err := h.service.Get(r.Context(), r.PathValue("challengeId"))
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	jsonapi.Write(w, http.StatusOK, jsonapi.Document{Data: challengeResource(challenge)})
}

func challengeResource(challenge *challenges.Challenge) jsonapi.Resource {
	return jsonapi.Resource{
		Type: "challenges",
		ID:   challenge.ChallengeID,
		Attributes: map[string]any{
			"name": challenge.Name,
		},
		Links: map[string]string{
			"self": "/challenges/" + challenge.ChallengeID,
		},
	}
}
