package handlers

import (
	"net/http"

	"github.com/hacknight/server/internal/api/jsonapi"
	"github.com/hacknight/server/internal/domain/attendees"
)

// AttendeesHandler is the admin import surface for registration records. The
// identity resolver only reads attendees; rows enter and leave through here.
type AttendeesHandler struct {
	service *attendees.Service
	env     string
}

func NewAttendeesHandler(service *attendees.Service, env string) *AttendeesHandler {
	return &AttendeesHandler{service: service, env: env}
}

type createAttendeeDocument struct {
	Data struct {
		Type       string `json:"type" validate:"required,eq=attendees"`
		Attributes struct {
			Email   string `json:"email" validate:"required,email"`
			SlackID string `json:"slackId" validate:"omitempty,len=9"`
		} `json:"attributes" validate:"required"`
	} `json:"data" validate:"required"`
}

func (h *AttendeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc createAttendeeDocument
	if err := jsonapi.Decode(r, &doc); err != nil {
		writeBadRequest(w, r, err, h.env)
		return
	}

	attendee, err := h.service.Create(r.Context(), doc.Data.Attributes.Email, doc.Data.Attributes.SlackID)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}

	jsonapi.Write(w, http.StatusCreated, jsonapi.Document{Data: attendeeResource(attendee)})
}

func (h *AttendeesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}

	resources := make([]jsonapi.Resource, len(list))
	for i := range list {
		resources[i] = attendeeResource(&list[i])
	}
	jsonapi.Write(w, http.StatusOK, jsonapi.CollectionDocument{Data: resources})
}

func (h *AttendeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("attendeeId")); err != nil {
		writeError(w, r, err, h.env)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func attendeeResource(attendee *attendees.Attendee) jsonapi.Resource {
	return jsonapi.Resource{
		Type: "attendees",
		ID:   attendee.AttendeeID,
		Attributes: map[string]any{
			"slackId": attendee.SlackID,
		},
	}
}
