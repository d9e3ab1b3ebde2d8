package handlers

import (
	"fmt"
	"net/http"

	"github.com/hacknight/server/internal/api/jsonapi"
	"github.com/hacknight/server/internal/domain/relation"
)

// RelationshipHandler serves one guarded link list (hack challenges, team
// entries, team members). The engine owns validation and events; this layer
// only decodes identifier documents and maps the outcome.
type RelationshipHandler struct {
	engine    *relation.Engine
	parentVar string
	childType string
	env       string
}

func NewRelationshipHandler(engine *relation.Engine, parentVar, childType, env string) *RelationshipHandler {
	return &RelationshipHandler{
		engine:    engine,
		parentVar: parentVar,
		childType: childType,
		env:       env,
	}
}

func (h *RelationshipHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.engine.Add)
}

func (h *RelationshipHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.engine.Remove)
}

func (h *RelationshipHandler) mutate(w http.ResponseWriter, r *http.Request, op relation.Op) {
	credentials, ok := actor(w, r, h.env)
	if !ok {
		return
	}

	var doc jsonapi.IdentifierDocument
	if err := jsonapi.Decode(r, &doc); err != nil {
		writeBadRequest(w, r, err, h.env)
		return
	}
	for _, identifier := range doc.Data {
		if identifier.Type != h.childType {
			writeBadRequest(w, r, errWrongResourceType(h.childType, identifier.Type), h.env)
			return
		}
	}

	if err := op(r.Context(), r.PathValue(h.parentVar), doc.IDs(), credentials); err != nil {
		writeError(w, r, err, h.env)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func errWrongResourceType(want, got string) error {
	return fmt.Errorf("expected resource type %q, got %q", want, got)
}
