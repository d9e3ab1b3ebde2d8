package handlers

import (
	"errors"
	"net/http"

	"github.com/hacknight/server/internal/api/problem"
	"github.com/hacknight/server/internal/domain/attendees"
	"github.com/hacknight/server/internal/domain/challenges"
	"github.com/hacknight/server/internal/domain/hacks"
	"github.com/hacknight/server/internal/domain/relation"
	"github.com/hacknight/server/internal/domain/teams"
	"github.com/hacknight/server/internal/domain/users"
)

// writeError maps domain errors onto problem responses. Anything unmapped is
// an internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error, env string) {
	var relErr *relation.Error
	if errors.As(err, &relErr) {
		switch relErr.Kind {
		case relation.KindNotFound:
			problem.Write(w, r, http.StatusNotFound, "Not Found", err, env, problem.WithDetail(relErr.Detail))
		case relation.KindForbidden:
			problem.Write(w, r, http.StatusForbidden, "Forbidden", err, env, problem.WithDetail(relErr.Detail))
		default:
			problem.Write(w, r, http.StatusBadRequest, "Bad Request", err, env, problem.WithDetail(relErr.Detail))
		}
		return
	}

	switch {
	case errors.Is(err, teams.ErrNotFound),
		errors.Is(err, hacks.ErrNotFound),
		errors.Is(err, challenges.ErrNotFound),
		errors.Is(err, users.ErrNotFound),
		errors.Is(err, attendees.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "Not Found", err, env)
	case errors.Is(err, teams.ErrConflict),
		errors.Is(err, hacks.ErrConflict),
		errors.Is(err, challenges.ErrConflict),
		errors.Is(err, attendees.ErrConflict):
		problem.Write(w, r, http.StatusConflict, "Conflict", err, env)
	case errors.Is(err, teams.ErrNotEmpty),
		errors.Is(err, hacks.ErrForbidden):
		problem.Write(w, r, http.StatusForbidden, "Forbidden", err, env)
	case errors.Is(err, hacks.ErrTeamNotFound):
		problem.Write(w, r, http.StatusBadRequest, "Bad Request", err, env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, "Internal Server Error", err, env)
	}
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, err error, env string) {
	problem.Write(w, r, http.StatusBadRequest, "Bad Request", err, env)
}
