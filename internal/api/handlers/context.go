package handlers

import (
	"net/http"

	"github.com/hacknight/server/internal/api/middleware"
	"github.com/hacknight/server/internal/api/problem"
	"github.com/hacknight/server/internal/domain/identity"
)

// actor pulls the authenticated attendee off the request. Routes behind
// AttendeeAuth always have one; the false branch only fires on a wiring
// mistake, which renders as a 500.
func actor(w http.ResponseWriter, r *http.Request, env string) (identity.Credentials, bool) {
	credentials, ok := middleware.GetCredentials(r.Context())
	if !ok {
		problem.Write(w, r, http.StatusInternalServerError, "Internal Server Error", nil, env,
			problem.WithDetail("no authenticated caller on request"))
	}
	return credentials, ok
}
