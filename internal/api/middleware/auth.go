package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/hacknight/server/internal/api/problem"
	"github.com/hacknight/server/internal/domain/identity"
	"github.com/hacknight/server/internal/metrics"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CredentialsKey is the context key for the authenticated attendee.
	CredentialsKey contextKey = "credentials"
)

// Authenticator resolves basic-auth pairs to attendee credentials. A nil
// result with nil error means "not authenticated", never an outage.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*identity.Credentials, error)
}

// AttendeeAuth guards an endpoint with attendee basic auth. The password is
// the shared attendee secret; the username selects who is calling.
func AttendeeAuth(resolver Authenticator, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, r, env)
				return
			}

			credentials, err := resolver.Authenticate(r.Context(), username, password)
			if err != nil {
				metrics.AuthAttempts.WithLabelValues("error").Inc()
				problem.Write(w, r, http.StatusInternalServerError, "Internal Server Error", err, env)
				return
			}
			if credentials == nil {
				metrics.AuthAttempts.WithLabelValues("denied").Inc()
				unauthorized(w, r, env)
				return
			}

			metrics.AuthAttempts.WithLabelValues("ok").Inc()
			ctx := context.WithValue(r.Context(), CredentialsKey, *credentials)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth guards the administrative endpoints with a single configured
// account whose password is stored as a bcrypt hash.
func AdminAuth(adminUsername, adminPasswordHash, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok || adminUsername == "" || adminPasswordHash == "" {
				unauthorized(w, r, env)
				return
			}

			usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(adminUsername)) == 1
			passwordErr := bcrypt.CompareHashAndPassword([]byte(adminPasswordHash), []byte(password))
			if !usernameMatch || passwordErr != nil {
				metrics.AuthAttempts.WithLabelValues("denied").Inc()
				unauthorized(w, r, env)
				return
			}

			metrics.AuthAttempts.WithLabelValues("ok").Inc()
			next.ServeHTTP(w, r)
		})
	}
}

// GetCredentials extracts the authenticated attendee from context. The bool
// is false on unauthenticated routes.
func GetCredentials(ctx context.Context) (identity.Credentials, bool) {
	credentials, ok := ctx.Value(CredentialsKey).(identity.Credentials)
	return credentials, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request, env string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="hacknight"`)
	problem.Write(w, r, http.StatusUnauthorized, "Unauthorized", nil, env,
		problem.WithDetail("Valid credentials are required"))
}
