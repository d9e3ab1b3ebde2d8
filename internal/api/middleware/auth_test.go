package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hacknight/server/internal/domain/identity"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubResolver struct {
	credentials *identity.Credentials
	err         error
	calls       int
}

func (s *stubResolver) Authenticate(_ context.Context, _, _ string) (*identity.Credentials, error) {
	s.calls++
	return s.credentials, s.err
}

func okHandler(t *testing.T, wantCredentials bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := GetCredentials(r.Context())
		require.Equal(t, wantCredentials, ok)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAttendeeAuthMissingHeaderIs401(t *testing.T) {
	resolver := &stubResolver{}
	handler := AttendeeAuth(resolver, "test")(okHandler(t, true))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/teams", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
	require.Zero(t, resolver.calls)
}

func TestAttendeeAuthDeniedIs401(t *testing.T) {
	resolver := &stubResolver{}
	handler := AttendeeAuth(resolver, "test")(okHandler(t, true))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.SetBasicAuth("UOTTER001", "wrong-secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, 1, resolver.calls)
}

func TestAttendeeAuthPassesCredentialsThrough(t *testing.T) {
	resolver := &stubResolver{credentials: &identity.Credentials{
		User: identity.UserIdentity{ID: "01USR", UserID: "UOTTER001", Name: "otter"},
	}}
	handler := AttendeeAuth(resolver, "test")(okHandler(t, true))

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.SetBasicAuth("UOTTER001", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdminAuthAcceptsBcryptMatch(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	handler := AdminAuth("admin", string(hash), "test")(okHandler(t, false))

	req := httptest.NewRequest(http.MethodPost, "/challenges", nil)
	req.SetBasicAuth("admin", "hunter2")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdminAuthRejectsWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	handler := AdminAuth("admin", string(hash), "test")(okHandler(t, false))

	req := httptest.NewRequest(http.MethodPost, "/challenges", nil)
	req.SetBasicAuth("admin", "hunter3")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthRejectsWhenUnconfigured(t *testing.T) {
	handler := AdminAuth("", "", "test")(okHandler(t, false))

	req := httptest.NewRequest(http.MethodPost, "/challenges", nil)
	req.SetBasicAuth("admin", "anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
