package slack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users.info", r.URL.Path)
		require.Equal(t, "U12345678", r.URL.Query().Get("user"))
		require.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"ok":true,"user":{"id":"U12345678","name":"otter","profile":{"email":"otter@hack.night"}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "xoxb-test", WithRateLimit(1000))

	profile, err := client.Lookup(context.Background(), "U12345678")

	require.NoError(t, err)
	require.Equal(t, "U12345678", profile.ID)
	require.Equal(t, "otter", profile.Name)
	require.Equal(t, "otter@hack.night", profile.Email)
}

func TestLookupNotOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error":"user_not_found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "xoxb-test", WithRateLimit(1000))

	_, err := client.Lookup(context.Background(), "UNOBODY00")

	require.ErrorContains(t, err, "user_not_found")
}

func TestLookupHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "xoxb-test", WithRateLimit(1000))

	_, err := client.Lookup(context.Background(), "U12345678")

	require.ErrorContains(t, err, "status 502")
}

func TestLookupEmptyID(t *testing.T) {
	client := NewClient("http://unused.invalid", "xoxb-test")

	_, err := client.Lookup(context.Background(), "")

	require.Error(t, err)
}
