package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteRendersProblemJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/teams/missing", nil)

	Write(rec, req, http.StatusNotFound, "Not Found", errors.New("team not found"), "test")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Not Found", body.Title)
	require.Equal(t, http.StatusNotFound, body.Status)
	require.Equal(t, "team not found", body.Detail)
	require.Equal(t, "/teams/missing", body.Instance)
}

func TestWriteMasksServerErrorsInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/teams", nil)

	Write(rec, req, http.StatusInternalServerError, "Internal Server Error", errors.New("pq: connection refused"), "production")

	var body ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusText(http.StatusInternalServerError), body.Detail)
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestWriteDetailOptionWins(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/hacks", nil)

	Write(rec, req, http.StatusBadRequest, "Bad Request", errors.New("ignored"), "production",
		WithDetail("One or more of the specified challenges could not be found"))

	var body ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "One or more of the specified challenges could not be found", body.Detail)
}
