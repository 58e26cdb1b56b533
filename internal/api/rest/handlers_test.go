package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["detail"]
}

func TestSeasonParamValidation(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		detail string
	}{
		{"missing", "", "season query parameter is required"},
		{"not an integer", "season=abc", "season must be an integer >= 1920"},
		{"too early", "season=1919", "season must be an integer >= 1920"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/weeks?"+tt.query, nil)
			rec := httptest.NewRecorder()

			_, ok := seasonParam(rec, req)
			require.False(t, ok)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.detail, decodeDetail(t, rec))
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestSeasonParamAccepts(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/weeks?season=2023", nil)
	rec := httptest.NewRecorder()

	season, ok := seasonParam(rec, req)
	require.True(t, ok)
	assert.Equal(t, 2023, season)
}

func TestSearchPlayersRejectsShortTerm(t *testing.T) {
	h := &Handler{}

	for _, query := range []string{"", "search=a", "search=%20%20a%20"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/players?"+query, nil)
		rec := httptest.NewRecorder()

		h.SearchPlayers(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", query)
		assert.Equal(t, "search term must be at least 2 characters", decodeDetail(t, rec))
	}
}

func TestGetGameRejectsNonIntegerID(t *testing.T) {
	h := &Handler{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games/abc", nil)
	req = mux.SetURLVars(req, map[string]string{"gameID": "abc"})
	rec := httptest.NewRecorder()

	h.GetGame(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "game id must be an integer", decodeDetail(t, rec))
}

func TestGetPlayerTimelineRejectsBadSeason(t *testing.T) {
	h := &Handler{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/1/timeline?season=1800", nil)
	req = mux.SetURLVars(req, map[string]string{"playerID": "1"})
	rec := httptest.NewRecorder()

	h.GetPlayerTimeline(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "season must be an integer >= 1920", decodeDetail(t, rec))
}

func TestRespondDetailShape(t *testing.T) {
	rec := httptest.NewRecorder()
	respondDetail(rec, http.StatusNotFound, "Game not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail": "Game not found"}`, rec.Body.String())
}
