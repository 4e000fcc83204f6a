package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roel-sundiam/tennis-tournament-management/models"
	"github.com/roel-sundiam/tennis-tournament-management/services"
)

// stubMatchService returns canned values so the tests exercise only the
// HTTP layer: parameter parsing, error mapping and response envelopes.
type stubMatchService struct {
	match *models.Match
	err   error
}

func (s *stubMatchService) GetMatch(context.Context, int) (*models.Match, error) {
	return s.match, s.err
}

func (s *stubMatchService) ListMatches(context.Context, int, *models.MatchStatus) ([]*models.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*models.Match{s.match}, nil
}

func (s *stubMatchService) StartMatch(context.Context, int) (*models.Match, error) {
	return s.match, s.err
}

func (s *stubMatchService) AwardPoint(_ context.Context, _ int, side models.Side) (*models.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	m := *s.match
	if side == models.SideTeam1 {
		m.Score.Team1Points++
	} else {
		m.Score.Team2Points++
	}
	return &m, nil
}

func newMatchRouter(svc services.MatchService) *chi.Mux {
	h := NewMatchHandler(svc)
	router := chi.NewRouter()
	router.Get("/matches/{matchID}", h.GetMatchHandler)
	router.Post("/matches/{matchID}/points", h.AwardPointHandler)
	router.Get("/tournaments/{tournamentID}/matches", h.ListTournamentMatchesHandler)
	return router
}

func testMatch() *models.Match {
	t1, t2 := 10, 11
	return &models.Match{
		ID:           5,
		TournamentID: 1,
		Round:        1,
		MatchNumber:  1,
		Team1ID:      &t1,
		Team2ID:      &t2,
		Status:       models.MatchStatusInProgress,
		Score:        models.NewScore(),
	}
}

func TestGetMatchHandler(t *testing.T) {
	router := newMatchRouter(&stubMatchService{match: testMatch()})

	req := httptest.NewRequest(http.MethodGet, "/matches/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"match"`)
}

func TestGetMatchHandlerBadID(t *testing.T) {
	router := newMatchRouter(&stubMatchService{match: testMatch()})

	req := httptest.NewRequest(http.MethodGet, "/matches/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAwardPointHandler(t *testing.T) {
	router := newMatchRouter(&stubMatchService{match: testMatch()})

	req := httptest.NewRequest(http.MethodPost, "/matches/5/points", strings.NewReader(`{"side":"team1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"team1_points": 1`)
}

func TestAwardPointHandlerRejectsUnknownField(t *testing.T) {
	router := newMatchRouter(&stubMatchService{match: testMatch()})

	req := httptest.NewRequest(http.MethodPost, "/matches/5/points", strings.NewReader(`{"team":"team1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown key")
}

func TestAwardPointHandlerEmptyBody(t *testing.T) {
	router := newMatchRouter(&stubMatchService{match: testMatch()})

	req := httptest.NewRequest(http.MethodPost, "/matches/5/points", strings.NewReader(``))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must not be empty")
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"match not found", services.ErrMatchNotFound, http.StatusNotFound},
		{"tournament not found", services.ErrTournamentNotFound, http.StatusNotFound},
		{"already completed", services.ErrMatchAlreadyCompleted, http.StatusConflict},
		{"slot conflict", services.ErrSlotConflict, http.StatusConflict},
		{"validation", services.ErrValidationFailed, http.StatusBadRequest},
		{"unresolved teams", services.ErrMatchTeamsUnresolved, http.StatusBadRequest},
		{"forbidden", services.ErrForbiddenOperation, http.StatusForbidden},
		{"unexpected", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newMatchRouter(&stubMatchService{err: tt.err})

			req := httptest.NewRequest(http.MethodGet, "/matches/5", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestListMatchesStatusQueryPassthrough(t *testing.T) {
	router := newMatchRouter(&stubMatchService{match: testMatch()})

	req := httptest.NewRequest(http.MethodGet, "/tournaments/1/matches?status=pending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matches"`)
}
