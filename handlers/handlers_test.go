package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/rotation-players/brackets"
	"github.com/Dosada05/rotation-players/models"
	"github.com/Dosada05/rotation-players/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSessionService реализует только то, что нужно тестам; остальное паникует.
type stubSessionService struct {
	services.SessionService

	view      *services.SessionView
	err       error
	gotID     uuid.UUID
	gotSlots  []models.CourtSlot
	gotResult []models.CourtResult
	gotClock  [2]string
	gotIDs    []int
	gotScore  [3]int
}

func (s *stubSessionService) GetSession(_ context.Context, id uuid.UUID) (*services.SessionView, error) {
	s.gotID = id
	return s.view, s.err
}

func (s *stubSessionService) AllocateCourts(_ context.Context, id uuid.UUID) (*services.SessionView, error) {
	s.gotID = id
	return s.view, s.err
}

func (s *stubSessionService) SetCourts(_ context.Context, id uuid.UUID, slots []models.CourtSlot) (*services.SessionView, error) {
	s.gotID, s.gotSlots = id, slots
	return s.view, s.err
}

func (s *stubSessionService) RecordResults(_ context.Context, id uuid.UUID, results []models.CourtResult) (*services.RecordResultsOutput, error) {
	s.gotID, s.gotResult = id, results
	if s.err != nil {
		return nil, s.err
	}
	return &services.RecordResultsOutput{Round: 1}, nil
}

func (s *stubSessionService) ClockCommand(_ context.Context, id uuid.UUID, clockName, command string) (*services.ClocksView, error) {
	s.gotID, s.gotClock = id, [2]string{clockName, command}
	if s.err != nil {
		return nil, s.err
	}
	return &services.ClocksView{}, nil
}

func (s *stubSessionService) CreateBracket(_ context.Context, id uuid.UUID, ids []int) (*brackets.Bracket, error) {
	s.gotID, s.gotIDs = id, ids
	if s.err != nil {
		return nil, s.err
	}
	return &brackets.Bracket{}, nil
}

func (s *stubSessionService) AdvanceMatch(_ context.Context, id uuid.UUID, matchID, score1, score2 int) (*brackets.Bracket, error) {
	s.gotID, s.gotScore = id, [3]int{matchID, score1, score2}
	if s.err != nil {
		return nil, s.err
	}
	return &brackets.Bracket{}, nil
}

type stubParticipantService struct {
	services.ParticipantService

	err     error
	gotName string
}

func (s *stubParticipantService) Create(_ context.Context, input services.CreateParticipantInput) (*models.Participant, error) {
	s.gotName = input.Name
	if s.err != nil {
		return nil, s.err
	}
	return &models.Participant{ID: 1, Name: input.Name}, nil
}

func (s *stubParticipantService) Delete(context.Context, int) error { return s.err }

type stubAuthService struct {
	err error
}

func (s stubAuthService) Login(context.Context, string) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return "signed-token", time.Date(2024, 6, 2, 18, 0, 0, 0, time.UTC), nil
}

func newTestRouter(ss services.SessionService, ps services.ParticipantService, as services.AuthService) chi.Router {
	sh := NewSessionHandler(ss)
	ch := NewClockHandler(ss)
	bh := NewBracketHandler(ss)
	ph := NewParticipantHandler(ps)
	ah := NewAuthHandler(as)

	r := chi.NewRouter()
	r.Post("/auth/login", ah.Login)
	r.Post("/participants", ph.Create)
	r.Delete("/participants/{participantID}", ph.Delete)
	r.Get("/sessions/{sessionID}", sh.Get)
	r.Post("/sessions/{sessionID}/courts/allocate", sh.AllocateCourts)
	r.Put("/sessions/{sessionID}/courts", sh.SetCourts)
	r.Post("/sessions/{sessionID}/results", sh.RecordResults)
	r.Post("/sessions/{sessionID}/clocks/{clock}/{command}", ch.Command)
	r.Post("/sessions/{sessionID}/bracket", bh.Create)
	r.Post("/sessions/{sessionID}/bracket/matches/{matchID}", bh.AdvanceMatch)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrSessionNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: match 7", services.ErrMatchNotFound), http.StatusNotFound},
		{services.ErrParticipantNameConflict, http.StatusConflict},
		{services.ErrResultsAlreadyRecorded, http.StatusConflict},
		{services.ErrInvalidTransition, http.StatusConflict},
		{services.ErrSessionClosed, http.StatusConflict},
		{services.ErrNotEnoughPlayers, http.StatusUnprocessableEntity},
		{services.ErrBracketNotStarted, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: bad score", services.ErrValidationFailed), http.StatusBadRequest},
		{services.ErrUnknownClockCommand, http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("db is down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, decodeBody(t, rec), "error")
		})
	}
}

func TestSessionHandler_Get(t *testing.T) {
	id := uuid.New()
	ss := &stubSessionService{view: &services.SessionView{Session: &models.Session{ID: id, Name: "Thursday"}, Round: 3}}
	router := newTestRouter(ss, nil, nil)

	rec := do(t, router, http.MethodGet, "/sessions/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, ss.gotID)
	assert.EqualValues(t, 3, decodeBody(t, rec)["round"])

	rec = do(t, router, http.MethodGet, "/sessions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ss.err = services.ErrSessionNotFound
	rec = do(t, router, http.MethodGet, "/sessions/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionHandler_AllocateNotEnoughPlayers(t *testing.T) {
	ss := &stubSessionService{err: fmt.Errorf("%w: 3 selected", services.ErrNotEnoughPlayers)}
	rec := do(t, newTestRouter(ss, nil, nil), http.MethodPost, "/sessions/"+uuid.NewString()+"/courts/allocate", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSessionHandler_SetCourts(t *testing.T) {
	ss := &stubSessionService{view: &services.SessionView{}}
	router := newTestRouter(ss, nil, nil)
	target := "/sessions/" + uuid.NewString() + "/courts"

	rec := do(t, router, http.MethodPut, target, `{"courts":[{"court_number":1,"team_a":[1,2],"team_b":[3,4]}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ss.gotSlots, 1)
	assert.Equal(t, []int{3, 4}, ss.gotSlots[0].TeamB)

	rec = do(t, router, http.MethodPut, target, `{"courts":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPut, target, `{"layout":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "unknown key")
}

func TestSessionHandler_RecordResults(t *testing.T) {
	ss := &stubSessionService{}
	router := newTestRouter(ss, nil, nil)
	target := "/sessions/" + uuid.NewString() + "/results"

	rec := do(t, router, http.MethodPost, target, `{"results":[{"court_number":1,"score_a":21,"score_b":15}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []models.CourtResult{{CourtNumber: 1, ScoreA: 21, ScoreB: 15}}, ss.gotResult)

	ss.err = services.ErrResultsAlreadyRecorded
	rec = do(t, router, http.MethodPost, target, `{"results":[{"court_number":1,"score_a":21,"score_b":15}]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodPost, target, `{"results":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClockHandler_Command(t *testing.T) {
	ss := &stubSessionService{}
	router := newTestRouter(ss, nil, nil)
	id := uuid.New()

	rec := do(t, router, http.MethodPost, "/sessions/"+id.String()+"/clocks/game/pause", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]string{"game", "pause"}, ss.gotClock)
	assert.Equal(t, id, ss.gotID)

	ss.err = services.ErrUnknownClock
	rec = do(t, router, http.MethodPost, "/sessions/"+id.String()+"/clocks/shot/start", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBracketHandler_Create(t *testing.T) {
	ss := &stubSessionService{}
	router := newTestRouter(ss, nil, nil)
	target := "/sessions/" + uuid.NewString() + "/bracket"

	rec := do(t, router, http.MethodPost, target, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, ss.gotIDs)

	rec = do(t, router, http.MethodPost, target, `{"participant_ids":[4,2,9]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []int{4, 2, 9}, ss.gotIDs)

	ss.err = services.ErrBracketInProgress
	rec = do(t, router, http.MethodPost, target, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBracketHandler_AdvanceMatch(t *testing.T) {
	ss := &stubSessionService{}
	router := newTestRouter(ss, nil, nil)
	base := "/sessions/" + uuid.NewString() + "/bracket/matches/"

	rec := do(t, router, http.MethodPost, base+"5", `{"score1":21,"score2":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [3]int{5, 21, 0}, ss.gotScore)

	rec = do(t, router, http.MethodPost, base+"5", `{"score1":21}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, base+"zero", `{"score1":1,"score2":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ss.err = services.ErrMatchNotFound
	rec = do(t, router, http.MethodPost, base+"99", `{"score1":1,"score2":0}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParticipantHandler(t *testing.T) {
	ps := &stubParticipantService{}
	router := newTestRouter(nil, ps, nil)

	rec := do(t, router, http.MethodPost, "/participants", `{"name":"Ana"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ana", ps.gotName)

	rec = do(t, router, http.MethodDelete, "/participants/3", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	ps.err = services.ErrParticipantNameConflict
	rec = do(t, router, http.MethodPost, "/participants", `{"name":"Ana"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	ps.err = services.ErrParticipantNotFound
	rec = do(t, router, http.MethodDelete, "/participants/3", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	rec := do(t, newTestRouter(nil, nil, stubAuthService{}), http.MethodPost, "/auth/login", `{"password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed-token", decodeBody(t, rec)["token"])

	rec = do(t, newTestRouter(nil, nil, stubAuthService{}), http.MethodPost, "/auth/login", `{"password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, newTestRouter(nil, nil, stubAuthService{err: services.ErrInvalidCredentials}), http.MethodPost, "/auth/login", `{"password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
