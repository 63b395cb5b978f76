package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/rotation-players/models"
	"github.com/Dosada05/rotation-players/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "no origin header", allowed: []string{"https://club.example"}, origin: "", want: true},
		{name: "listed origin", allowed: []string{"https://club.example"}, origin: "https://club.example", want: true},
		{name: "case insensitive", allowed: []string{"https://Club.example"}, origin: "https://club.example", want: true},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://anything.example", want: true},
		{name: "same host", allowed: nil, origin: "http://courts.local", want: true},
		{name: "foreign origin", allowed: []string{"https://club.example"}, origin: "https://evil.example", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://courts.local/ws/sessions/x", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originChecker(tt.allowed)(req))
		})
	}
}

func TestServeWs_RejectsForeignOrigin(t *testing.T) {
	id := uuid.New()
	ss := &stubSessionService{view: &services.SessionView{Session: &models.Session{ID: id}}}
	h := NewWebSocketHandler(nil, ss, []string{"https://club.example"})
	r := chi.NewRouter()
	r.Get("/ws/sessions/{sessionID}", h.ServeWs)

	req := httptest.NewRequest(http.MethodGet, "http://courts.local/ws/sessions/"+id.String(), nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, id, ss.gotID)
}

func TestServeWs_UnknownSession(t *testing.T) {
	ss := &stubSessionService{err: services.ErrSessionNotFound}
	h := NewWebSocketHandler(nil, ss, nil)
	r := chi.NewRouter()
	r.Get("/ws/sessions/{sessionID}", h.ServeWs)

	req := httptest.NewRequest(http.MethodGet, "/ws/sessions/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
