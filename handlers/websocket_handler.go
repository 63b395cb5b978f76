package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Dosada05/rotation-players/services"
	"github.com/Dosada05/rotation-players/ws"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub            *ws.Hub
	sessionService services.SessionService
	upgrader       websocket.Upgrader
}

// NewWebSocketHandler принимает тот же список origin, что и CORS-слой.
// Браузер не шлёт preflight перед upgrade, поэтому список проверяется здесь.
func NewWebSocketHandler(hub *ws.Hub, sessionService services.SessionService, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		sessionService: sessionService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker пропускает запросы без Origin (не браузер), same-host
// запросы и origin из списка. "*" разрешает всё.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, candidate := range allowed {
			if candidate == "*" || strings.EqualFold(candidate, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// ServeWs подписывает клиента на события сессии.
// Клиент подключается к /ws/sessions/{sessionID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Комнату создаём только для существующей сессии.
	view, err := h.sessionService.GetSession(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "websocket upgrade failed", slog.String("session_id", sessionID.String()), slog.Any("error", err))
		return
	}

	roomID := sessionID.String()
	client := ws.NewClient(h.hub, conn, roomID)

	// Снимок текущего состояния получает только новый клиент,
	// и он лежит в очереди раньше любых событий комнаты.
	if err := client.SendMessage(joinSnapshot(roomID, view)); err != nil {
		slog.WarnContext(r.Context(), "websocket snapshot dropped", slog.String("session_id", roomID), slog.Any("error", err))
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

func joinSnapshot(roomID string, view *services.SessionView) ws.Message {
	return ws.Message{
		Type:   ws.EventCourtsUpdated,
		RoomID: roomID,
		Payload: map[string]interface{}{
			"round":  view.Round,
			"courts": view.Courts,
		},
	}
}
