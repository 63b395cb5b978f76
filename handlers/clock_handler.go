package handlers

import (
	"net/http"

	"github.com/Dosada05/rotation-players/services"
	"github.com/go-chi/chi/v5"
)

type ClockHandler struct {
	sessionService services.SessionService
}

func NewClockHandler(ss services.SessionService) *ClockHandler {
	return &ClockHandler{sessionService: ss}
}

// Status godoc
// @Summary Состояние часов сессии
// @Tags clocks
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Success 200 {object} services.ClocksView
// @Failure 404 {object} map[string]string "Сессия не найдена"
// @Router /sessions/{sessionID}/clocks [get]
func (h *ClockHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.sessionService.ClockStatus(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Command godoc
// @Summary Управление часами
// @Tags clocks
// @Description clock: game | tournament; command: start | pause | resume | reset.
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Param clock path string true "Часы"
// @Param command path string true "Команда"
// @Success 200 {object} services.ClocksView
// @Failure 400 {object} map[string]string "Неизвестные часы или команда"
// @Failure 409 {object} map[string]string "Недопустимый переход"
// @Security BearerAuth
// @Router /sessions/{sessionID}/clocks/{clock}/{command} [post]
func (h *ClockHandler) Command(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.sessionService.ClockCommand(r.Context(), id, chi.URLParam(r, "clock"), chi.URLParam(r, "command"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
