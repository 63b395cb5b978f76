package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dosada05/rotation-players/models"
	"github.com/Dosada05/rotation-players/services"
	"github.com/google/uuid"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(ss services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: ss}
}

// Create godoc
// @Summary Создать игровую сессию
// @Tags sessions
// @Description Создаёт сессию с выбранными игроками, стратегией и длительностями часов.
// @Accept json
// @Produce json
// @Param body body services.CreateSessionInput true "Настройки сессии"
// @Success 201 {object} services.SessionView
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 404 {object} map[string]string "Участник не найден"
// @Failure 409 {object} map[string]string "Имя сессии занято"
// @Security BearerAuth
// @Router /sessions [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSessionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.sessionService.CreateSession(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary Список сессий
// @Tags sessions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /sessions [get]
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessionService.ListSessions(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"sessions": sessions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get godoc
// @Summary Состояние сессии
// @Tags sessions
// @Description Возвращает настройки, текущий раунд, корты, часы и сетку.
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Success 200 {object} services.SessionView
// @Failure 404 {object} map[string]string "Сессия не найдена"
// @Router /sessions/{sessionID} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.sessionService.GetSession(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary Изменить настройки сессии
// @Tags sessions
// @Description Частичное обновление: передаются только изменяемые поля.
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Param body body services.UpdateSessionInput true "Изменяемые поля"
// @Success 200 {object} services.SessionView
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 404 {object} map[string]string "Сессия не найдена"
// @Security BearerAuth
// @Router /sessions/{sessionID} [put]
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.UpdateSessionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.sessionService.UpdateSettings(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AllocateCourts godoc
// @Summary Распределить игроков по кортам
// @Tags courts
// @Description Новое распределение выбранных игроков по стратегии сессии. Начинает новый раунд.
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Success 200 {object} services.SessionView
// @Failure 422 {object} map[string]string "Меньше четырёх игроков"
// @Security BearerAuth
// @Router /sessions/{sessionID}/courts/allocate [post]
func (h *SessionHandler) AllocateCourts(w http.ResponseWriter, r *http.Request) {
	h.courtsAction(w, r, h.sessionService.AllocateCourts)
}

// RotateCourts godoc
// @Summary Ротация кортов
// @Tags courts
// @Description Завершает раунд: пересаживает текущих игроков, сбрасывает игровые часы.
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Success 200 {object} services.SessionView
// @Failure 422 {object} map[string]string "Корты ещё не распределены"
// @Security BearerAuth
// @Router /sessions/{sessionID}/courts/rotate [post]
func (h *SessionHandler) RotateCourts(w http.ResponseWriter, r *http.Request) {
	h.courtsAction(w, r, h.sessionService.RotateCourts)
}

func (h *SessionHandler) courtsAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id uuid.UUID) (*services.SessionView, error)) {
	id, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := action(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type setCourtsInput struct {
	Courts []models.CourtSlot `json:"courts"`
}

// SetCourts godoc
// @Summary Ручная расстановка кортов
// @Tags courts
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Param body body setCourtsInput true "Раскладка кортов"
// @Success 200 {object} services.SessionView
// @Failure 400 {object} map[string]string "Некорректная раскладка"
// @Security BearerAuth
// @Router /sessions/{sessionID}/courts [put]
func (h *SessionHandler) SetCourts(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input setCourtsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.Courts) == 0 {
		badRequestResponse(w, r, errors.New("courts must not be empty"))
		return
	}

	view, err := h.sessionService.SetCourts(r.Context(), id, input.Courts)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type recordResultsInput struct {
	Results []models.CourtResult `json:"results"`
}

// RecordResults godoc
// @Summary Записать результаты кортов
// @Tags results
// @Description Начисляет победы, поражения и очки, пересчитывает рейтинги и сохраняет историю игр.
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Param body body recordResultsInput true "Счета по кортам"
// @Success 200 {object} services.RecordResultsOutput
// @Failure 400 {object} map[string]string "Некорректный счёт"
// @Failure 409 {object} map[string]string "Результат уже записан"
// @Security BearerAuth
// @Router /sessions/{sessionID}/results [post]
func (h *SessionHandler) RecordResults(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input recordResultsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	out, err := h.sessionService.RecordResults(r.Context(), id, input.Results)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, out, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListResults godoc
// @Summary История игр сессии
// @Tags results
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Сессия не найдена"
// @Router /sessions/{sessionID}/results [get]
func (h *SessionHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.sessionService.ListResults(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
