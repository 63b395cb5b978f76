package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/rotation-players/services"
)

type BracketHandler struct {
	sessionService services.SessionService
}

func NewBracketHandler(ss services.SessionService) *BracketHandler {
	return &BracketHandler{sessionService: ss}
}

type createBracketInput struct {
	ParticipantIDs []int `json:"participant_ids"`
}

// Create godoc
// @Summary Сгенерировать турнирную сетку
// @Tags bracket
// @Description Сетка на выбывание. Без participant_ids берутся выбранные игроки сессии. Запускает турнирные часы.
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Param body body createBracketInput false "Участники сетки"
// @Success 201 {object} brackets.Bracket
// @Failure 409 {object} map[string]string "Турнир уже идёт"
// @Failure 422 {object} map[string]string "Меньше двух участников"
// @Security BearerAuth
// @Router /sessions/{sessionID}/bracket [post]
func (h *BracketHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input createBracketInput
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	bracket, err := h.sessionService.CreateBracket(r.Context(), id, input.ParticipantIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, bracket, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get godoc
// @Summary Текущая турнирная сетка
// @Tags bracket
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Success 200 {object} brackets.Bracket
// @Failure 422 {object} map[string]string "Сетка не создана"
// @Router /sessions/{sessionID}/bracket [get]
func (h *BracketHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.sessionService.GetBracket(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, bracket, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

var errMissingScores = errors.New("score1 and score2 are required")

type advanceMatchInput struct {
	Score1 *int `json:"score1"`
	Score2 *int `json:"score2"`
}

// AdvanceMatch godoc
// @Summary Записать счёт матча сетки
// @Tags bracket
// @Description Победитель проходит дальше. Ничьи не допускаются.
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID (UUID)"
// @Param matchID path int true "Match ID"
// @Param body body advanceMatchInput true "Счёт"
// @Success 200 {object} brackets.Bracket
// @Failure 400 {object} map[string]string "Некорректный счёт"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Security BearerAuth
// @Router /sessions/{sessionID}/bracket/matches/{matchID} [post]
func (h *BracketHandler) AdvanceMatch(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input advanceMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Score1 == nil || input.Score2 == nil {
		badRequestResponse(w, r, errMissingScores)
		return
	}

	bracket, err := h.sessionService.AdvanceMatch(r.Context(), id, matchID, *input.Score1, *input.Score2)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, bracket, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
