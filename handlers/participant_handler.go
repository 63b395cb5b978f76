package handlers

import (
	"net/http"

	"github.com/Dosada05/rotation-players/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(ps services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: ps}
}

// Create godoc
// @Summary Добавить участника
// @Tags participants
// @Accept json
// @Produce json
// @Param body body services.CreateParticipantInput true "Имя участника"
// @Success 201 {object} map[string]interface{} "Участник создан"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 409 {object} map[string]string "Имя уже занято"
// @Security BearerAuth
// @Router /participants [post]
func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateParticipantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participantService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary Список участников
// @Tags participants
// @Description Возвращает ростер, отсортированный по рейтингу.
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /participants [get]
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	participants, err := h.participantService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID godoc
// @Summary Получить участника с историей рейтинга
// @Tags participants
// @Produce json
// @Param participantID path int true "Participant ID"
// @Success 200 {object} services.ParticipantProfile
// @Failure 404 {object} map[string]string "Участник не найден"
// @Router /participants/{participantID} [get]
func (h *ParticipantHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.participantService.GetProfile(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, profile, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// History godoc
// @Summary История рейтинга участника
// @Tags participants
// @Produce json
// @Param participantID path int true "Participant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Участник не найден"
// @Router /participants/{participantID}/history [get]
func (h *ParticipantHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	history, err := h.participantService.History(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Rename godoc
// @Summary Переименовать участника
// @Tags participants
// @Accept json
// @Produce json
// @Param participantID path int true "Participant ID"
// @Param body body services.CreateParticipantInput true "Новое имя"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 404 {object} map[string]string "Участник не найден"
// @Security BearerAuth
// @Router /participants/{participantID} [put]
func (h *ParticipantHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.CreateParticipantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participantService.Rename(r.Context(), id, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary Удалить участника
// @Tags participants
// @Param participantID path int true "Participant ID"
// @Success 204
// @Failure 404 {object} map[string]string "Участник не найден"
// @Security BearerAuth
// @Router /participants/{participantID} [delete]
func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.participantService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Recalculate godoc
// @Summary Пересчитать рейтинги
// @Tags participants
// @Description Пересчитывает рейтинг каждого участника и дописывает историю при изменении.
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /participants/recalculate [post]
func (h *ParticipantHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	participants, err := h.participantService.RecalculateRatings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
