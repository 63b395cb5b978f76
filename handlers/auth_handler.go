package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/rotation-players/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginInput struct {
	Password string `json:"password"`
}

// Login godoc
// @Summary Вход организатора
// @Tags auth
// @Description Проверяет пароль организатора и возвращает JWT (HS256), действительный 24 часа.
// @Accept json
// @Produce json
// @Param body body loginInput true "Пароль организатора"
// @Success 200 {object} map[string]interface{} "Токен выдан"
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 401 {object} map[string]string "Неверный пароль"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Password == "" {
		badRequestResponse(w, r, errors.New("password is required"))
		return
	}

	token, expiresAt, err := h.authService.Login(r.Context(), input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token, "expires_at": expiresAt}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
