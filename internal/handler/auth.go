package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aidar/taskhub/internal/domain"
	"github.com/aidar/taskhub/internal/service"
)

// AuthHandler обрабатывает эндпоинты аутентификации
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создает новый AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// TelegramLoginResponse представляет ответ на успешную аутентификацию
type TelegramLoginResponse struct {
	JWT     string       `json:"jwt"`
	Profile *domain.User `json:"profile"`
}

// TelegramLogin обрабатывает POST /auth/telegram
func (h *AuthHandler) TelegramLogin(w http.ResponseWriter, r *http.Request) {
	var req service.TelegramAuthData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.ID == 0 || req.Hash == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "id and hash are required")
		return
	}

	token, profile, err := h.authService.TelegramLogin(r.Context(), &req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, TelegramLoginResponse{
		JWT:     token,
		Profile: profile,
	})
}
