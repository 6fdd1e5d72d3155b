package handler

import (
	"net/http"

	"github.com/aidar/taskhub/internal/domain"
	"github.com/aidar/taskhub/internal/service"
)

// UserHandler обрабатывает эндпоинты справочника пользователей
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers обрабатывает GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}

	RespondWithJSON(w, r, http.StatusOK, users)
}

// GetDirectory обрабатывает GET /users/directory — отдает справочник
// username -> учетная запись для автодополнения исполнителей в UI
func (h *UserHandler) GetDirectory(w http.ResponseWriter, r *http.Request) {
	dir, err := h.userService.Directory(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, dir)
}

// SearchUsers обрабатывает GET /users/search?q=...
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}

	RespondWithJSON(w, r, http.StatusOK, users)
}
