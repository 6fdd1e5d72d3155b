package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/taskhub/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyTitle):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeEmptyTitle), err.Error())
	case errors.Is(err, domain.ErrEmptyStatus):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeEmptyStatus), err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		RespondWithError(w, r, http.StatusConflict, string(domain.CodeInvalidTransition), err.Error())
	case errors.Is(err, domain.ErrMemberExists):
		RespondWithError(w, r, http.StatusConflict, string(domain.CodeMemberExists), err.Error())
	case errors.Is(err, domain.ErrInvalidRoleCombo):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeInvalidRoleCombo), err.Error())
	case errors.Is(err, domain.ErrForbidden):
		RespondWithError(w, r, http.StatusForbidden, string(domain.CodeForbidden), "access denied")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrAccessClosed):
		RespondWithError(w, r, http.StatusUnauthorized, string(domain.CodeUnauthorized), "unauthorized")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProjectNotFound), errors.Is(err, domain.ErrTaskNotFound):
		RespondWithError(w, r, http.StatusNotFound, string(domain.CodeNotFound), "resource not found")
	default:
		RespondWithError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
