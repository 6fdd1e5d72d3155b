package domain

import "errors"

// Доменные ошибки сервиса
var (
	// ErrEmptyTitle возвращается при создании задачи с пустым названием
	ErrEmptyTitle = errors.New("task title is required")

	// ErrEmptyStatus возвращается при смене статуса проекта на пустой
	ErrEmptyStatus = errors.New("project status is required")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса задачи
	ErrInvalidTransition = errors.New("invalid task status transition")

	// ErrForbidden возвращается когда у пользователя нет прав на действие
	ErrForbidden = errors.New("access denied")

	// ErrMemberExists возвращается при добавлении участника, который уже есть в проекте
	ErrMemberExists = errors.New("member already exists in project")

	// ErrInvalidRoleCombo возвращается для недопустимого сочетания ролей участника
	ErrInvalidRoleCombo = errors.New("invalid role combination")

	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound возвращается когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrProjectNotFound возвращается когда проект не найден
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound возвращается когда задача не найдена
	ErrTaskNotFound = errors.New("task not found")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")

	// ErrAccessClosed возвращается когда пользователю закрыт вход в приложение
	ErrAccessClosed = errors.New("access to the application is closed")
)

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeEmptyTitle        ErrorCode = "EMPTY_TITLE"        // Пустое название задачи
	CodeEmptyStatus       ErrorCode = "EMPTY_STATUS"       // Пустой статус проекта
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION" // Недопустимый переход статуса
	CodeForbidden         ErrorCode = "FORBIDDEN"          // Нет прав на действие
	CodeMemberExists      ErrorCode = "MEMBER_EXISTS"      // Участник уже в проекте
	CodeInvalidRoleCombo  ErrorCode = "INVALID_ROLE_COMBO" // Недопустимое сочетание ролей
	CodeNotFound          ErrorCode = "NOT_FOUND"          // Ресурс не найден
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"       // Аутентификация не пройдена
)
