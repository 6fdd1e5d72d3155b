package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aidar/taskhub/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

const (
	// UserIDKey ключ контекста для telegram id пользователя
	UserIDKey ContextKey = "user_id"
	// UsernameKey ключ контекста для username пользователя
	UsernameKey ContextKey = "username"
	// RoleKey ключ контекста для глобальной роли пользователя
	RoleKey ContextKey = "role"
)

// AuthMiddleware создает middleware для валидации JWT токенов
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"missing authorization header"}}`, http.StatusUnauthorized)
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"invalid authorization header format"}}`, http.StatusUnauthorized)
				return
			}

			token := parts[1]

			// Валидируем токен
			claims, err := authService.ValidateToken(token)
			if err != nil {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"invalid or expired token"}}`, http.StatusUnauthorized)
				return
			}

			// Добавляем claims в контекст
			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)

			// Вызываем следующий обработчик
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext собирает аутентифицированного пользователя из контекста
func ActorFromContext(ctx context.Context) service.Actor {
	actor := service.Actor{}
	if userID, ok := ctx.Value(UserIDKey).(int64); ok {
		actor.TelegramID = userID
	}
	if username, ok := ctx.Value(UsernameKey).(string); ok {
		actor.Username = username
	}
	if role, ok := ctx.Value(RoleKey).(string); ok {
		actor.Role = role
	}
	return actor
}
