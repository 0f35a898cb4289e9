package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/akarpov/usersvc/internal/server/token"
	"github.com/akarpov/usersvc/pkg/api"
)

type contextKey string

// userIDKey — ключ контекста с id аутентифицированного пользователя
const userIDKey contextKey = "user_id"

// UserIDFromContext извлекает id пользователя, записанный Auth middleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// VerifyFunc проверяет сессионный токен и возвращает id пользователя.
type VerifyFunc func(tokenString string) (int64, error)

// Auth создает middleware для проверки сессионного токена.
// Ожидается заголовок Authorization в формате "Bearer <token>".
func Auth(logger *slog.Logger, verify VerifyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				sendUnauthorized(w, "Authorization token not provided")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				sendUnauthorized(w, "Invalid token")
				return
			}

			userID, err := verify(parts[1])
			if err != nil {
				logger.Warn("session verification failed", slog.Any("error", err))
				if errors.Is(err, token.ErrExpired) {
					sendUnauthorized(w, "Expired token")
				} else {
					sendUnauthorized(w, "Invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sendUnauthorized(w http.ResponseWriter, message string) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(http.StatusUnauthorized),
		Message: message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(resp)
}
