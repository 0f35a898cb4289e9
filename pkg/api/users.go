// Package api содержит форматы запросов и ответов HTTP API.
// Используется сервером и CLI клиентом.
package api

import "time"

// UserResponse представляет пользователя в ответах API.
// Пароль (и его хеш) никогда не попадает в ответ.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserRequest — запрос POST /api/v1/users
type CreateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserResponse — ответ на создание пользователя
type CreateUserResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateUserRequest — запрос PUT /api/v1/users/me.
// Пустой пароль оставляет текущий без изменений.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// UpdatePasswordRequest — запрос PUT /api/v1/users/me/password
type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// AuthenticateRequest — запрос POST /api/v1/users/authenticate
type AuthenticateRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// TokenResponse — ответ с сессионным токеном
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse — ответ с информационным сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse — ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
