package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/akarpov/usersvc/internal/models"
	"github.com/akarpov/usersvc/internal/server/middleware"
	"github.com/akarpov/usersvc/internal/server/service"
	"github.com/akarpov/usersvc/internal/server/storage"
	"github.com/akarpov/usersvc/pkg/api"
)

// UsersHandler обрабатывает запросы к учетным записям
type UsersHandler struct {
	logger  *slog.Logger
	service *service.Service
}

// NewUsersHandler создает новый handler для учетных записей
func NewUsersHandler(logger *slog.Logger, svc *service.Service) *UsersHandler {
	return &UsersHandler{
		logger:  logger,
		service: svc,
	}
}

// List обрабатывает GET /api/v1/users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.service.List(ctx)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.sendJSON(w, usersToResponse(users), http.StatusOK)
}

// Find обрабатывает GET /api/v1/users/{id}
func (h *UsersHandler) Find(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.sendError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.service.Find(ctx, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.sendJSON(w, userToResponse(*user), http.StatusOK)
}

// Create обрабатывает POST /api/v1/users
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.service.Create(ctx, req.Name, req.Username, req.Email, req.Password)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", id),
		slog.String("username", req.Username))

	resp := api.CreateUserResponse{
		ID:       id,
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
	}

	h.sendJSON(w, resp, http.StatusCreated)
}

// Update обрабатывает PUT /api/v1/users/me.
// Целевой пользователь определяется проверенным токеном.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		h.sendError(w, "Authorization token not provided", http.StatusUnauthorized)
		return
	}

	var req api.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Update(ctx, userID, req.Name, req.Username, req.Email, req.Password); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "user updated", slog.Int64("user_id", userID))

	h.sendJSON(w, api.MessageResponse{Message: "User successfully updated!"}, http.StatusOK)
}

// UpdatePassword обрабатывает PUT /api/v1/users/me/password
func (h *UsersHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		h.sendError(w, "Authorization token not provided", http.StatusUnauthorized)
		return
	}

	var req api.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.UpdatePassword(ctx, req.Password, userID); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "user password updated", slog.Int64("user_id", userID))

	h.sendJSON(w, api.MessageResponse{Message: "User password successfully updated!"}, http.StatusOK)
}

// Authenticate обрабатывает POST /api/v1/users/authenticate
func (h *UsersHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.AuthenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tokenString, err := h.service.Authenticate(ctx, req.UsernameOrEmail, req.Password)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.sendJSON(w, api.TokenResponse{Token: tokenString}, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/users/{id}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.sendError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "user deleted", slog.Int64("user_id", id))

	h.sendJSON(w, api.MessageResponse{Message: "User successfully deleted!"}, http.StatusOK)
}

// handleError отображает вид ошибки на HTTP статус.
// Ядро поднимает ошибки без изменений; только транспорт решает, каким
// статусом и текстом ответить.
func (h *UsersHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.sendError(w, vErr.Message, http.StatusBadRequest)
	case errors.Is(err, storage.ErrUsernameTaken):
		h.sendError(w, "This username is already registered!", http.StatusConflict)
	case errors.Is(err, storage.ErrEmailTaken):
		h.sendError(w, "This email address is already registered!", http.StatusConflict)
	case errors.Is(err, storage.ErrUserNotFound):
		h.sendError(w, "User not found!", http.StatusNotFound)
	case errors.Is(err, storage.ErrInvalidCredentials):
		h.sendError(w, "Incorrect username, email or password!", http.StatusUnauthorized)
	default:
		h.logger.ErrorContext(ctx, "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
	}
}

func userToResponse(u models.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func usersToResponse(users []models.User) []api.UserResponse {
	resp := make([]api.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userToResponse(u))
	}
	return resp
}

// sendJSON отправляет JSON ответ
func (h *UsersHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h *UsersHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	h.sendJSON(w, resp, statusCode)
}
