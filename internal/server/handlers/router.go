package handlers

import (
	"log/slog"
	"net/http"

	"github.com/akarpov/usersvc/internal/server/middleware"
	"github.com/akarpov/usersvc/internal/server/service"
)

// NewRouter собирает маршруты API.
// Мутирующие операции над собственной записью защищены сессионным токеном.
func NewRouter(logger *slog.Logger, svc *service.Service, version string) http.Handler {
	usersHandler := NewUsersHandler(logger, svc)
	healthHandler := NewHealthHandler(logger, version)

	requireAuth := middleware.Auth(logger, svc.VerifySession)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.HandleFunc("GET /api/v1/users", usersHandler.List)
	mux.HandleFunc("GET /api/v1/users/{id}", usersHandler.Find)
	mux.HandleFunc("POST /api/v1/users", usersHandler.Create)
	mux.HandleFunc("POST /api/v1/users/authenticate", usersHandler.Authenticate)
	mux.Handle("PUT /api/v1/users/me", requireAuth(http.HandlerFunc(usersHandler.Update)))
	mux.Handle("PUT /api/v1/users/me/password", requireAuth(http.HandlerFunc(usersHandler.UpdatePassword)))
	mux.HandleFunc("DELETE /api/v1/users/{id}", usersHandler.Delete)

	var handler http.Handler = mux
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
