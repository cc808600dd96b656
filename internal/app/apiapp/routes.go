package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jorgemochonbernalpersonal/comparathor/internal/config"
	authsvc "github.com/jorgemochonbernalpersonal/comparathor/internal/services/auth"
	userssvc "github.com/jorgemochonbernalpersonal/comparathor/internal/services/users"
	"github.com/jorgemochonbernalpersonal/comparathor/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService *authsvc.Service
	UserService *userssvc.Service
	Logger      *zap.Logger
	Config      config.Config
}

// PublicPaths lists the routes the request gate forwards without a
// credential: the three auth entry points plus health.
func PublicPaths() []string {
	return []string{
		"/healthz",
		"/api/auth/login",
		"/api/auth/register",
		"/api/auth/refresh-token",
	}
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	userHandler := handlers.NewUserHandler(deps.UserService)
	healthHandler := handlers.NewHealthHandler()
	adminRoleMW := RequireAnyRole(authsvc.RoleAdmin)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
		r.Post("/refresh-token", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.With(adminRoleMW).Get("/", userHandler.List)
		r.Get("/me", userHandler.Me)
		r.Get("/{id}", userHandler.GetByID)
	})
}
