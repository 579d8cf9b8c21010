package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/voltpanel/voltpanel-be/internal/api/handlers"
	"github.com/voltpanel/voltpanel-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(authService services.AuthServiceProvider, adminService services.AdminServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Permissive CORS: the panel frontend is served from anywhere.
	// Preflight OPTIONS requests get a 200 before any other processing.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Auth-Token"},
		MaxAge:         86400,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(authService, adminService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth", authHandler.Handle)
		r.Post("/admin", adminHandler.Handle)
	})

	return r
}
