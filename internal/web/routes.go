package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/facereg/internal/web/handlers"
	"github.com/kozaktomas/facereg/internal/web/middleware"
)

func (s *Server) setupRoutes() {
	// Create handlers
	facesHandler := handlers.NewFacesHandler(s.registration, s.recognition, s.log, s.config.Web.MaxRequestBytes)
	identitiesHandler := handlers.NewIdentitiesHandler(s.store, s.log)
	photosHandler := handlers.NewPhotosHandler(s.photos, s.log)
	configHandler := handlers.NewConfigHandler(s.config, s.store)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Faces
		r.Post("/faces/check", facesHandler.Check)
		r.Post("/faces/recognize", facesHandler.Recognize)
		r.Post("/faces/register", facesHandler.Register)

		// Identities
		r.Get("/identities", identitiesHandler.List)
		r.Get("/identities/{id}", identitiesHandler.Get)

		// Photos
		r.Get("/photos/{ref}", photosHandler.Get)

		// Config
		r.Get("/config", configHandler.Get)
	})

	// Paths used by the original browser client
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.LegacyStatus)

		r.Post("/api/check_face.php", facesHandler.Check)
		r.Post("/api/recognize.php", facesHandler.Recognize)
		r.Post("/register.php", facesHandler.Register)
		r.Post("/api/register.php", facesHandler.Register)
	})
}
