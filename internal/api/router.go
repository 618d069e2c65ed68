package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router wires the Handler's methods onto a chi router.
type Router struct {
	handler *Handler
}

// NewRouter builds a Router over handler.
func NewRouter(handler *Handler) *Router {
	return &Router{handler: handler}
}

// Routes returns the fully assembled http.Handler for the service.
func (rt *Router) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	h := rt.handler

	r.Get("/health", h.Health)
	r.Get("/ws/routes", h.ProgressFeed)

	r.Route("/routes", func(r chi.Router) {
		r.Post("/calculate", h.CalculateRoute)
		r.Get("/", h.ListRoutes)
		r.Get("/{id}", h.GetRoute)
		r.Delete("/{id}", h.DeleteRoute)
		r.Get("/{id}/gpx", h.ExportRouteGPX)
	})

	r.Get("/obstacles", h.ListObstacles)
	r.Get("/obstacles/candidates", h.ObstacleCandidates)
	r.Get("/boat-profiles", h.ListBoatProfiles)
	r.Get("/weather", h.CurrentWeather)
	r.Get("/statistics", h.Statistics)

	return r
}
