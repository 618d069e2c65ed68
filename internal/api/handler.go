// Package api implements the HTTP surface: route calculation, stored
// route retrieval, GPX export, and the read-only catalogue/statistics
// endpoints.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/kelvin-ux/sailing-regates-route/internal/config"
	"github.com/kelvin-ux/sailing-regates-route/internal/obstaclesource"
	"github.com/kelvin-ux/sailing-regates-route/internal/storage/sqlite"
	"github.com/kelvin-ux/sailing-regates-route/internal/weather"
	"github.com/kelvin-ux/sailing-regates-route/internal/websocket"
	"github.com/kelvin-ux/sailing-regates-route/pkg/logger"
)

// Handler holds every dependency the route handlers need.
type Handler struct {
	config    *config.Config
	logger    *logger.Logger
	store     *sqlite.Store
	obstacles *obstaclesource.Source
	weather   weather.Provider
	wsServer  *websocket.Server
}

// NewHandler wires a Handler from its dependencies.
func NewHandler(cfg *config.Config, log *logger.Logger, store *sqlite.Store, obstacles *obstaclesource.Source, weatherProvider weather.Provider, wsServer *websocket.Server) *Handler {
	return &Handler{
		config:    cfg,
		logger:    log.Named("api-handler"),
		store:     store,
		obstacles: obstacles,
		weather:   weatherProvider,
		wsServer:  wsServer,
	}
}

// WriteJSON writes data as an application/json response with the given
// status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// WriteError writes a {"error": message} JSON body with the given
// status code.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorResponse{Error: message})
}
