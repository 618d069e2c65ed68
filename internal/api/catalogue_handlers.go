package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	"github.com/kelvin-ux/sailing-regates-route/internal/obstacle"
	"github.com/kelvin-ux/sailing-regates-route/internal/storage/sqlite"
	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
)

// healthResponse is the body returned by GET /health.
type healthResponse struct {
	Status string `json:"status"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// ListObstacles handles GET /obstacles: the full charted obstacle
// catalogue, unfiltered.
func (h *Handler) ListObstacles(w http.ResponseWriter, r *http.Request) {
	obstacles, err := h.store.Obstacles().All(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to list obstacles")
		return
	}
	WriteJSON(w, http.StatusOK, obstacles)
}

// boatProfileResponse omits the curve's internal knot representation
// from nothing — it is returned verbatim, the polar curve being
// public information a sailor would want to inspect.
type boatProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Curve     any       `json:"curve"`
	CreatedAt time.Time `json:"created_at"`
}

// ListBoatProfiles handles GET /boat-profiles.
func (h *Handler) ListBoatProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.BoatProfiles().All(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to list boat profiles")
		return
	}
	resp := make([]boatProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, boatProfileResponse{ID: p.ID, Name: p.Name, Curve: p.Curve, CreatedAt: p.CreatedAt})
	}
	WriteJSON(w, http.StatusOK, resp)
}

// weatherResponse reports either the most recently persisted snapshot
// or a freshly fetched field when no snapshot exists yet.
type weatherResponse struct {
	Field     wind.Field `json:"field"`
	Source    string     `json:"source"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// CurrentWeather handles GET /weather.
func (h *Handler) CurrentWeather(w http.ResponseWriter, r *http.Request) {
	snapshot, ok, err := h.store.WeatherSnapshots().Latest(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to load latest weather snapshot")
		return
	}
	if ok {
		WriteJSON(w, http.StatusOK, weatherResponse{Field: snapshot.Field, Source: snapshot.Source, FetchedAt: snapshot.FetchedAt})
		return
	}

	bounds := wind.Bounds{
		North: h.config.Routing.AreaNorth, South: h.config.Routing.AreaSouth,
		East: h.config.Routing.AreaEast, West: h.config.Routing.AreaWest,
	}
	field, _ := h.weather.Fetch(r.Context(), bounds)
	WriteJSON(w, http.StatusOK, weatherResponse{Field: field, Source: "live", FetchedAt: time.Now().UTC()})

	if err := h.store.WeatherSnapshots().Insert(r.Context(), sqlite.WeatherSnapshot{
		ID: uuid.NewString(), Field: field, Source: "live", FetchedAt: time.Now().UTC(),
	}); err != nil {
		h.logger.Warn("failed to persist weather snapshot")
	}
}

// obstacleCandidatesResponse is the body returned by
// GET /obstacles/candidates.
type obstacleCandidatesResponse struct {
	Candidates []obstacle.Obstacle `json:"candidates"`
}

// ObstacleCandidates handles GET /obstacles/candidates: a diagnostic
// endpoint reporting which obstacles a prospective leg's bounding box
// overlaps, ahead of the precise (and costlier) crossing test the
// route graph builder applies. Useful for a chart client inspecting
// why a leg was pruned.
func (h *Handler) ObstacleCandidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fromLat, errA := strconv.ParseFloat(q.Get("from_lat"), 64)
	fromLon, errB := strconv.ParseFloat(q.Get("from_lon"), 64)
	toLat, errC := strconv.ParseFloat(q.Get("to_lat"), 64)
	toLon, errD := strconv.ParseFloat(q.Get("to_lon"), 64)
	if errA != nil || errB != nil || errC != nil || errD != nil {
		WriteError(w, http.StatusBadRequest, "from_lat, from_lon, to_lat, to_lon query params are required")
		return
	}

	seg := geo.Segment{
		A: geo.Point{Lat: fromLat, Lon: fromLon},
		B: geo.Point{Lat: toLat, Lon: toLon},
	}
	if !seg.A.Valid() || !seg.B.Valid() {
		WriteError(w, http.StatusBadRequest, "coordinates out of range")
		return
	}

	_, idx, err := h.obstacles.Fetch(r.Context(), wind.Bounds{})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to fetch obstacle catalogue")
		return
	}

	WriteJSON(w, http.StatusOK, obstacleCandidatesResponse{Candidates: idx.Candidates(seg)})
}

// Statistics handles GET /statistics: aggregate calculation outcomes.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.CalculationLogs().Summarize(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to summarize calculation logs")
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
