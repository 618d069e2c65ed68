package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kelvin-ux/sailing-regates-route/internal/geo"
	gpxexport "github.com/kelvin-ux/sailing-regates-route/internal/gpx"
	"github.com/kelvin-ux/sailing-regates-route/internal/planner"
	"github.com/kelvin-ux/sailing-regates-route/internal/storage/sqlite"
	"github.com/kelvin-ux/sailing-regates-route/internal/websocket"
	"github.com/kelvin-ux/sailing-regates-route/internal/wind"
	"github.com/kelvin-ux/sailing-regates-route/pkg/logger"
)

// calculateRouteRequest is the wire shape of POST /routes/calculate.
type calculateRouteRequest struct {
	Origin           geo.Point `json:"origin"`
	Destination      geo.Point `json:"destination"`
	GridResolutionNM float64   `json:"grid_resolution_nm"`
	CorridorMarginNM float64   `json:"corridor_margin_nm"`
	BoatProfileID    string    `json:"boat_profile_id"`
	Seed             *int64    `json:"seed,omitempty"`
}

// routeResponse is the wire shape returned for a computed route.
type routeResponse struct {
	ID              string      `json:"id"`
	Waypoints       []geo.Point `json:"waypoints"`
	Legs            []legJSON   `json:"legs"`
	TotalDistanceNM float64     `json:"total_distance_nm"`
	TotalTimeHours  float64     `json:"total_time_hours"`
	Fallback        bool        `json:"fallback"`
}

type legJSON struct {
	From         geo.Point `json:"from"`
	To           geo.Point `json:"to"`
	BearingDeg   float64   `json:"bearing_deg"`
	DistanceNM   float64   `json:"distance_nm"`
	WindSpeedMS  float64   `json:"wind_speed_ms"`
	WindDirDeg   float64   `json:"wind_dir_deg"`
	BoatSpeedKts float64   `json:"boat_speed_kts"`
	TimeHours    float64   `json:"time_hours"`
}

func toRouteResponse(id string, route planner.Route) routeResponse {
	legs := make([]legJSON, 0, len(route.Legs))
	for _, l := range route.Legs {
		legs = append(legs, legJSON{
			From: l.From, To: l.To,
			BearingDeg:   l.BearingDeg,
			DistanceNM:   l.DistanceNM,
			WindSpeedMS:  l.WindSpeedMS,
			WindDirDeg:   l.WindDirDeg,
			BoatSpeedKts: l.BoatSpeedKts,
			TimeHours:    l.TimeHours,
		})
	}
	return routeResponse{
		ID:              id,
		Waypoints:       route.Waypoints,
		Legs:            legs,
		TotalDistanceNM: route.TotalDistanceNM,
		TotalTimeHours:  route.TotalTimeHours,
		Fallback:        route.Fallback,
	}
}

// CalculateRoute handles POST /routes/calculate: it enforces the
// operating-area bound, runs the planner, persists the result
// fire-and-forget, and publishes its lifecycle on the progress feed.
func (h *Handler) CalculateRoute(w http.ResponseWriter, r *http.Request) {
	var req calculateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !h.withinOperatingArea(req.Origin) || !h.withinOperatingArea(req.Destination) {
		WriteError(w, http.StatusBadRequest, "origin and destination must be within the configured operating area")
		return
	}

	routeID := uuid.NewString()
	h.publishProgress(routeID, websocket.PhaseStarted, "")

	if req.GridResolutionNM == 0 {
		req.GridResolutionNM = h.config.Routing.DefaultGridResolutionNM
	}
	if req.CorridorMarginNM == 0 {
		req.CorridorMarginNM = h.config.Routing.DefaultCorridorMarginNM
	}

	ctx := r.Context()

	h.publishProgress(routeID, websocket.PhaseSampling, "")
	profile, err := h.store.BoatProfiles().Get(ctx, req.BoatProfileID)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "unknown boat_profile_id")
		return
	}

	bounds := wind.Bounds{
		North: h.config.Routing.AreaNorth, South: h.config.Routing.AreaSouth,
		East: h.config.Routing.AreaEast, West: h.config.Routing.AreaWest,
	}
	obstacles, _, err := h.obstacles.Fetch(ctx, bounds)
	if err != nil {
		h.logger.Warn("failed to fetch obstacle catalogue, proceeding with none", logger.Error(err))
		obstacles = nil
	}

	field, _ := h.weather.Fetch(ctx, bounds)

	h.publishProgress(routeID, websocket.PhaseSearching, "")

	planReq := planner.Request{
		Origin:           req.Origin,
		Destination:      req.Destination,
		GridResolutionNM: req.GridResolutionNM,
		CorridorMarginNM: req.CorridorMarginNM,
		Polar:            &profile.Curve,
		Seed:             req.Seed,
	}

	start := time.Now()
	route, err := planner.Plan(ctx, planReq, obstacles, field)
	duration := time.Since(start)

	if err != nil {
		h.publishProgress(routeID, websocket.PhaseFailed, err.Error())
		h.logCalculation(ctx, routeID, "", duration, sqlite.OutcomeError, err.Error())

		var perr *planner.PlanError
		if errors.As(err, &perr) {
			switch perr.Kind {
			case planner.ErrInvalidRequest:
				WriteError(w, http.StatusBadRequest, perr.Error())
			case planner.ErrTimeout:
				WriteError(w, http.StatusRequestTimeout, perr.Error())
			default:
				WriteError(w, http.StatusInternalServerError, perr.Error())
			}
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.persistRoute(ctx, routeID, req.BoatProfileID, planReq, route)

	outcome := sqlite.OutcomeSolved
	if route.Fallback {
		outcome = sqlite.OutcomeFallback
	}
	h.logCalculation(ctx, routeID, routeID, duration, outcome, "")
	h.publishProgress(routeID, websocket.PhaseDone, "")

	WriteJSON(w, http.StatusOK, toRouteResponse(routeID, route))
}

func (h *Handler) withinOperatingArea(p geo.Point) bool {
	rt := h.config.Routing
	return p.Lat >= rt.AreaSouth && p.Lat <= rt.AreaNorth && p.Lon >= rt.AreaWest && p.Lon <= rt.AreaEast
}

func (h *Handler) publishProgress(routeID, phase, detail string) {
	if h.wsServer == nil {
		return
	}
	h.wsServer.Broadcast(websocket.Event{RouteID: routeID, Phase: phase, Detail: detail})
}

// persistRoute stores the computed route fire-and-forget: a storage
// failure is logged at warn level and never alters the HTTP response.
func (h *Handler) persistRoute(ctx context.Context, routeID, boatProfileID string, req planner.Request, route planner.Route) {
	if h.store == nil {
		return
	}
	sr := sqlite.StoredRoute{
		ID:            routeID,
		BoatProfileID: boatProfileID,
		Request:       req,
		Route:         route,
		CreatedAt:     time.Now().UTC(),
	}
	if err := h.store.Routes().Insert(ctx, sr); err != nil {
		h.logger.Warn("failed to persist computed route", logger.Error(err), logger.String("route_id", routeID))
	}
}

func (h *Handler) logCalculation(ctx context.Context, logID, routeID string, duration time.Duration, outcome sqlite.CalculationOutcome, errMsg string) {
	if h.store == nil {
		return
	}
	entry := sqlite.CalculationLog{
		ID:           logID,
		RouteID:      routeID,
		Outcome:      outcome,
		DurationMs:   duration.Milliseconds(),
		ErrorMessage: errMsg,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.store.CalculationLogs().Insert(ctx, entry); err != nil {
		h.logger.Warn("failed to persist calculation log", logger.Error(err))
	}
}

// ListRoutes handles GET /routes: a paginated list of stored routes.
func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	routes, err := h.store.Routes().List(r.Context(), limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to list routes")
		return
	}

	resp := make([]routeResponse, 0, len(routes))
	for _, sr := range routes {
		resp = append(resp, toRouteResponse(sr.ID, sr.Route))
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetRoute handles GET /routes/{id}.
func (h *Handler) GetRoute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sr, err := h.store.Routes().Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "route not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "failed to load route")
		return
	}
	WriteJSON(w, http.StatusOK, toRouteResponse(sr.ID, sr.Route))
}

// DeleteRoute handles DELETE /routes/{id}.
func (h *Handler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.Routes().Get(r.Context(), id); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "route not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "failed to load route")
		return
	}
	if err := h.store.Routes().Delete(r.Context(), id); err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to delete route")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportRouteGPX handles GET /routes/{id}/gpx.
func (h *Handler) ExportRouteGPX(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sr, err := h.store.Routes().Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "route not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "failed to load route")
		return
	}

	// Stored routes carry no per-leg metrics (Route.Legs is empty), so the
	// stored total time is apportioned across legs by leg distance.
	wps := sr.Route.Waypoints
	legHours := make([]float64, 0, len(wps))
	for i := 0; i+1 < len(wps); i++ {
		share := 0.0
		if sr.Route.TotalDistanceNM > 0 {
			share = geo.DistanceNM(wps[i], wps[i+1]) / sr.Route.TotalDistanceNM
		}
		legHours = append(legHours, sr.Route.TotalTimeHours*share)
	}
	legs := gpxexport.CumulativeETAs(wps, legHours, sr.CreatedAt)

	doc, err := gpxexport.Export(sr.ID, legs)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to build GPX document")
		return
	}
	xmlBytes, err := gpxexport.ToXML(doc)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to render GPX document")
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(xmlBytes)
}

// ProgressFeed handles GET /ws/routes, upgrading to the WebSocket
// progress feed.
func (h *Handler) ProgressFeed(w http.ResponseWriter, r *http.Request) {
	if h.wsServer == nil {
		WriteError(w, http.StatusServiceUnavailable, "progress feed not available")
		return
	}
	h.wsServer.HandleConnection(w, r)
}
