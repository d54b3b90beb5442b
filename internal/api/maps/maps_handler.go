package maps

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourvn/go-tourism-backend/internal/api"
	"github.com/tourvn/go-tourism-backend/internal/types"
)

type MapsHandler struct {
	service MapsService
	logger  *slog.Logger
}

func NewMapsHandler(service MapsService, logger *slog.Logger) *MapsHandler {
	return &MapsHandler{
		service: service,
		logger:  logger,
	}
}

// writeMapsError maps gateway failures: upstream rejections become 502,
// bad input 400, everything else 500.
func (h *MapsHandler) writeMapsError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WarnContext(r.Context(), "Maps gateway call failed", slog.Any("error", err))
	switch {
	case errors.Is(err, types.ErrBadRequest):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUpstream):
		api.ErrorResponse(w, r, http.StatusBadGateway, err.Error())
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "maps request failed")
	}
}

// Geocode handles POST /api/maps/geocode.
func (h *MapsHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Address == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "address is required")
		return
	}

	result, err := h.service.GeocodeAddress(r.Context(), req.Address)
	if err != nil {
		h.writeMapsError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"success": true, "result": result})
}

// ReverseGeocode handles POST /api/maps/reverse-geocode.
func (h *MapsHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	result, err := h.service.ReverseGeocode(r.Context(), *req.Latitude, *req.Longitude)
	if err != nil {
		h.writeMapsError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"success": true, "result": result})
}

// Directions handles POST /api/maps/directions.
func (h *MapsHandler) Directions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Origin      string   `json:"origin"`
		Destination string   `json:"destination"`
		Waypoints   []string `json:"waypoints,omitempty"`
		Mode        string   `json:"mode,omitempty"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Origin == "" || req.Destination == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "origin and destination are required")
		return
	}

	result, err := h.service.GetDirections(r.Context(), req.Origin, req.Destination, req.Waypoints, req.Mode)
	if err != nil {
		h.writeMapsError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"success": true, "result": result})
}

// DistanceMatrix handles POST /api/maps/distance-matrix.
func (h *MapsHandler) DistanceMatrix(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Origins      []string `json:"origins"`
		Destinations []string `json:"destinations"`
		Mode         string   `json:"mode,omitempty"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Origins) == 0 || len(req.Destinations) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "origins and destinations are required")
		return
	}

	result, err := h.service.GetDistanceMatrix(r.Context(), req.Origins, req.Destinations, req.Mode)
	if err != nil {
		h.writeMapsError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"success": true, "result": result})
}

// Nearby handles POST /api/maps/nearby.
func (h *MapsHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Radius    int      `json:"radius,omitempty"`
		PlaceType string   `json:"place_type,omitempty"`
		Keyword   string   `json:"keyword,omitempty"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	result, err := h.service.SearchNearby(r.Context(), *req.Latitude, *req.Longitude, req.Radius, req.PlaceType, req.Keyword)
	if err != nil {
		h.writeMapsError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"success": true, "places": result.Places})
}

// PlaceDetails handles GET /api/maps/place-details/{placeID}.
func (h *MapsHandler) PlaceDetails(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeID")
	if placeID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "place id is required")
		return
	}

	result, err := h.service.GetPlaceDetails(r.Context(), placeID)
	if err != nil {
		h.writeMapsError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"success": true, "place": result.Place})
}

// OptimizeRoute handles POST /api/maps/optimize-route.
func (h *MapsHandler) OptimizeRoute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Origin      string   `json:"origin"`
		Destination string   `json:"destination"`
		Waypoints   []string `json:"waypoints"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Origin == "" || req.Destination == "" || len(req.Waypoints) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "origin, destination and waypoints are required")
		return
	}

	result, err := h.service.OptimizeRoute(r.Context(), req.Origin, req.Destination, req.Waypoints)
	if err != nil {
		h.writeMapsError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"success": true, "result": result})
}

// TravelTime handles POST /api/maps/travel-time.
func (h *MapsHandler) TravelTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Places []TravelPoint `json:"places"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.CalculateTravelTime(r.Context(), req.Places)
	if err != nil {
		h.writeMapsError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"success": true, "result": result})
}
