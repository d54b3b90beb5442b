package itinerary

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tourvn/go-tourism-backend/internal/api"
	"github.com/tourvn/go-tourism-backend/internal/api/auth"
	"github.com/tourvn/go-tourism-backend/internal/types"
)

type ItineraryHandler struct {
	logger     *slog.Logger
	service    ItineraryService
	pageSize   int
	maxPageLen int
}

func NewItineraryHandler(service ItineraryService, defaultPageSize, maxPageSize int, logger *slog.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		logger:     logger,
		service:    service,
		pageSize:   defaultPageSize,
		maxPageLen: maxPageSize,
	}
}

type GenerateItineraryRequest struct {
	Duration  int         `json:"duration"`
	Budget    string      `json:"budget"`
	Interests []string    `json:"interests,omitempty"`
	Location  string      `json:"location"`
	StartDate string      `json:"start_date,omitempty"`
	PlaceIDs  []uuid.UUID `json:"place_ids,omitempty"`
}

type GenerateItineraryResponse struct {
	*types.ItineraryPlan
	Saved       *bool      `json:"saved,omitempty"`
	ItineraryID *uuid.UUID `json:"itinerary_id,omitempty"`
}

// Generate handles POST /api/ai/generate-itinerary. Anonymous callers
// get the plan back as-is; signed-in users also get it saved to their
// account.
func (h *ItineraryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Generate"))

	var req GenerateItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	prefs := types.ItineraryPreference{
		Duration:  req.Duration,
		Budget:    req.Budget,
		Interests: req.Interests,
		Location:  req.Location,
		StartDate: req.StartDate,
	}
	plan, err := h.service.GenerateSmartItinerary(ctx, prefs, req.PlaceIDs)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	if req.StartDate != "" && plan.StartDate == "" {
		plan.StartDate = req.StartDate
	}

	resp := GenerateItineraryResponse{ItineraryPlan: plan}
	if userID, ok := auth.GetUserIDFromContext(ctx); ok {
		id, err := h.service.SaveItinerary(ctx, userID, *plan)
		saved := err == nil
		resp.Saved = &saved
		if err != nil {
			l.ErrorContext(ctx, "failed to auto-save generated itinerary", slog.Any("error", err))
		} else {
			resp.ItineraryID = &id
		}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

type EstimateCostRequest struct {
	Itinerary *types.ItineraryPlan `json:"itinerary"`
}

// EstimateCost handles POST /api/ai/estimate-cost.
func (h *ItineraryHandler) EstimateCost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req EstimateCostRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Itinerary == nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "itinerary is required")
		return
	}

	estimate, err := h.service.EstimateDetailedCost(ctx, *req.Itinerary)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, estimate)
}

// List handles GET /api/user/itineraries with an optional status
// filter.
func (h *ItineraryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var status *types.ItineraryStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := types.ItineraryStatus(raw)
		status = &s
	}
	page := api.ParsePageRequest(r, h.pageSize, h.maxPageLen)

	result, err := h.service.ListItineraries(ctx, userID, status, page)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *ItineraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	itineraryID, err := uuid.Parse(chi.URLParam(r, "itineraryID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid itinerary id")
		return
	}

	it, err := h.service.GetItinerary(ctx, itineraryID, userID)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

func (h *ItineraryHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	itineraryID, err := uuid.Parse(chi.URLParam(r, "itineraryID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid itinerary id")
		return
	}

	var params types.UpdateItineraryParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdateItinerary(ctx, itineraryID, userID, params); err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "itinerary updated"})
}

func (h *ItineraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	itineraryID, err := uuid.Parse(chi.URLParam(r, "itineraryID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid itinerary id")
		return
	}

	if err := h.service.DeleteItinerary(ctx, itineraryID, userID); err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "itinerary deleted"})
}
