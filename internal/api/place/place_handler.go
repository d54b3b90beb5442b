package place

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tourvn/go-tourism-backend/config"
	"github.com/tourvn/go-tourism-backend/internal/api"
	"github.com/tourvn/go-tourism-backend/internal/api/auth"
	"github.com/tourvn/go-tourism-backend/internal/types"
)

type PlaceHandler struct {
	service    PlaceService
	uploader   *Uploader
	pagination config.PaginationConfig
	logger     *slog.Logger
}

func NewPlaceHandler(service PlaceService, uploader *Uploader, pagination config.PaginationConfig, logger *slog.Logger) *PlaceHandler {
	return &PlaceHandler{
		service:    service,
		uploader:   uploader,
		pagination: pagination,
		logger:     logger,
	}
}

// ListPlaces handles GET /api/places.
func (h *PlaceHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := types.PlaceFilter{
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	if raw := q.Get("category"); raw != "" {
		category := types.PlaceCategory(raw)
		if !types.ValidPlaceCategory(category) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "invalid category")
			return
		}
		filter.Category = &category
	}
	if raw := q.Get("featured"); raw != "" {
		featured := raw == "true" || raw == "1"
		filter.Featured = &featured
	}

	page := api.ParsePageRequest(r, h.pagination.DefaultPageSize, h.pagination.MaxPageSize)

	result, err := h.service.ListPlaces(r.Context(), filter, page)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"places":  result.Items,
		"pagination": map[string]interface{}{
			"total":        result.Total,
			"pages":        result.Pages,
			"current_page": result.CurrentPage,
			"per_page":     result.PerPage,
		},
	})
}

// GetPlace handles GET /api/places/{placeID}.
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := uuid.Parse(chi.URLParam(r, "placeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid place id")
		return
	}

	place, err := h.service.GetPlace(r.Context(), placeID)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"place":   place,
	})
}

// Categories handles GET /api/places/categories.
func (h *PlaceHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := make([]map[string]string, 0, len(types.PlaceCategoryLabels))
	for _, c := range []types.PlaceCategory{
		types.CategoryTouristSpot, types.CategoryRestaurant,
		types.CategoryAccommodation, types.CategoryActivity,
	} {
		categories = append(categories, map[string]string{
			"value": string(c),
			"label": types.PlaceCategoryLabels[c],
		})
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": categories,
	})
}

// CreatePlace handles POST /api/admin/places (multipart form).
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "CreatePlace"))

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	params := types.CreatePlaceParams{
		Name:             r.FormValue("name"),
		Category:         types.PlaceCategory(r.FormValue("category")),
		Description:      optionalFormValue(r, "description"),
		ShortDescription: optionalFormValue(r, "short_description"),
		Address:          optionalFormValue(r, "address"),
		Phone:            optionalFormValue(r, "phone"),
		Email:            optionalFormValue(r, "email"),
		Website:          optionalFormValue(r, "website"),
		PriceRange:       optionalFormValue(r, "price_range"),
		Tags:             splitCommaList(r.FormValue("tags")),
		Features:         splitCommaList(r.FormValue("features")),
		IsFeatured:       r.FormValue("is_featured") == "true",
	}
	if raw := r.FormValue("estimated_cost"); raw != "" {
		cost, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "invalid estimated_cost")
			return
		}
		params.EstimatedCost = cost
	}

	var mainImage *string
	if files := r.MultipartForm.File["main_image"]; len(files) > 0 {
		name, err := h.uploader.Save(files[0])
		if err != nil {
			api.HandleServiceError(w, r, err)
			return
		}
		mainImage = &name
	}

	place, err := h.service.CreatePlace(r.Context(), params, mainImage)
	if err != nil {
		l.WarnContext(r.Context(), "Place creation failed", slog.Any("error", err))
		api.HandleServiceError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Place created",
		"place":   place,
	})
}

// UpdatePlace handles PUT /api/admin/places/{placeID}.
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := uuid.Parse(chi.URLParam(r, "placeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid place id")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	params := types.UpdatePlaceParams{
		Name:             optionalFormValue(r, "name"),
		Description:      optionalFormValue(r, "description"),
		ShortDescription: optionalFormValue(r, "short_description"),
		Address:          optionalFormValue(r, "address"),
		Phone:            optionalFormValue(r, "phone"),
		Email:            optionalFormValue(r, "email"),
		Website:          optionalFormValue(r, "website"),
		PriceRange:       optionalFormValue(r, "price_range"),
	}
	if raw := r.FormValue("category"); raw != "" {
		category := types.PlaceCategory(raw)
		params.Category = &category
	}
	if raw := r.FormValue("estimated_cost"); raw != "" {
		cost, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "invalid estimated_cost")
			return
		}
		params.EstimatedCost = &cost
	}
	if r.Form.Has("tags") {
		params.Tags = splitCommaList(r.FormValue("tags"))
	}
	if r.Form.Has("features") {
		params.Features = splitCommaList(r.FormValue("features"))
	}
	if raw := r.FormValue("is_featured"); raw != "" {
		featured := raw == "true"
		params.IsFeatured = &featured
	}
	if raw := r.FormValue("is_active"); raw != "" {
		active := raw == "true"
		params.IsActive = &active
	}

	if files := r.MultipartForm.File["main_image"]; len(files) > 0 {
		name, err := h.uploader.Save(files[0])
		if err != nil {
			api.HandleServiceError(w, r, err)
			return
		}
		params.MainImage = &name
	}

	place, err := h.service.UpdatePlace(r.Context(), placeID, params)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Place updated",
		"place":   place,
	})
}

// DeletePlace handles DELETE /api/admin/places/{placeID}.
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := uuid.Parse(chi.URLParam(r, "placeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid place id")
		return
	}

	if err := h.service.DeletePlace(r.Context(), placeID); err != nil {
		api.HandleServiceError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Place deleted",
	})
}

// AddReview handles POST /api/places/{placeID}/reviews.
func (h *PlaceHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	placeID, err := uuid.Parse(chi.URLParam(r, "placeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid place id")
		return
	}

	var params types.CreateReviewParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.service.AddReview(r.Context(), placeID, userID, params)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Review added",
		"review":  review,
	})
}

func optionalFormValue(r *http.Request, key string) *string {
	if !r.Form.Has(key) {
		return nil
	}
	v := r.FormValue(key)
	return &v
}

func splitCommaList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
