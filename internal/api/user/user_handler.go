package user

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tourvn/go-tourism-backend/internal/api"
	"github.com/tourvn/go-tourism-backend/internal/api/auth"
	"github.com/tourvn/go-tourism-backend/internal/types"
)

type UserHandler struct {
	logger     *slog.Logger
	service    UserService
	pageSize   int
	maxPageLen int
}

func NewUserHandler(service UserService, defaultPageSize, maxPageSize int, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		logger:     logger,
		service:    service,
		pageSize:   defaultPageSize,
		maxPageLen: maxPageSize,
	}
}

type ProfileResponse struct {
	*types.User
	Stats *types.UserStats `json:"stats,omitempty"`
}

// GetProfile handles GET /api/user/profile; the payload carries the
// activity stats alongside the account fields.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetProfile"))

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}

	resp := ProfileResponse{User: profile}
	if stats, err := h.service.GetStats(ctx, userID); err != nil {
		l.WarnContext(ctx, "failed to load profile stats", slog.Any("error", err))
	} else {
		resp.Stats = stats
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// UpdateProfile handles PUT /api/user/profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var params types.UpdateProfileParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateProfile(ctx, userID, params)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"message": "profile updated",
		"user":    updated,
	})
}

// GetPreferences handles GET /api/user/preferences.
func (h *UserHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	prefs, err := h.service.GetPreferences(ctx, userID)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /api/user/preferences; unknown keys
// are stored as-is, existing top-level keys are replaced.
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var updates map[string]any
	if err := api.DecodeJSONBody(w, r, &updates); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	merged, err := h.service.UpdatePreferences(ctx, userID, updates)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"message":     "preferences updated",
		"preferences": merged,
	})
}

// ListReviews handles GET /api/user/reviews.
func (h *UserHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	page := api.ParsePageRequest(r, h.pageSize, h.maxPageLen)

	result, err := h.service.ListReviews(ctx, userID, page)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// UpdateReview handles PUT /api/user/reviews/{reviewID}.
func (h *UserHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid review id")
		return
	}

	var params types.UpdateReviewParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.service.UpdateReview(ctx, reviewID, userID, params)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"message": "review updated",
		"review":  review,
	})
}

// DeleteReview handles DELETE /api/user/reviews/{reviewID}.
func (h *UserHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid review id")
		return
	}

	if err := h.service.DeleteReview(ctx, reviewID, userID); err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "review deleted"})
}

// ListFavorites handles GET /api/user/favorites.
func (h *UserHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	favorites, err := h.service.ListFavorites(ctx, userID)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"favorites": favorites,
		"total":     len(favorites),
	})
}

// AddFavorite handles POST /api/user/favorites/{placeID}.
func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	placeID, err := uuid.Parse(chi.URLParam(r, "placeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid place id")
		return
	}

	place, err := h.service.AddFavorite(ctx, userID, placeID)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"message": "added to favorites",
		"place":   place,
	})
}

// RemoveFavorite handles DELETE /api/user/favorites/{placeID}.
func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	placeID, err := uuid.Parse(chi.URLParam(r, "placeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid place id")
		return
	}

	if err := h.service.RemoveFavorite(ctx, userID, placeID); err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "removed from favorites"})
}

// GetStats handles GET /api/user/stats.
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.service.GetStats(ctx, userID)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}

// GetDashboard handles GET /api/user/dashboard.
func (h *UserHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	dashboard, err := h.service.GetDashboard(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard",
			slog.String("userID", userID.String()), slog.Any("error", err))
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, dashboard)
}
