package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tourvn/go-tourism-backend/internal/api"
)

type AdminHandler struct {
	logger     *slog.Logger
	service    AdminService
	pageSize   int
	maxPageLen int
}

func NewAdminHandler(service AdminService, defaultPageSize, maxPageSize int, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		logger:     logger,
		service:    service,
		pageSize:   defaultPageSize,
		maxPageLen: maxPageSize,
	}
}

// GetDashboard handles GET /api/admin/dashboard.
func (h *AdminHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "GetDashboard"))

	dashboard, err := h.service.GetDashboard(r.Context())
	if err != nil {
		l.ErrorContext(r.Context(), "failed to load dashboard", slog.Any("error", err))
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, dashboard)
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "ListUsers"))

	search := r.URL.Query().Get("search")
	page := api.ParsePageRequest(r, h.pageSize, h.maxPageLen)

	users, err := h.service.ListUsers(r.Context(), search, page)
	if err != nil {
		l.ErrorContext(r.Context(), "failed to list users", slog.Any("error", err))
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, users)
}

// GetUser handles GET /api/admin/users/{userID}.
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "GetUser"))

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid user ID")
		return
	}

	detail, err := h.service.GetUserDetail(r.Context(), userID)
	if err != nil {
		l.ErrorContext(r.Context(), "failed to get user detail",
			slog.String("userID", userID.String()), slog.Any("error", err))
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, detail)
}

// ToggleUserActive handles POST /api/admin/users/{userID}/toggle-active.
func (h *AdminHandler) ToggleUserActive(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "ToggleUserActive"))

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid user ID")
		return
	}

	isActive, err := h.service.ToggleUserActive(r.Context(), userID)
	if err != nil {
		l.ErrorContext(r.Context(), "failed to toggle user",
			slog.String("userID", userID.String()), slog.Any("error", err))
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"user_id":   userID,
		"is_active": isActive,
	})
}

// MakeAdmin handles POST /api/admin/users/{userID}/make-admin.
func (h *AdminHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "MakeAdmin"))

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, err := h.service.MakeAdmin(r.Context(), userID)
	if err != nil {
		l.ErrorContext(r.Context(), "failed to grant admin",
			slog.String("userID", userID.String()), slog.Any("error", err))
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

// GetPlaceStats handles GET /api/admin/places/stats.
func (h *AdminHandler) GetPlaceStats(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "GetPlaceStats"))

	stats, err := h.service.GetPlaceStats(r.Context())
	if err != nil {
		l.ErrorContext(r.Context(), "failed to load place stats", slog.Any("error", err))
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}

// ListChatSessions handles GET /api/admin/chat-sessions. Message
// bodies are omitted from the listing.
func (h *AdminHandler) ListChatSessions(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "ListChatSessions"))

	page := api.ParsePageRequest(r, h.pageSize, h.maxPageLen)
	sessions, err := h.service.ListChatSessions(r.Context(), page)
	if err != nil {
		l.ErrorContext(r.Context(), "failed to list chat sessions", slog.Any("error", err))
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, sessions)
}

// ExportPlaces handles GET /api/admin/export/places.
func (h *AdminHandler) ExportPlaces(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "ExportPlaces"))

	places, err := h.service.ExportPlaces(r.Context())
	if err != nil {
		l.ErrorContext(r.Context(), "failed to export places", slog.Any("error", err))
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"places": places,
		"total":  len(places),
	})
}

// ExportUsers handles GET /api/admin/export/users.
func (h *AdminHandler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "ExportUsers"))

	users, err := h.service.ExportUsers(r.Context())
	if err != nil {
		l.ErrorContext(r.Context(), "failed to export users", slog.Any("error", err))
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"users": users,
		"total": len(users),
	})
}

// GetPublicStats handles the unauthenticated GET /api/stats.
func (h *AdminHandler) GetPublicStats(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "GetPublicStats"))

	stats, err := h.service.GetPublicStats(r.Context())
	if err != nil {
		l.ErrorContext(r.Context(), "failed to load public stats", slog.Any("error", err))
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}
