package ai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tourvn/go-tourism-backend/internal/api"
	"github.com/tourvn/go-tourism-backend/internal/api/auth"
	"github.com/tourvn/go-tourism-backend/internal/types"
)

const (
	sessionListLimit  = 20
	suggestPoolSize   = 50
	sessionTitleLimit = 100
)

const chatApology = "Sorry, I am having technical difficulties. Please try again later."

// PlaceCatalog is the slice of the place store the assistant needs to
// build context and candidate pools.
type PlaceCatalog interface {
	ListPlaces(ctx context.Context, filter types.PlaceFilter, page types.PageRequest) ([]types.Place, int, error)
	GetPlacesByIDs(ctx context.Context, ids []uuid.UUID) ([]types.Place, error)
}

// PreferenceSource exposes the stored preference blob of a user.
type PreferenceSource interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (map[string]any, error)
}

type AIHandler struct {
	logger      *slog.Logger
	service     AIService
	sessions    ChatSessionRepo
	places      PlaceCatalog
	preferences PreferenceSource
}

func NewAIHandler(service AIService, sessions ChatSessionRepo, places PlaceCatalog, preferences PreferenceSource, logger *slog.Logger) *AIHandler {
	return &AIHandler{
		logger:      logger,
		service:     service,
		sessions:    sessions,
		places:      places,
		preferences: preferences,
	}
}

type ChatRequest struct {
	Message   string      `json:"message"`
	SessionID string      `json:"session_id,omitempty"`
	PlaceIDs  []uuid.UUID `json:"place_ids,omitempty"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// Chat handles POST /api/ai/chat. Works for anonymous visitors too;
// authenticated users get their stored preferences folded into the
// prompt context and the session bound to their account.
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Chat"))

	var req ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "message must not be empty")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var history []types.ChatMessage
	if existing, err := h.sessions.GetBySessionID(ctx, sessionID); err == nil {
		history = existing.Messages
	} else if !errors.Is(err, types.ErrNotFound) {
		api.HandleServiceError(w, r, err)
		return
	}

	chatContext := map[string]any{}
	var ownerID *uuid.UUID
	if userID, ok := auth.GetUserIDFromContext(ctx); ok {
		ownerID = &userID
		prefs, err := h.preferences.GetPreferences(ctx, userID)
		if err != nil {
			l.WarnContext(ctx, "failed to load user preferences for chat context", slog.Any("error", err))
		} else if len(prefs) > 0 {
			chatContext["user_preferences"] = prefs
		}
	}
	if len(req.PlaceIDs) > 0 {
		places, err := h.places.GetPlacesByIDs(ctx, req.PlaceIDs)
		if err != nil {
			l.WarnContext(ctx, "failed to resolve selected places for chat context", slog.Any("error", err))
		} else if len(places) > 0 {
			summaries := make([]types.PlaceSummary, 0, len(places))
			for _, p := range places {
				summaries = append(summaries, p.Summary())
			}
			chatContext["selected_places"] = summaries
		}
	}

	reply, err := h.service.Chat(ctx, req.Message, chatContext, history)
	if err != nil {
		l.ErrorContext(ctx, "chat turn failed", slog.Any("error", err))
		api.WriteJSONResponse(w, r, http.StatusBadGateway, map[string]string{
			"error":    "assistant unavailable",
			"response": chatApology,
		})
		return
	}

	now := time.Now().UTC()
	turns := []types.ChatMessage{
		{Role: types.RoleUser, Content: req.Message, Timestamp: now},
		{Role: types.RoleAssistant, Content: reply, Timestamp: now},
	}
	if err := h.sessions.AppendTurns(ctx, sessionID, ownerID, truncate(req.Message, sessionTitleLimit), turns); err != nil {
		// The reply was already produced; losing the transcript entry
		// should not turn a successful turn into an error.
		l.ErrorContext(ctx, "failed to persist chat turns", slog.Any("error", err))
	}

	api.WriteJSONResponse(w, r, http.StatusOK, ChatResponse{
		Response:  reply,
		SessionID: sessionID,
	})
}

type SuggestPlacesRequest struct {
	Category  string   `json:"category,omitempty"`
	Budget    string   `json:"budget,omitempty"`
	Interests []string `json:"interests,omitempty"`
	Duration  *int     `json:"duration,omitempty"`
}

// SuggestPlaces handles POST /api/ai/suggest-places: the model ranks a
// pool of active places against the supplied criteria.
func (h *AIHandler) SuggestPlaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SuggestPlacesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	filter := types.PlaceFilter{}
	if req.Category != "" && req.Category != "all" {
		category := types.PlaceCategory(req.Category)
		if !types.ValidPlaceCategory(category) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "unknown category")
			return
		}
		filter.Category = &category
	}

	places, _, err := h.places.ListPlaces(ctx, filter, types.PageRequest{Page: 1, PageSize: suggestPoolSize})
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	candidates := make([]types.PlaceSummary, 0, len(places))
	for _, p := range places {
		candidates = append(candidates, p.Summary())
	}

	criteria := SuggestionCriteria{
		Category:  req.Category,
		Budget:    req.Budget,
		Interests: req.Interests,
		Duration:  req.Duration,
	}
	suggestions, err := h.service.SuggestPlaces(ctx, criteria, candidates)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, suggestions)
}

// ListSessions handles GET /api/ai/chat-sessions for the signed-in
// user, newest first.
func (h *AIHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	sessions, err := h.sessions.ListByUser(ctx, userID, sessionListLimit)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"sessions": sessions})
}

// GetSession handles GET /api/ai/chat-sessions/{sessionID}. Anonymous
// sessions are readable by anyone holding the id; owned sessions only
// by their owner.
func (h *AIHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		api.HandleServiceError(w, r, err)
		return
	}

	if session.UserID != nil {
		userID, ok := auth.GetUserIDFromContext(ctx)
		if !ok || userID != *session.UserID {
			api.ErrorResponse(w, r, http.StatusForbidden, "access denied")
			return
		}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, session)
}

// DeleteSession handles DELETE /api/ai/chat-sessions/{sessionID}.
func (h *AIHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.sessions.DeleteByOwner(ctx, sessionID, userID); err != nil {
		api.HandleServiceError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "chat session deleted"})
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
