package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

// ReviewStore is the slice of the place store covering a user's own
// reviews.
type ReviewStore interface {
	ListReviewsByUser(ctx context.Context, userID uuid.UUID, page types.PageRequest) ([]types.Review, int, error)
	UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, params types.UpdateReviewParams) (*types.Review, error)
	DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error
}

// PlaceSource resolves favorite place ids to listable places.
type PlaceSource interface {
	GetPlacesByIDs(ctx context.Context, ids []uuid.UUID) ([]types.Place, error)
}

// ItinerarySource is the slice of the itinerary store the dashboard
// reads from.
type ItinerarySource interface {
	ListItineraries(ctx context.Context, userID uuid.UUID, status *types.ItineraryStatus, page types.PageRequest) ([]types.Itinerary, int, error)
}

// ChatSource lists a user's recent chat sessions.
type ChatSource interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.ChatSession, error)
}

const dashboardRecentLimit = 5

// DashboardStats are the headline counters of the user dashboard.
type DashboardStats struct {
	ItinerariesCount  int `json:"itineraries_count"`
	ReviewsCount      int `json:"reviews_count"`
	ChatSessionsCount int `json:"chat_sessions_count"`
}

type Dashboard struct {
	Stats             DashboardStats      `json:"stats"`
	RecentItineraries []types.Itinerary   `json:"recent_itineraries"`
	RecentReviews     []types.Review      `json:"recent_reviews"`
	RecentChats       []types.ChatSession `json:"recent_chats"`
}

var _ UserService = (*UserServiceImpl)(nil)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.User, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (map[string]any, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, updates map[string]any) (map[string]any, error)

	ListReviews(ctx context.Context, userID uuid.UUID, page types.PageRequest) (types.Paginated[types.Review], error)
	UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, params types.UpdateReviewParams) (*types.Review, error)
	DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error

	// ListFavorites resolves the stored ids; ids pointing at deleted
	// or deactivated places are skipped.
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.Place, error)
	AddFavorite(ctx context.Context, userID, placeID uuid.UUID) (*types.Place, error)
	RemoveFavorite(ctx context.Context, userID, placeID uuid.UUID) error

	GetStats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error)
	GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
}

type UserServiceImpl struct {
	logger      *slog.Logger
	repo        UserRepo
	reviews     ReviewStore
	places      PlaceSource
	itineraries ItinerarySource
	chats       ChatSource
}

func NewUserService(repo UserRepo, reviews ReviewStore, places PlaceSource, itineraries ItinerarySource, chats ChatSource, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger:      logger,
		repo:        repo,
		reviews:     reviews,
		places:      places,
		itineraries: itineraries,
		chats:       chats,
	}
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.User, error) {
	return s.repo.UpdateProfile(ctx, userID, params)
}

func (s *UserServiceImpl) GetPreferences(ctx context.Context, userID uuid.UUID) (map[string]any, error) {
	return s.repo.GetPreferences(ctx, userID)
}

func (s *UserServiceImpl) UpdatePreferences(ctx context.Context, userID uuid.UUID, updates map[string]any) (map[string]any, error) {
	if len(updates) == 0 {
		return s.repo.GetPreferences(ctx, userID)
	}
	return s.repo.UpdatePreferences(ctx, userID, updates)
}

func (s *UserServiceImpl) ListReviews(ctx context.Context, userID uuid.UUID, page types.PageRequest) (types.Paginated[types.Review], error) {
	reviews, total, err := s.reviews.ListReviewsByUser(ctx, userID, page)
	if err != nil {
		return types.Paginated[types.Review]{}, err
	}
	return types.NewPaginated(reviews, total, page), nil
}

func (s *UserServiceImpl) UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, params types.UpdateReviewParams) (*types.Review, error) {
	if params.Rating != nil && (*params.Rating < 1 || *params.Rating > 5) {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", types.ErrBadRequest)
	}
	return s.reviews.UpdateReview(ctx, reviewID, userID, params)
}

func (s *UserServiceImpl) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error {
	return s.reviews.DeleteReview(ctx, reviewID, userID)
}

func (s *UserServiceImpl) ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.Place, error) {
	ids, err := s.repo.ListFavoriteIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []types.Place{}, nil
	}
	return s.places.GetPlacesByIDs(ctx, ids)
}

func (s *UserServiceImpl) AddFavorite(ctx context.Context, userID, placeID uuid.UUID) (*types.Place, error) {
	places, err := s.places.GetPlacesByIDs(ctx, []uuid.UUID{placeID})
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("place %s: %w", placeID, types.ErrNotFound)
	}
	if err := s.repo.AddFavorite(ctx, userID, placeID); err != nil {
		return nil, err
	}
	return &places[0], nil
}

func (s *UserServiceImpl) RemoveFavorite(ctx context.Context, userID, placeID uuid.UUID) error {
	return s.repo.RemoveFavorite(ctx, userID, placeID)
}

func (s *UserServiceImpl) GetStats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error) {
	return s.repo.GetStats(ctx, userID)
}

// GetDashboard assembles the account dashboard: activity counters plus
// the five most recent itineraries, reviews and chat sessions.
func (s *UserServiceImpl) GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	var (
		stats       *types.UserStats
		itineraries []types.Itinerary
		reviews     []types.Review
		chats       []types.ChatSession
	)

	recent := types.PageRequest{Page: 1, PageSize: dashboardRecentLimit}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.repo.GetStats(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		itineraries, _, err = s.itineraries.ListItineraries(gctx, userID, nil, recent)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, _, err = s.reviews.ListReviewsByUser(gctx, userID, recent)
		return err
	})
	g.Go(func() error {
		var err error
		chats, err = s.chats.ListByUser(gctx, userID, dashboardRecentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble dashboard: %w", err)
	}

	return &Dashboard{
		Stats: DashboardStats{
			ItinerariesCount:  stats.Itineraries.Total,
			ReviewsCount:      stats.Reviews,
			ChatSessionsCount: stats.ChatSessions,
		},
		RecentItineraries: itineraries,
		RecentReviews:     reviews,
		RecentChats:       chats,
	}, nil
}
