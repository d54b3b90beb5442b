package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

const (
	dashboardCacheKey = "admin:dashboard"
	publicStatsKey    = "public:stats"

	recentLimit  = 5
	popularLimit = 10
)

// PlaceCatalog is the slice of the place store the admin views read
// from.
type PlaceCatalog interface {
	ListPlaces(ctx context.Context, filter types.PlaceFilter, page types.PageRequest) ([]types.Place, int, error)
}

var _ AdminService = (*AdminServiceImpl)(nil)

type AdminService interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
	ListUsers(ctx context.Context, search string, page types.PageRequest) (types.Paginated[types.User], error)
	GetUserDetail(ctx context.Context, userID uuid.UUID) (*UserDetail, error)

	// ToggleUserActive flips the account flag; admin accounts are
	// protected and return types.ErrForbidden.
	ToggleUserActive(ctx context.Context, userID uuid.UUID) (bool, error)
	MakeAdmin(ctx context.Context, userID uuid.UUID) (*types.User, error)

	GetPlaceStats(ctx context.Context) (*PlaceStats, error)
	ListChatSessions(ctx context.Context, page types.PageRequest) (types.Paginated[types.ChatSession], error)

	ExportPlaces(ctx context.Context) ([]types.Place, error)
	ExportUsers(ctx context.Context) ([]types.User, error)

	GetPublicStats(ctx context.Context) (*PublicStats, error)
}

type AdminServiceImpl struct {
	logger *slog.Logger
	repo   AdminRepo
	places PlaceCatalog
	cache  *cache.Cache
}

func NewAdminService(repo AdminRepo, places PlaceCatalog, logger *slog.Logger) *AdminServiceImpl {
	return &AdminServiceImpl{
		logger: logger,
		repo:   repo,
		places: places,
		cache:  cache.New(60*time.Second, 5*time.Minute),
	}
}

func (s *AdminServiceImpl) GetDashboard(ctx context.Context) (*Dashboard, error) {
	if cached, found := s.cache.Get(dashboardCacheKey); found {
		if dashboard, ok := cached.(*Dashboard); ok {
			return dashboard, nil
		}
	}

	var (
		totals        *DashboardTotals
		categories    map[string]int
		recentUsers   []types.User
		recentPlaces  []types.Place
		popularPlaces []types.Place
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.CountTotals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.repo.CategoryCounts(gctx, true)
		return err
	})
	g.Go(func() error {
		var err error
		recentUsers, err = s.repo.RecentUsers(gctx, recentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		recentPlaces, _, err = s.places.ListPlaces(gctx, types.PlaceFilter{
			SortBy: "created_at", SortOrder: "desc",
		}, types.PageRequest{Page: 1, PageSize: recentLimit})
		return err
	})
	g.Go(func() error {
		var err error
		popularPlaces, _, err = s.places.ListPlaces(gctx, types.PlaceFilter{
			SortBy: "view_count", SortOrder: "desc",
		}, types.PageRequest{Page: 1, PageSize: popularLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble dashboard: %w", err)
	}

	totals.CategoryStats = categories
	dashboard := &Dashboard{
		Stats:         *totals,
		RecentUsers:   recentUsers,
		RecentPlaces:  summarize(recentPlaces),
		PopularPlaces: summarize(popularPlaces),
	}
	s.cache.Set(dashboardCacheKey, dashboard, cache.DefaultExpiration)
	return dashboard, nil
}

func (s *AdminServiceImpl) ListUsers(ctx context.Context, search string, page types.PageRequest) (types.Paginated[types.User], error) {
	users, total, err := s.repo.ListUsers(ctx, search, page)
	if err != nil {
		return types.Paginated[types.User]{}, err
	}
	return types.NewPaginated(users, total, page), nil
}

func (s *AdminServiceImpl) GetUserDetail(ctx context.Context, userID uuid.UUID) (*UserDetail, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	itineraries, chatSessions, err := s.repo.CountUserActivity(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserDetail{
		User:              user,
		ItinerariesCount:  itineraries,
		ChatSessionsCount: chatSessions,
	}, nil
}

func (s *AdminServiceImpl) ToggleUserActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.IsAdmin {
		return false, fmt.Errorf("admin accounts cannot be deactivated: %w", types.ErrForbidden)
	}
	return s.repo.ToggleUserActive(ctx, userID)
}

func (s *AdminServiceImpl) MakeAdmin(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return s.repo.MakeAdmin(ctx, userID)
}

func (s *AdminServiceImpl) GetPlaceStats(ctx context.Context) (*PlaceStats, error) {
	var (
		categoryStats []CategoryStat
		topRated      []types.Place
		mostViewed    []types.Place
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categoryStats, err = s.repo.CategoryStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		topRated, _, err = s.places.ListPlaces(gctx, types.PlaceFilter{
			SortBy: "rating", SortOrder: "desc",
		}, types.PageRequest{Page: 1, PageSize: popularLimit})
		return err
	})
	g.Go(func() error {
		var err error
		mostViewed, _, err = s.places.ListPlaces(gctx, types.PlaceFilter{
			SortBy: "view_count", SortOrder: "desc",
		}, types.PageRequest{Page: 1, PageSize: popularLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble place stats: %w", err)
	}

	return &PlaceStats{
		CategoryStats: categoryStats,
		TopRated:      summarize(topRated),
		MostViewed:    summarize(mostViewed),
	}, nil
}

func (s *AdminServiceImpl) ListChatSessions(ctx context.Context, page types.PageRequest) (types.Paginated[types.ChatSession], error) {
	sessions, total, err := s.repo.ListChatSessions(ctx, page)
	if err != nil {
		return types.Paginated[types.ChatSession]{}, err
	}
	return types.NewPaginated(sessions, total, page), nil
}

func (s *AdminServiceImpl) ExportPlaces(ctx context.Context) ([]types.Place, error) {
	places, _, err := s.places.ListPlaces(ctx, types.PlaceFilter{
		IncludeInactive: true,
		SortBy:          "created_at", SortOrder: "asc",
	}, types.PageRequest{Page: 1, PageSize: 10000})
	return places, err
}

func (s *AdminServiceImpl) ExportUsers(ctx context.Context) ([]types.User, error) {
	return s.repo.ExportUsers(ctx)
}

func (s *AdminServiceImpl) GetPublicStats(ctx context.Context) (*PublicStats, error) {
	if cached, found := s.cache.Get(publicStatsKey); found {
		if stats, ok := cached.(*PublicStats); ok {
			return stats, nil
		}
	}
	stats, err := s.repo.PublicStats(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(publicStatsKey, stats, cache.DefaultExpiration)
	return stats, nil
}

func summarize(places []types.Place) []types.PlaceSummary {
	out := make([]types.PlaceSummary, 0, len(places))
	for _, p := range places {
		out = append(out, p.Summary())
	}
	return out
}
