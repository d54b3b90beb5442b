package user

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.User, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserRepo) GetPreferences(ctx context.Context, userID uuid.UUID) (map[string]any, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockUserRepo) UpdatePreferences(ctx context.Context, userID uuid.UUID, updates map[string]any) (map[string]any, error) {
	args := m.Called(ctx, userID, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockUserRepo) AddFavorite(ctx context.Context, userID, placeID uuid.UUID) error {
	return m.Called(ctx, userID, placeID).Error(0)
}

func (m *MockUserRepo) RemoveFavorite(ctx context.Context, userID, placeID uuid.UUID) error {
	return m.Called(ctx, userID, placeID).Error(0)
}

func (m *MockUserRepo) ListFavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRepo) GetStats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserStats), args.Error(1)
}

type MockReviewStore struct {
	mock.Mock
}

func (m *MockReviewStore) ListReviewsByUser(ctx context.Context, userID uuid.UUID, page types.PageRequest) ([]types.Review, int, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]types.Review), args.Int(1), args.Error(2)
}

func (m *MockReviewStore) UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, params types.UpdateReviewParams) (*types.Review, error) {
	args := m.Called(ctx, reviewID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}

func (m *MockReviewStore) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error {
	return m.Called(ctx, reviewID, userID).Error(0)
}

type MockPlaceSource struct {
	mock.Mock
}

func (m *MockPlaceSource) GetPlacesByIDs(ctx context.Context, ids []uuid.UUID) ([]types.Place, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

type MockItinerarySource struct {
	mock.Mock
}

func (m *MockItinerarySource) ListItineraries(ctx context.Context, userID uuid.UUID, status *types.ItineraryStatus, page types.PageRequest) ([]types.Itinerary, int, error) {
	args := m.Called(ctx, userID, status, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]types.Itinerary), args.Int(1), args.Error(2)
}

type MockChatSource struct {
	mock.Mock
}

func (m *MockChatSource) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.ChatSession, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ChatSession), args.Error(1)
}

type testMocks struct {
	repo        *MockUserRepo
	reviews     *MockReviewStore
	places      *MockPlaceSource
	itineraries *MockItinerarySource
	chats       *MockChatSource
}

func newTestService(t *testing.T) (*MockUserRepo, *MockReviewStore, *MockPlaceSource, *UserServiceImpl) {
	t.Helper()
	m, svc := newTestServiceFull(t)
	return m.repo, m.reviews, m.places, svc
}

func newTestServiceFull(t *testing.T) (*testMocks, *UserServiceImpl) {
	t.Helper()
	m := &testMocks{
		repo:        new(MockUserRepo),
		reviews:     new(MockReviewStore),
		places:      new(MockPlaceSource),
		itineraries: new(MockItinerarySource),
		chats:       new(MockChatSource),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return m, NewUserService(m.repo, m.reviews, m.places, m.itineraries, m.chats, logger)
}

func TestAddFavorite(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo, _, places, svc := newTestService(t)

		placeID := uuid.New()
		places.On("GetPlacesByIDs", ctx, []uuid.UUID{placeID}).
			Return([]types.Place{{ID: placeID, Name: "Thien Mu Pagoda"}}, nil)
		repo.On("AddFavorite", ctx, userID, placeID).Return(nil)

		place, err := svc.AddFavorite(ctx, userID, placeID)
		require.NoError(t, err)
		assert.Equal(t, "Thien Mu Pagoda", place.Name)
		repo.AssertExpectations(t)
	})

	t.Run("UnknownPlace", func(t *testing.T) {
		repo, _, places, svc := newTestService(t)

		placeID := uuid.New()
		places.On("GetPlacesByIDs", ctx, []uuid.UUID{placeID}).Return([]types.Place{}, nil)

		_, err := svc.AddFavorite(ctx, userID, placeID)
		assert.ErrorIs(t, err, types.ErrNotFound)
		repo.AssertNotCalled(t, "AddFavorite", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListFavorites(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("EmptyListSkipsPlaceLookup", func(t *testing.T) {
		repo, _, places, svc := newTestService(t)

		repo.On("ListFavoriteIDs", ctx, userID).Return([]uuid.UUID{}, nil)

		favorites, err := svc.ListFavorites(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, favorites)
		places.AssertNotCalled(t, "GetPlacesByIDs", mock.Anything, mock.Anything)
	})

	t.Run("ResolvesStoredIDs", func(t *testing.T) {
		repo, _, places, svc := newTestService(t)

		a, b := uuid.New(), uuid.New()
		repo.On("ListFavoriteIDs", ctx, userID).Return([]uuid.UUID{a, b}, nil)
		// One of the two ids points at a deactivated place.
		places.On("GetPlacesByIDs", ctx, []uuid.UUID{a, b}).
			Return([]types.Place{{ID: a, Name: "Perfume River cruise"}}, nil)

		favorites, err := svc.ListFavorites(ctx, userID)
		require.NoError(t, err)
		require.Len(t, favorites, 1)
		assert.Equal(t, a, favorites[0].ID)
	})
}

func TestUpdateReviewRatingBounds(t *testing.T) {
	ctx := context.Background()
	_, reviews, _, svc := newTestService(t)

	bad := 6
	_, err := svc.UpdateReview(ctx, uuid.New(), uuid.New(), types.UpdateReviewParams{Rating: &bad})
	assert.ErrorIs(t, err, types.ErrBadRequest)
	reviews.AssertNotCalled(t, "UpdateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFavoriteIDsParsing(t *testing.T) {
	known := uuid.New()
	prefs := map[string]any{
		"favorite_places": []any{known.String(), "not-a-uuid", 42, nil},
	}

	ids := favoriteIDs(prefs)
	require.Len(t, ids, 1)
	assert.Equal(t, known, ids[0])

	assert.Empty(t, favoriteIDs(map[string]any{}))
	assert.Empty(t, favoriteIDs(map[string]any{"favorite_places": "oops"}))
}

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	recent := types.PageRequest{Page: 1, PageSize: dashboardRecentLimit}

	t.Run("AssemblesCountsAndRecentActivity", func(t *testing.T) {
		m, svc := newTestServiceFull(t)

		m.repo.On("GetStats", mock.Anything, userID).Return(&types.UserStats{
			Itineraries:  types.ItineraryStats{Total: 4, Completed: 1},
			Reviews:      9,
			ChatSessions: 2,
		}, nil)
		m.itineraries.On("ListItineraries", mock.Anything, userID, (*types.ItineraryStatus)(nil), recent).
			Return([]types.Itinerary{{Title: "Hue weekend"}}, 4, nil)
		m.reviews.On("ListReviewsByUser", mock.Anything, userID, recent).
			Return([]types.Review{{Rating: 5}}, 9, nil)
		m.chats.On("ListByUser", mock.Anything, userID, dashboardRecentLimit).
			Return([]types.ChatSession{{Title: "Where to eat in Hoi An"}}, nil)

		dashboard, err := svc.GetDashboard(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 4, dashboard.Stats.ItinerariesCount)
		assert.Equal(t, 9, dashboard.Stats.ReviewsCount)
		assert.Equal(t, 2, dashboard.Stats.ChatSessionsCount)
		require.Len(t, dashboard.RecentItineraries, 1)
		assert.Equal(t, "Hue weekend", dashboard.RecentItineraries[0].Title)
		require.Len(t, dashboard.RecentReviews, 1)
		require.Len(t, dashboard.RecentChats, 1)
	})

	t.Run("StatsFailurePropagates", func(t *testing.T) {
		m, svc := newTestServiceFull(t)

		m.repo.On("GetStats", mock.Anything, userID).Return(nil, types.ErrNotFound)
		m.itineraries.On("ListItineraries", mock.Anything, userID, (*types.ItineraryStatus)(nil), recent).
			Return([]types.Itinerary{}, 0, nil).Maybe()
		m.reviews.On("ListReviewsByUser", mock.Anything, userID, recent).
			Return([]types.Review{}, 0, nil).Maybe()
		m.chats.On("ListByUser", mock.Anything, userID, dashboardRecentLimit).
			Return([]types.ChatSession{}, nil).Maybe()

		_, err := svc.GetDashboard(ctx, userID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestUpdatePreferencesEmptyPayloadIsARead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo, _, _, svc := newTestService(t)

	repo.On("GetPreferences", ctx, userID).Return(map[string]any{"language": "vi"}, nil)

	prefs, err := svc.UpdatePreferences(ctx, userID, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "vi", prefs["language"])
	repo.AssertNotCalled(t, "UpdatePreferences", mock.Anything, mock.Anything, mock.Anything)
}
