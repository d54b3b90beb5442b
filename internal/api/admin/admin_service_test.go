package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) CountTotals(ctx context.Context) (*DashboardTotals, error) {
	args := m.Called(ctx)
	totals, _ := args.Get(0).(*DashboardTotals)
	return totals, args.Error(1)
}

func (m *MockAdminRepo) CategoryCounts(ctx context.Context, activeOnly bool) (map[string]int, error) {
	args := m.Called(ctx, activeOnly)
	counts, _ := args.Get(0).(map[string]int)
	return counts, args.Error(1)
}

func (m *MockAdminRepo) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).([]CategoryStat)
	return stats, args.Error(1)
}

func (m *MockAdminRepo) RecentUsers(ctx context.Context, limit int) ([]types.User, error) {
	args := m.Called(ctx, limit)
	users, _ := args.Get(0).([]types.User)
	return users, args.Error(1)
}

func (m *MockAdminRepo) ListUsers(ctx context.Context, search string, page types.PageRequest) ([]types.User, int, error) {
	args := m.Called(ctx, search, page)
	users, _ := args.Get(0).([]types.User)
	return users, args.Int(1), args.Error(2)
}

func (m *MockAdminRepo) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*types.User)
	return user, args.Error(1)
}

func (m *MockAdminRepo) CountUserActivity(ctx context.Context, userID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockAdminRepo) ToggleUserActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminRepo) MakeAdmin(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*types.User)
	return user, args.Error(1)
}

func (m *MockAdminRepo) ExportUsers(ctx context.Context) ([]types.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]types.User)
	return users, args.Error(1)
}

func (m *MockAdminRepo) ListChatSessions(ctx context.Context, page types.PageRequest) ([]types.ChatSession, int, error) {
	args := m.Called(ctx, page)
	sessions, _ := args.Get(0).([]types.ChatSession)
	return sessions, args.Int(1), args.Error(2)
}

func (m *MockAdminRepo) PublicStats(ctx context.Context) (*PublicStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*PublicStats)
	return stats, args.Error(1)
}

type MockPlaceCatalog struct {
	mock.Mock
}

func (m *MockPlaceCatalog) ListPlaces(ctx context.Context, filter types.PlaceFilter, page types.PageRequest) ([]types.Place, int, error) {
	args := m.Called(ctx, filter, page)
	places, _ := args.Get(0).([]types.Place)
	return places, args.Int(1), args.Error(2)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*MockAdminRepo, *MockPlaceCatalog, *AdminServiceImpl) {
	t.Helper()
	repo := new(MockAdminRepo)
	places := new(MockPlaceCatalog)
	return repo, places, NewAdminService(repo, places, discardLogger())
}

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("AssemblesAllSections", func(t *testing.T) {
		repo, places, svc := newTestService(t)

		repo.On("CountTotals", mock.Anything).
			Return(&DashboardTotals{TotalUsers: 12, TotalPlaces: 40}, nil)
		repo.On("CategoryCounts", mock.Anything, true).
			Return(map[string]int{"restaurant": 15, "tourist_spot": 25}, nil)
		repo.On("RecentUsers", mock.Anything, recentLimit).
			Return([]types.User{{Username: "linh"}}, nil)
		places.On("ListPlaces", mock.Anything, mock.MatchedBy(func(f types.PlaceFilter) bool {
			return f.SortBy == "created_at"
		}), mock.Anything).Return([]types.Place{{Name: "Ha Long Bay"}}, 1, nil)
		places.On("ListPlaces", mock.Anything, mock.MatchedBy(func(f types.PlaceFilter) bool {
			return f.SortBy == "view_count"
		}), mock.Anything).Return([]types.Place{{Name: "Hoi An"}}, 1, nil)

		dashboard, err := svc.GetDashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, 12, dashboard.Stats.TotalUsers)
		assert.Equal(t, 25, dashboard.Stats.CategoryStats["tourist_spot"])
		require.Len(t, dashboard.RecentPlaces, 1)
		assert.Equal(t, "Ha Long Bay", dashboard.RecentPlaces[0].Name)
		require.Len(t, dashboard.PopularPlaces, 1)
		assert.Equal(t, "Hoi An", dashboard.PopularPlaces[0].Name)
	})

	t.Run("SecondCallIsServedFromCache", func(t *testing.T) {
		repo, places, svc := newTestService(t)

		repo.On("CountTotals", mock.Anything).Return(&DashboardTotals{TotalUsers: 1}, nil).Once()
		repo.On("CategoryCounts", mock.Anything, true).Return(map[string]int{}, nil).Once()
		repo.On("RecentUsers", mock.Anything, recentLimit).Return([]types.User{}, nil).Once()
		places.On("ListPlaces", mock.Anything, mock.Anything, mock.Anything).
			Return([]types.Place{}, 0, nil).Twice()

		first, err := svc.GetDashboard(ctx)
		require.NoError(t, err)
		second, err := svc.GetDashboard(ctx)
		require.NoError(t, err)

		assert.Same(t, first, second)
		repo.AssertExpectations(t)
		places.AssertExpectations(t)
	})

	t.Run("RepoFailurePropagates", func(t *testing.T) {
		repo, places, svc := newTestService(t)

		repo.On("CountTotals", mock.Anything).Return(nil, errors.New("pool exhausted"))
		repo.On("CategoryCounts", mock.Anything, true).Return(map[string]int{}, nil).Maybe()
		repo.On("RecentUsers", mock.Anything, recentLimit).Return([]types.User{}, nil).Maybe()
		places.On("ListPlaces", mock.Anything, mock.Anything, mock.Anything).
			Return([]types.Place{}, 0, nil).Maybe()

		_, err := svc.GetDashboard(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pool exhausted")
	})
}

func TestToggleUserActive(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("FlipsRegularAccount", func(t *testing.T) {
		repo, _, svc := newTestService(t)

		repo.On("GetUser", mock.Anything, userID).
			Return(&types.User{ID: userID, IsActive: true}, nil)
		repo.On("ToggleUserActive", mock.Anything, userID).Return(false, nil)

		isActive, err := svc.ToggleUserActive(ctx, userID)
		require.NoError(t, err)
		assert.False(t, isActive)
	})

	t.Run("AdminAccountIsProtected", func(t *testing.T) {
		repo, _, svc := newTestService(t)

		repo.On("GetUser", mock.Anything, userID).
			Return(&types.User{ID: userID, IsAdmin: true}, nil)

		_, err := svc.ToggleUserActive(ctx, userID)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrForbidden)
		repo.AssertNotCalled(t, "ToggleUserActive", mock.Anything, userID)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		repo, _, svc := newTestService(t)

		repo.On("GetUser", mock.Anything, userID).Return(nil, types.ErrNotFound)

		_, err := svc.ToggleUserActive(ctx, userID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestGetUserDetail(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo, _, svc := newTestService(t)
	repo.On("GetUser", mock.Anything, userID).
		Return(&types.User{ID: userID, Username: "minh"}, nil)
	repo.On("CountUserActivity", mock.Anything, userID).Return(3, 7, nil)

	detail, err := svc.GetUserDetail(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "minh", detail.User.Username)
	assert.Equal(t, 3, detail.ItinerariesCount)
	assert.Equal(t, 7, detail.ChatSessionsCount)
}

func TestExportPlacesIncludesInactive(t *testing.T) {
	ctx := context.Background()
	_, places, svc := newTestService(t)

	places.On("ListPlaces", mock.Anything, mock.MatchedBy(func(f types.PlaceFilter) bool {
		return f.IncludeInactive
	}), mock.Anything).Return([]types.Place{{Name: "Closed Museum"}}, 1, nil)

	exported, err := svc.ExportPlaces(ctx)
	require.NoError(t, err)
	require.Len(t, exported, 1)
	assert.Equal(t, "Closed Museum", exported[0].Name)
}
