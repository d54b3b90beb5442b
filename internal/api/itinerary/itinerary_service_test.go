package itinerary

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

type MockItineraryRepo struct {
	mock.Mock
}

func (m *MockItineraryRepo) CreateItinerary(ctx context.Context, userID uuid.UUID, plan types.ItineraryPlan, startDate *time.Time) (uuid.UUID, error) {
	args := m.Called(ctx, userID, plan, startDate)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockItineraryRepo) GetItinerary(ctx context.Context, itineraryID, userID uuid.UUID) (*types.Itinerary, error) {
	args := m.Called(ctx, itineraryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Itinerary), args.Error(1)
}

func (m *MockItineraryRepo) ListItineraries(ctx context.Context, userID uuid.UUID, status *types.ItineraryStatus, page types.PageRequest) ([]types.Itinerary, int, error) {
	args := m.Called(ctx, userID, status, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]types.Itinerary), args.Int(1), args.Error(2)
}

func (m *MockItineraryRepo) UpdateItinerary(ctx context.Context, itineraryID, userID uuid.UUID, params types.UpdateItineraryParams, startDate *time.Time) error {
	args := m.Called(ctx, itineraryID, userID, params, startDate)
	return args.Error(0)
}

func (m *MockItineraryRepo) DeleteItinerary(ctx context.Context, itineraryID, userID uuid.UUID) error {
	args := m.Called(ctx, itineraryID, userID)
	return args.Error(0)
}

type MockPlanner struct {
	mock.Mock
}

func (m *MockPlanner) GenerateItinerary(ctx context.Context, prefs types.ItineraryPreference) (*types.ItineraryPlan, error) {
	args := m.Called(ctx, prefs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ItineraryPlan), args.Error(1)
}

func (m *MockPlanner) EstimateCost(ctx context.Context, plan types.ItineraryPlan) (*types.CostEstimate, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.CostEstimate), args.Error(1)
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

func newTestService(t *testing.T) (*MockItineraryRepo, *MockPlanner, *MockPlaceSource, *ItineraryServiceImpl) {
	t.Helper()
	repo := new(MockItineraryRepo)
	planner := new(MockPlanner)
	places := new(MockPlaceSource)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return repo, planner, places, NewItineraryService(repo, planner, places, logger)
}

func TestGenerateSmartItinerary(t *testing.T) {
	ctx := context.Background()

	t.Run("LinksActivitiesToSelectedPlaces", func(t *testing.T) {
		repo, planner, places, svc := newTestService(t)
		_ = repo

		placeID := uuid.New()
		lat, lng := 16.463, 107.590
		places.On("GetPlacesByIDs", ctx, mock.Anything).Return([]types.Place{{
			ID:        placeID,
			Name:      "Imperial City",
			Category:  types.CategoryTouristSpot,
			Latitude:  &lat,
			Longitude: &lng,
		}}, nil)

		planner.On("GenerateItinerary", ctx, mock.MatchedBy(func(p types.ItineraryPreference) bool {
			return len(p.SelectedPlaces) == 1 && p.SelectedPlaces[0].Name == "Imperial City"
		})).Return(&types.ItineraryPlan{
			Title: "Hue heritage day",
			Days: []types.ItineraryDay{{
				Day: 1,
				Activities: []types.ItineraryActivity{
					{Activity: "Morning walk", Location: "Imperial City, Hue", EstimatedCost: 200000},
					{Activity: "Lunch", Location: "local restaurant", EstimatedCost: 150000},
				},
			}},
		}, nil)

		plan, err := svc.GenerateSmartItinerary(ctx, types.ItineraryPreference{Duration: 1, Location: "Hue"}, []uuid.UUID{placeID})
		require.NoError(t, err)

		linked := plan.Days[0].Activities[0]
		require.NotNil(t, linked.PlaceID)
		assert.Equal(t, placeID, *linked.PlaceID)
		require.NotNil(t, linked.PlaceCategory)
		assert.Equal(t, string(types.CategoryTouristSpot), *linked.PlaceCategory)
		assert.Equal(t, &lat, linked.Latitude)
		assert.Nil(t, plan.Days[0].Activities[1].PlaceID)

		require.NotNil(t, plan.Preferences)
		assert.Equal(t, "Hue", plan.Preferences.Location)
		assert.Nil(t, plan.Preferences.SelectedPlaces)
		assert.NotNil(t, plan.GeneratedAt)
	})

	t.Run("RecomputesMissingTotalFromActivities", func(t *testing.T) {
		_, planner, _, svc := newTestService(t)

		planner.On("GenerateItinerary", ctx, mock.Anything).Return(&types.ItineraryPlan{
			Days: []types.ItineraryDay{
				{Day: 1, Activities: []types.ItineraryActivity{{EstimatedCost: 100}, {EstimatedCost: 50}}},
				{Day: 2, Activities: []types.ItineraryActivity{{EstimatedCost: 75}}},
			},
		}, nil)

		plan, err := svc.GenerateSmartItinerary(ctx, types.ItineraryPreference{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 225.0, plan.EstimatedCost)
	})

	t.Run("KeepsModelProvidedTotal", func(t *testing.T) {
		_, planner, _, svc := newTestService(t)

		planner.On("GenerateItinerary", ctx, mock.Anything).Return(&types.ItineraryPlan{
			EstimatedCost: 999,
			Days: []types.ItineraryDay{
				{Day: 1, Activities: []types.ItineraryActivity{{EstimatedCost: 100}}},
			},
		}, nil)

		plan, err := svc.GenerateSmartItinerary(ctx, types.ItineraryPreference{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 999.0, plan.EstimatedCost)
	})

	t.Run("UnknownSelectedPlacesAreDropped", func(t *testing.T) {
		_, planner, places, svc := newTestService(t)

		places.On("GetPlacesByIDs", ctx, mock.Anything).Return([]types.Place{}, nil)
		planner.On("GenerateItinerary", ctx, mock.MatchedBy(func(p types.ItineraryPreference) bool {
			return len(p.SelectedPlaces) == 0
		})).Return(&types.ItineraryPlan{}, nil)

		_, err := svc.GenerateSmartItinerary(ctx, types.ItineraryPreference{}, []uuid.UUID{uuid.New(), uuid.New()})
		require.NoError(t, err)
		planner.AssertExpectations(t)
	})
}

func TestSaveItineraryDateHandling(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo, _, _, svc := newTestService(t)
	id := uuid.New()
	repo.On("CreateItinerary", ctx, userID, mock.Anything, mock.MatchedBy(func(d *time.Time) bool {
		return d != nil && d.Format("2006-01-02") == "2026-09-01"
	})).Return(id, nil)

	got, err := svc.SaveItinerary(ctx, userID, types.ItineraryPlan{Title: "t", StartDate: "2026-09-01"})
	require.NoError(t, err)
	assert.Equal(t, id, got)
	repo.AssertExpectations(t)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *string // formatted 2006-01-02T15:04:05Z07:00, nil means unparseable
	}{
		{"Empty", "", nil},
		{"BareDate", "2026-09-01", strPtr("2026-09-01T00:00:00Z")},
		{"ISOWithZ", "2026-09-01T08:30:00Z", strPtr("2026-09-01T08:30:00Z")},
		{"ISOWithOffset", "2026-09-01T08:30:00+07:00", strPtr("2026-09-01T08:30:00+07:00")},
		{"SlashFormat", "01/09/2026", nil},
		{"Garbage", "next tuesday", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, got.Format(time.RFC3339))
		})
	}
}

func TestListItinerariesRejectsUnknownStatus(t *testing.T) {
	_, _, _, svc := newTestService(t)

	bad := types.ItineraryStatus("archived")
	_, err := svc.ListItineraries(context.Background(), uuid.New(), &bad, types.PageRequest{Page: 1, PageSize: 10})
	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func strPtr(s string) *string { return &s }
