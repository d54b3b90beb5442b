package place

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

var _ PlaceRepo = (*MockPlaceRepo)(nil)

// MockPlaceRepo is a mock implementation of PlaceRepo
type MockPlaceRepo struct {
	mock.Mock
}

func (m *MockPlaceRepo) ListPlaces(ctx context.Context, filter types.PlaceFilter, page types.PageRequest) ([]types.Place, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.Place), args.Int(1), args.Error(2)
}

func (m *MockPlaceRepo) GetPlace(ctx context.Context, placeID uuid.UUID) (*types.Place, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Place), args.Error(1)
}

func (m *MockPlaceRepo) GetPlacesByIDs(ctx context.Context, ids []uuid.UUID) ([]types.Place, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockPlaceRepo) CreatePlace(ctx context.Context, params types.CreatePlaceParams, slug string, lat, lng *float64, mainImage *string) (*types.Place, error) {
	args := m.Called(ctx, params, slug, lat, lng, mainImage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Place), args.Error(1)
}

func (m *MockPlaceRepo) UpdatePlace(ctx context.Context, placeID uuid.UUID, params types.UpdatePlaceParams) error {
	args := m.Called(ctx, placeID, params)
	return args.Error(0)
}

func (m *MockPlaceRepo) SoftDeletePlace(ctx context.Context, placeID uuid.UUID) error {
	args := m.Called(ctx, placeID)
	return args.Error(0)
}

func (m *MockPlaceRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlaceRepo) CreateReview(ctx context.Context, placeID, userID uuid.UUID, params types.CreateReviewParams) (*types.Review, error) {
	args := m.Called(ctx, placeID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}

func (m *MockPlaceRepo) UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, params types.UpdateReviewParams) (*types.Review, error) {
	args := m.Called(ctx, reviewID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}

func (m *MockPlaceRepo) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error {
	args := m.Called(ctx, reviewID, userID)
	return args.Error(0)
}

func (m *MockPlaceRepo) ListReviewsByUser(ctx context.Context, userID uuid.UUID, page types.PageRequest) ([]types.Review, int, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.Review), args.Int(1), args.Error(2)
}

// MockGeocoder is a mock implementation of Geocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(float64), args.Get(1).(float64), args.Error(2)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "golden-bridge", Slugify("Golden Bridge"))
	assert.Equal(t, "pho-24-7", Slugify("  Pho 24/7!  "))
	assert.Equal(t, "place", Slugify("???"))
}

func TestCreatePlaceSlugDedupe(t *testing.T) {
	mockRepo := new(MockPlaceRepo)
	service := NewPlaceService(mockRepo, nil, slog.Default())
	ctx := context.Background()

	params := types.CreatePlaceParams{Name: "Golden Bridge", Category: types.CategoryTouristSpot}
	created := &types.Place{ID: uuid.New(), Name: "Golden Bridge", Slug: "golden-bridge-2"}

	// First slug taken, second free.
	mockRepo.On("SlugExists", ctx, "golden-bridge").Return(true, nil).Once()
	mockRepo.On("SlugExists", ctx, "golden-bridge-2").Return(false, nil).Once()
	mockRepo.On("CreatePlace", ctx, params, "golden-bridge-2", (*float64)(nil), (*float64)(nil), (*string)(nil)).
		Return(created, nil).Once()

	place, err := service.CreatePlace(ctx, params, nil)

	require.NoError(t, err)
	assert.Equal(t, "golden-bridge-2", place.Slug)
	mockRepo.AssertExpectations(t)
}

func TestCreatePlaceGeocodeFailureIsNonFatal(t *testing.T) {
	mockRepo := new(MockPlaceRepo)
	mockGeo := new(MockGeocoder)
	service := NewPlaceService(mockRepo, mockGeo, slog.Default())
	ctx := context.Background()

	address := "1 Hang Ma Street, Hanoi"
	params := types.CreatePlaceParams{
		Name:     "Old Quarter Hotel",
		Category: types.CategoryAccommodation,
		Address:  &address,
	}
	created := &types.Place{ID: uuid.New(), Name: params.Name, Slug: "old-quarter-hotel"}

	mockRepo.On("SlugExists", ctx, "old-quarter-hotel").Return(false, nil).Once()
	mockGeo.On("Geocode", ctx, address).Return(0.0, 0.0, errors.New("upstream timeout")).Once()
	mockRepo.On("CreatePlace", ctx, params, "old-quarter-hotel", (*float64)(nil), (*float64)(nil), (*string)(nil)).
		Return(created, nil).Once()

	place, err := service.CreatePlace(ctx, params, nil)

	require.NoError(t, err)
	assert.Equal(t, created, place)
	mockRepo.AssertExpectations(t)
	mockGeo.AssertExpectations(t)
}

func TestCreatePlaceGeocodeSuccessSetsCoordinates(t *testing.T) {
	mockRepo := new(MockPlaceRepo)
	mockGeo := new(MockGeocoder)
	service := NewPlaceService(mockRepo, mockGeo, slog.Default())
	ctx := context.Background()

	address := "Ba Na Hills, Da Nang"
	params := types.CreatePlaceParams{
		Name:     "Golden Bridge",
		Category: types.CategoryTouristSpot,
		Address:  &address,
	}
	lat, lng := 15.9977, 107.9881
	created := &types.Place{ID: uuid.New(), Slug: "golden-bridge", Latitude: &lat, Longitude: &lng}

	mockRepo.On("SlugExists", ctx, "golden-bridge").Return(false, nil).Once()
	mockGeo.On("Geocode", ctx, address).Return(lat, lng, nil).Once()
	mockRepo.On("CreatePlace", ctx, params, "golden-bridge", &lat, &lng, (*string)(nil)).
		Return(created, nil).Once()

	place, err := service.CreatePlace(ctx, params, nil)

	require.NoError(t, err)
	assert.Equal(t, &lat, place.Latitude)
	mockRepo.AssertExpectations(t)
	mockGeo.AssertExpectations(t)
}

func TestCreatePlaceInvalidCategory(t *testing.T) {
	service := NewPlaceService(new(MockPlaceRepo), nil, slog.Default())

	_, err := service.CreatePlace(context.Background(), types.CreatePlaceParams{
		Name:     "Somewhere",
		Category: "museum",
	}, nil)

	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func TestAddReviewRatingBounds(t *testing.T) {
	mockRepo := new(MockPlaceRepo)
	service := NewPlaceService(mockRepo, nil, slog.Default())
	ctx := context.Background()
	placeID, userID := uuid.New(), uuid.New()

	for _, rating := range []int{0, 6, -1} {
		_, err := service.AddReview(ctx, placeID, userID, types.CreateReviewParams{Rating: rating})
		assert.ErrorIs(t, err, types.ErrBadRequest)
	}
	mockRepo.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	expected := &types.Review{ID: uuid.New(), PlaceID: placeID, UserID: userID, Rating: 5}
	mockRepo.On("CreateReview", ctx, placeID, userID, types.CreateReviewParams{Rating: 5}).
		Return(expected, nil).Once()

	review, err := service.AddReview(ctx, placeID, userID, types.CreateReviewParams{Rating: 5})

	require.NoError(t, err)
	assert.Equal(t, expected, review)
	mockRepo.AssertExpectations(t)
}
