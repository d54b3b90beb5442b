package place

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresPlaceRepo) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	repo := NewPostgresPlaceRepo(mockPool, slog.Default())
	return mockPool, repo
}

func placeRows(p types.Place) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "slug", "category", "description", "short_description", "address",
		"latitude", "longitude", "phone", "email", "website", "price_range", "estimated_cost",
		"main_image", "images", "tags", "features", "rating", "review_count",
		"is_active", "is_featured", "view_count", "created_at", "updated_at",
	}).AddRow(
		p.ID, p.Name, p.Slug, p.Category, p.Description, p.ShortDescription, p.Address,
		p.Latitude, p.Longitude, p.Phone, p.Email, p.Website, p.PriceRange, p.EstimatedCost,
		p.MainImage, p.Images, p.Tags, p.Features, p.Rating, p.ReviewCount,
		p.IsActive, p.IsFeatured, p.ViewCount, p.CreatedAt, p.UpdatedAt,
	)
}

func samplePlace() types.Place {
	now := time.Now()
	return types.Place{
		ID:          uuid.New(),
		Name:        "Golden Bridge",
		Slug:        "golden-bridge",
		Category:    types.CategoryTouristSpot,
		Images:      []string{},
		Tags:        []string{"scenic"},
		Features:    []string{},
		Rating:      4.5,
		ReviewCount: 12,
		IsActive:    true,
		ViewCount:   3,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestListPlacesFiltersAndPagination(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	ctx := context.Background()

	category := types.CategoryRestaurant
	filter := types.PlaceFilter{Category: &category, Search: "pho"}
	page := types.PageRequest{Page: 2, PageSize: 10}

	mockPool.ExpectQuery(`SELECT count\(\*\) FROM places`).
		WithArgs(category, "%pho%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(25))

	p := samplePlace()
	p.Category = types.CategoryRestaurant
	mockPool.ExpectQuery(`SELECT .+ FROM places WHERE is_active = TRUE AND category = \$1.+ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(category, "%pho%", 10, 10).
		WillReturnRows(placeRows(p))

	places, total, err := repo.ListPlaces(ctx, filter, page)

	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, places, 1)
	assert.Equal(t, p.ID, places[0].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetPlaceIncrementsViewCount(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	ctx := context.Background()

	p := samplePlace()
	mockPool.ExpectQuery(`UPDATE places SET view_count = view_count \+ 1`).
		WithArgs(p.ID).
		WillReturnRows(placeRows(p))

	mockPool.ExpectQuery(`SELECT r\.id, r\.place_id`).
		WithArgs(p.ID, 10).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "place_id", "user_id", "username", "rating", "title", "content",
			"helpful_count", "created_at", "updated_at",
		}))

	got, err := repo.GetPlace(ctx, p.ID)

	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Empty(t, got.Reviews)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetPlaceNotFound(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	// An inactive or missing place yields no rows from the UPDATE.
	placeID := uuid.New()
	mockPool.ExpectQuery(`UPDATE places SET view_count = view_count \+ 1`).
		WithArgs(placeID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.GetPlace(context.Background(), placeID)

	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCreateReviewDuplicateConflict(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	ctx := context.Background()

	placeID := uuid.New()
	userID := uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`SELECT EXISTS`).
		WithArgs(placeID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mockPool.ExpectQuery(`INSERT INTO reviews`).
		WithArgs(placeID, userID, 4, (*string)(nil), (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mockPool.ExpectRollback()

	_, err := repo.CreateReview(ctx, placeID, userID, types.CreateReviewParams{Rating: 4})

	assert.ErrorIs(t, err, types.ErrConflict)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestDeleteReviewRecomputesAggregate(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	ctx := context.Background()

	reviewID := uuid.New()
	userID := uuid.New()
	placeID := uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`DELETE FROM reviews WHERE id = \$1 AND user_id = \$2 RETURNING place_id`).
		WithArgs(reviewID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"place_id"}).AddRow(placeID))
	mockPool.ExpectExec(`UPDATE places SET`).
		WithArgs(placeID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	err := repo.DeleteReview(ctx, reviewID, userID)

	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSlugExists(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	mockPool.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM places WHERE slug = \$1\)`).
		WithArgs("golden-bridge").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.SlugExists(context.Background(), "golden-bridge")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
