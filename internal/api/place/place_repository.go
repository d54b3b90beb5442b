package place

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

var _ PlaceRepo = (*PostgresPlaceRepo)(nil)

// PgxPool is the slice of pgxpool.Pool the repository uses; narrowed to
// an interface so tests can substitute pgxmock.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ PgxPool = (*pgxpool.Pool)(nil)

// PlaceRepo is the persistence contract for the place catalog and its
// reviews.
type PlaceRepo interface {
	ListPlaces(ctx context.Context, filter types.PlaceFilter, page types.PageRequest) ([]types.Place, int, error)

	// GetPlace increments the view counter and returns the place with
	// its latest reviews attached.
	GetPlace(ctx context.Context, placeID uuid.UUID) (*types.Place, error)

	// GetPlacesByIDs returns the active places among ids, in no
	// particular order. Unknown ids are simply absent from the result.
	GetPlacesByIDs(ctx context.Context, ids []uuid.UUID) ([]types.Place, error)

	CreatePlace(ctx context.Context, params types.CreatePlaceParams, slug string, lat, lng *float64, mainImage *string) (*types.Place, error)
	UpdatePlace(ctx context.Context, placeID uuid.UUID, params types.UpdatePlaceParams) error
	SoftDeletePlace(ctx context.Context, placeID uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)

	// CreateReview inserts the review and recomputes the place's rating
	// and review_count in the same transaction. Returns
	// types.ErrConflict when the user already reviewed the place.
	CreateReview(ctx context.Context, placeID, userID uuid.UUID, params types.CreateReviewParams) (*types.Review, error)
	UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, params types.UpdateReviewParams) (*types.Review, error)
	DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error
	ListReviewsByUser(ctx context.Context, userID uuid.UUID, page types.PageRequest) ([]types.Review, int, error)
}

type PostgresPlaceRepo struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewPostgresPlaceRepo(pgpool PgxPool, logger *slog.Logger) *PostgresPlaceRepo {
	return &PostgresPlaceRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const placeColumns = `id, name, slug, category, description, short_description, address,
       latitude, longitude, phone, email, website, price_range, estimated_cost,
       main_image, images, tags, features, rating, review_count,
       is_active, is_featured, view_count, created_at, updated_at`

func scanPlace(row pgx.Row) (*types.Place, error) {
	var p types.Place
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Category, &p.Description, &p.ShortDescription, &p.Address,
		&p.Latitude, &p.Longitude, &p.Phone, &p.Email, &p.Website, &p.PriceRange, &p.EstimatedCost,
		&p.MainImage, &p.Images, &p.Tags, &p.Features, &p.Rating, &p.ReviewCount,
		&p.IsActive, &p.IsFeatured, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var sortColumns = map[string]string{
	"name":       "name",
	"rating":     "rating",
	"view_count": "view_count",
	"created_at": "created_at",
}

func (r *PostgresPlaceRepo) ListPlaces(ctx context.Context, filter types.PlaceFilter, page types.PageRequest) ([]types.Place, int, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "ListPlaces", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "places"),
	))
	defer span.End()

	var where []string
	var args []interface{}
	argID := 1

	if !filter.IncludeInactive {
		where = append(where, "is_active = TRUE")
	}
	if filter.Category != nil {
		where = append(where, fmt.Sprintf("category = $%d", argID))
		args = append(args, *filter.Category)
		argID++
	}
	if filter.Featured != nil {
		where = append(where, fmt.Sprintf("is_featured = $%d", argID))
		args = append(args, *filter.Featured)
		argID++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d OR address ILIKE $%d)", argID, argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT count(*) FROM places %s", whereClause)
	if err := r.pgpool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB COUNT failed")
		return nil, 0, fmt.Errorf("database error counting places: %w", err)
	}

	sortCol, ok := sortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	query := fmt.Sprintf("SELECT %s FROM places %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		placeColumns, whereClause, sortCol, direction, argID, argID+1)
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, 0, fmt.Errorf("database error listing places: %w", err)
	}
	defer rows.Close()

	var places []types.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("database error scanning place: %w", err)
		}
		places = append(places, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database error iterating places: %w", err)
	}

	return places, total, nil
}

func (r *PostgresPlaceRepo) GetPlace(ctx context.Context, placeID uuid.UUID) (*types.Place, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "GetPlace", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "places"),
		attribute.String("db.place.id", placeID.String()),
	))
	defer span.End()

	// View count and fetch in one statement.
	query := fmt.Sprintf(`
		UPDATE places SET view_count = view_count + 1
		WHERE id = $1 AND is_active = TRUE
		RETURNING %s`, placeColumns)

	p, err := scanPlace(r.pgpool.QueryRow(ctx, query, placeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("place not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error fetching place: %w", err)
	}

	reviews, err := r.latestReviews(ctx, placeID, 10)
	if err != nil {
		return nil, err
	}
	p.Reviews = reviews

	return p, nil
}

func (r *PostgresPlaceRepo) latestReviews(ctx context.Context, placeID uuid.UUID, limit int) ([]types.Review, error) {
	rows, err := r.pgpool.Query(ctx, `
		SELECT r.id, r.place_id, r.user_id, u.username, r.rating, r.title, r.content,
		       r.helpful_count, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.place_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2`, placeID, limit)
	if err != nil {
		return nil, fmt.Errorf("database error fetching reviews: %w", err)
	}
	defer rows.Close()

	var reviews []types.Review
	for rows.Next() {
		var rev types.Review
		if err := rows.Scan(&rev.ID, &rev.PlaceID, &rev.UserID, &rev.Username, &rev.Rating,
			&rev.Title, &rev.Content, &rev.HelpfulCount, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *PostgresPlaceRepo) GetPlacesByIDs(ctx context.Context, ids []uuid.UUID) ([]types.Place, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "GetPlacesByIDs", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "places"),
		attribute.Int("place.count", len(ids)),
	))
	defer span.End()

	query := fmt.Sprintf("SELECT %s FROM places WHERE id = ANY($1) AND is_active = TRUE", placeColumns)
	rows, err := r.pgpool.Query(ctx, query, ids)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error fetching places by ids: %w", err)
	}
	defer rows.Close()

	var places []types.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("database error scanning place: %w", err)
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}

func (r *PostgresPlaceRepo) CreatePlace(ctx context.Context, params types.CreatePlaceParams, slug string, lat, lng *float64, mainImage *string) (*types.Place, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "CreatePlace", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "places"),
	))
	defer span.End()

	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}
	features := params.Features
	if features == nil {
		features = []string{}
	}

	query := fmt.Sprintf(`
		INSERT INTO places (name, slug, category, description, short_description, address,
		                    latitude, longitude, phone, email, website, price_range,
		                    estimated_cost, main_image, tags, features, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING %s`, placeColumns)

	p, err := scanPlace(r.pgpool.QueryRow(ctx, query,
		params.Name, slug, params.Category, params.Description, params.ShortDescription, params.Address,
		lat, lng, params.Phone, params.Email, params.Website, params.PriceRange,
		params.EstimatedCost, mainImage, tags, features, params.IsFeatured))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.SetStatus(codes.Error, "unique violation")
			return nil, fmt.Errorf("place slug already exists: %w", types.ErrConflict)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating place: %w", err)
	}

	span.SetStatus(codes.Ok, "Place created")
	return p, nil
}

func (r *PostgresPlaceRepo) UpdatePlace(ctx context.Context, placeID uuid.UUID, params types.UpdatePlaceParams) error {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "UpdatePlace", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "places"),
		attribute.String("db.place.id", placeID.String()),
	))
	defer span.End()

	var setClauses []string
	var args []interface{}
	argID := 1

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if params.Name != nil {
		add("name", *params.Name)
	}
	if params.Category != nil {
		add("category", *params.Category)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.ShortDescription != nil {
		add("short_description", *params.ShortDescription)
	}
	if params.Address != nil {
		add("address", *params.Address)
	}
	if params.Latitude != nil {
		add("latitude", *params.Latitude)
	}
	if params.Longitude != nil {
		add("longitude", *params.Longitude)
	}
	if params.Phone != nil {
		add("phone", *params.Phone)
	}
	if params.Email != nil {
		add("email", *params.Email)
	}
	if params.Website != nil {
		add("website", *params.Website)
	}
	if params.PriceRange != nil {
		add("price_range", *params.PriceRange)
	}
	if params.EstimatedCost != nil {
		add("estimated_cost", *params.EstimatedCost)
	}
	if params.MainImage != nil {
		add("main_image", *params.MainImage)
	}
	if params.Tags != nil {
		add("tags", params.Tags)
	}
	if params.Features != nil {
		add("features", params.Features)
	}
	if params.IsFeatured != nil {
		add("is_featured", *params.IsFeatured)
	}
	if params.IsActive != nil {
		add("is_active", *params.IsActive)
	}

	if len(setClauses) == 0 {
		return nil
	}

	add("updated_at", time.Now())
	args = append(args, placeID)

	query := fmt.Sprintf("UPDATE places SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating place: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("place not found for update: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Place updated")
	return nil
}

func (r *PostgresPlaceRepo) SoftDeletePlace(ctx context.Context, placeID uuid.UUID) error {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "SoftDeletePlace", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "places"),
		attribute.String("db.place.id", placeID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		"UPDATE places SET is_active = FALSE, updated_at = $1 WHERE id = $2 AND is_active = TRUE",
		time.Now(), placeID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("database error deleting place: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("place not found: %w", types.ErrNotFound)
	}
	return nil
}

func (r *PostgresPlaceRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM places WHERE slug = $1)", slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("database error checking slug: %w", err)
	}
	return exists, nil
}

// recomputePlaceRating refreshes the aggregate columns from the reviews
// table inside the caller's transaction. Recomputing instead of
// incrementing keeps the aggregate exact after any review mutation.
func recomputePlaceRating(ctx context.Context, tx pgx.Tx, placeID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE places SET
			rating = COALESCE((SELECT round(avg(rating)::numeric, 1) FROM reviews WHERE place_id = $1), 0),
			review_count = (SELECT count(*) FROM reviews WHERE place_id = $1),
			updated_at = $2
		WHERE id = $1`, placeID, time.Now())
	if err != nil {
		return fmt.Errorf("database error recomputing place rating: %w", err)
	}
	return nil
}

func (r *PostgresPlaceRepo) CreateReview(ctx context.Context, placeID, userID uuid.UUID, params types.CreateReviewParams) (*types.Review, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "CreateReview", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("db.place.id", placeID.String()),
	))
	defer span.End()

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("database error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM places WHERE id = $1 AND is_active = TRUE)", placeID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("database error checking place: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("place not found: %w", types.ErrNotFound)
	}

	var rev types.Review
	err = tx.QueryRow(ctx, `
		INSERT INTO reviews (place_id, user_id, rating, title, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, place_id, user_id, rating, title, content, helpful_count, created_at, updated_at`,
		placeID, userID, params.Rating, params.Title, params.Content).
		Scan(&rev.ID, &rev.PlaceID, &rev.UserID, &rev.Rating, &rev.Title, &rev.Content,
			&rev.HelpfulCount, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.SetStatus(codes.Error, "unique violation")
			return nil, fmt.Errorf("user already reviewed this place: %w", types.ErrConflict)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating review: %w", err)
	}

	if err := recomputePlaceRating(ctx, tx, placeID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("database error committing review: %w", err)
	}

	span.SetStatus(codes.Ok, "Review created")
	return &rev, nil
}

func (r *PostgresPlaceRepo) UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, params types.UpdateReviewParams) (*types.Review, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "UpdateReview", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("db.review.id", reviewID.String()),
	))
	defer span.End()

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("database error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var setClauses []string
	var args []interface{}
	argID := 1

	if params.Rating != nil {
		setClauses = append(setClauses, fmt.Sprintf("rating = $%d", argID))
		args = append(args, *params.Rating)
		argID++
	}
	if params.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *params.Title)
		argID++
	}
	if params.Content != nil {
		setClauses = append(setClauses, fmt.Sprintf("content = $%d", argID))
		args = append(args, *params.Content)
		argID++
	}
	if len(setClauses) == 0 {
		return nil, fmt.Errorf("no review fields to update: %w", types.ErrBadRequest)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	// Ownership enforced in the WHERE clause: a foreign review is
	// indistinguishable from a missing one.
	args = append(args, reviewID, userID)
	query := fmt.Sprintf(`
		UPDATE reviews SET %s WHERE id = $%d AND user_id = $%d
		RETURNING id, place_id, user_id, rating, title, content, helpful_count, created_at, updated_at`,
		strings.Join(setClauses, ", "), argID, argID+1)

	var rev types.Review
	err = tx.QueryRow(ctx, query, args...).
		Scan(&rev.ID, &rev.PlaceID, &rev.UserID, &rev.Rating, &rev.Title, &rev.Content,
			&rev.HelpfulCount, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("review not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("database error updating review: %w", err)
	}

	if err := recomputePlaceRating(ctx, tx, rev.PlaceID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("database error committing review update: %w", err)
	}
	return &rev, nil
}

func (r *PostgresPlaceRepo) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "DeleteReview", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("db.review.id", reviewID.String()),
	))
	defer span.End()

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("database error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var placeID uuid.UUID
	err = tx.QueryRow(ctx,
		"DELETE FROM reviews WHERE id = $1 AND user_id = $2 RETURNING place_id",
		reviewID, userID).Scan(&placeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("review not found: %w", types.ErrNotFound)
		}
		span.RecordError(err)
		return fmt.Errorf("database error deleting review: %w", err)
	}

	if err := recomputePlaceRating(ctx, tx, placeID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("database error committing review delete: %w", err)
	}
	return nil
}

func (r *PostgresPlaceRepo) ListReviewsByUser(ctx context.Context, userID uuid.UUID, page types.PageRequest) ([]types.Review, int, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "ListReviewsByUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	var total int
	if err := r.pgpool.QueryRow(ctx,
		"SELECT count(*) FROM reviews WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("database error counting reviews: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, `
		SELECT r.id, r.place_id, r.user_id, u.username, r.rating, r.title, r.content,
		       r.helpful_count, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`, userID, page.PageSize, page.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("database error listing reviews: %w", err)
	}
	defer rows.Close()

	var reviews []types.Review
	for rows.Next() {
		var rev types.Review
		if err := rows.Scan(&rev.ID, &rev.PlaceID, &rev.UserID, &rev.Username, &rev.Rating,
			&rev.Title, &rev.Content, &rev.HelpfulCount, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("database error scanning review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, total, rows.Err()
}
