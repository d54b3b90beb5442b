package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

var _ ItineraryRepo = (*PostgresItineraryRepo)(nil)

type ItineraryRepo interface {
	// CreateItinerary persists the plan with its promoted columns and
	// returns the new row id.
	CreateItinerary(ctx context.Context, userID uuid.UUID, plan types.ItineraryPlan, startDate *time.Time) (uuid.UUID, error)

	// GetItinerary is ownership-scoped: a row belonging to another
	// user is indistinguishable from a missing one.
	GetItinerary(ctx context.Context, itineraryID, userID uuid.UUID) (*types.Itinerary, error)

	ListItineraries(ctx context.Context, userID uuid.UUID, status *types.ItineraryStatus, page types.PageRequest) ([]types.Itinerary, int, error)
	UpdateItinerary(ctx context.Context, itineraryID, userID uuid.UUID, params types.UpdateItineraryParams, startDate *time.Time) error
	DeleteItinerary(ctx context.Context, itineraryID, userID uuid.UUID) error
}

type PostgresItineraryRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresItineraryRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresItineraryRepo {
	return &PostgresItineraryRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const itineraryColumns = `id, user_id, title, description, start_date, end_date, duration_days,
	estimated_cost, actual_cost, status, is_public, plan, view_count, created_at, updated_at`

func scanItinerary(row pgx.Row) (*types.Itinerary, error) {
	var it types.Itinerary
	var plan []byte
	err := row.Scan(&it.ID, &it.UserID, &it.Title, &it.Description, &it.StartDate, &it.EndDate,
		&it.DurationDays, &it.EstimatedCost, &it.ActualCost, &it.Status, &it.IsPublic,
		&plan, &it.ViewCount, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(plan, &it.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode itinerary plan: %w", err)
	}
	return &it, nil
}

func (r *PostgresItineraryRepo) CreateItinerary(ctx context.Context, userID uuid.UUID, plan types.ItineraryPlan, startDate *time.Time) (uuid.UUID, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "CreateItinerary", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "itineraries"),
	))
	defer span.End()

	title := plan.Title
	if title == "" {
		title = "Travel itinerary"
	}
	durationDays := plan.DurationDays
	if durationDays <= 0 {
		durationDays = 1
	}

	var endDate *time.Time
	if startDate != nil {
		e := startDate.AddDate(0, 0, durationDays-1)
		endDate = &e
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode itinerary plan: %w", err)
	}

	var id uuid.UUID
	err = r.pgpool.QueryRow(ctx,
		`INSERT INTO itineraries (user_id, title, description, start_date, end_date, duration_days, estimated_cost, plan)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		userID, title, plan.Description, startDate, endDate, durationDays, plan.EstimatedCost, planJSON).Scan(&id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return uuid.Nil, fmt.Errorf("failed to save itinerary: %w", err)
	}
	span.SetStatus(codes.Ok, "itinerary created")
	return id, nil
}

func (r *PostgresItineraryRepo) GetItinerary(ctx context.Context, itineraryID, userID uuid.UUID) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "GetItinerary", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "itineraries"),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM itineraries WHERE id = $1 AND user_id = $2`, itineraryColumns)
	it, err := scanItinerary(r.pgpool.QueryRow(ctx, query, itineraryID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "itinerary not found")
			return nil, fmt.Errorf("itinerary %s: %w", itineraryID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to fetch itinerary: %w", err)
	}
	span.SetStatus(codes.Ok, "itinerary fetched")
	return it, nil
}

func (r *PostgresItineraryRepo) ListItineraries(ctx context.Context, userID uuid.UUID, status *types.ItineraryStatus, page types.PageRequest) ([]types.Itinerary, int, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "ListItineraries", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "itineraries"),
	))
	defer span.End()

	where := `WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		where += ` AND status = $2`
		args = append(args, *status)
	}

	var total int
	countQuery := `SELECT count(*) FROM itineraries ` + where
	if err := r.pgpool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return nil, 0, fmt.Errorf("failed to count itineraries: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM itineraries %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, itineraryColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, 0, fmt.Errorf("failed to list itineraries: %w", err)
	}
	defer rows.Close()

	itineraries := []types.Itinerary{}
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scan failed")
			return nil, 0, fmt.Errorf("failed to scan itinerary: %w", err)
		}
		itineraries = append(itineraries, *it)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rows iteration failed")
		return nil, 0, fmt.Errorf("failed to read itineraries: %w", err)
	}
	span.SetStatus(codes.Ok, "itineraries listed")
	return itineraries, total, nil
}

func (r *PostgresItineraryRepo) UpdateItinerary(ctx context.Context, itineraryID, userID uuid.UUID, params types.UpdateItineraryParams, startDate *time.Time) error {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "UpdateItinerary", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "itineraries"),
	))
	defer span.End()

	set := []string{}
	args := []any{itineraryID, userID}
	argID := 3
	add := func(clause string, value any) {
		set = append(set, fmt.Sprintf(clause, argID))
		args = append(args, value)
		argID++
	}

	if params.Title != nil {
		add("title = $%d", *params.Title)
	}
	if params.Description != nil {
		add("description = $%d", *params.Description)
	}
	if params.StartDate != nil {
		add("start_date = $%d", startDate)
	}
	if params.Status != nil {
		add("status = $%d", *params.Status)
	}
	if params.ActualCost != nil {
		add("actual_cost = $%d", *params.ActualCost)
	}
	if params.IsPublic != nil {
		add("is_public = $%d", *params.IsPublic)
	}
	if params.Plan != nil {
		planJSON, err := json.Marshal(params.Plan)
		if err != nil {
			return fmt.Errorf("failed to encode itinerary plan: %w", err)
		}
		add("plan = $%d", planJSON)
		add("duration_days = $%d", max(params.Plan.DurationDays, 1))
		add("estimated_cost = $%d", params.Plan.EstimatedCost)
	}

	if len(set) == 0 {
		span.SetStatus(codes.Ok, "nothing to update")
		return nil
	}
	set = append(set, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE itineraries SET %s WHERE id = $1 AND user_id = $2`,
		strings.Join(set, ", "))
	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return fmt.Errorf("failed to update itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Ok, "itinerary not found")
		return fmt.Errorf("itinerary %s: %w", itineraryID, types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "itinerary updated")
	return nil
}

func (r *PostgresItineraryRepo) DeleteItinerary(ctx context.Context, itineraryID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "DeleteItinerary", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "itineraries"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM itineraries WHERE id = $1 AND user_id = $2`,
		itineraryID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Ok, "itinerary not found")
		return fmt.Errorf("itinerary %s: %w", itineraryID, types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "itinerary deleted")
	return nil
}
