package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

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

var _ AdminRepo = (*PostgresAdminRepo)(nil)

type AdminRepo interface {
	CountTotals(ctx context.Context) (*DashboardTotals, error)
	CategoryCounts(ctx context.Context, activeOnly bool) (map[string]int, error)
	CategoryStats(ctx context.Context) ([]CategoryStat, error)

	RecentUsers(ctx context.Context, limit int) ([]types.User, error)
	ListUsers(ctx context.Context, search string, page types.PageRequest) ([]types.User, int, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
	CountUserActivity(ctx context.Context, userID uuid.UUID) (itineraries, chatSessions int, err error)

	// ToggleUserActive flips is_active and returns the new value.
	ToggleUserActive(ctx context.Context, userID uuid.UUID) (bool, error)
	MakeAdmin(ctx context.Context, userID uuid.UUID) (*types.User, error)

	ExportUsers(ctx context.Context) ([]types.User, error)

	ListChatSessions(ctx context.Context, page types.PageRequest) ([]types.ChatSession, int, error)
	PublicStats(ctx context.Context) (*PublicStats, error)
}

type PostgresAdminRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAdminRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresAdminRepo {
	return &PostgresAdminRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = `id, username, email, password_hash, full_name, phone, bio, avatar_url,
	preferences, is_active, is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone,
		&u.Bio, &u.AvatarURL, &u.Preferences, &u.IsActive, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresAdminRepo) CountTotals(ctx context.Context) (*DashboardTotals, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "CountTotals", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
	))
	defer span.End()

	var totals DashboardTotals
	err := r.pgpool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM places),
			(SELECT count(*) FROM places WHERE is_active = TRUE),
			(SELECT count(*) FROM itineraries),
			(SELECT count(*) FROM chat_sessions),
			(SELECT count(*) FROM users WHERE created_at >= now() - INTERVAL '30 days')`).
		Scan(&totals.TotalUsers, &totals.TotalPlaces, &totals.ActivePlaces,
			&totals.TotalItineraries, &totals.TotalChatSessions, &totals.NewUsers30Days)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to count totals: %w", err)
	}
	span.SetStatus(codes.Ok, "totals counted")
	return &totals, nil
}

func (r *PostgresAdminRepo) CategoryCounts(ctx context.Context, activeOnly bool) (map[string]int, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "CategoryCounts", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "places"),
	))
	defer span.End()

	query := `SELECT category, count(*) FROM places`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` GROUP BY category`

	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scan failed")
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = count
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rows iteration failed")
		return nil, fmt.Errorf("failed to read category counts: %w", err)
	}
	span.SetStatus(codes.Ok, "categories counted")
	return counts, nil
}

func (r *PostgresAdminRepo) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "CategoryStats", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "places"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `
		SELECT category, count(*),
			COALESCE(round(avg(rating)::numeric, 1), 0),
			COALESCE(sum(view_count), 0)
		FROM places
		WHERE is_active = TRUE
		GROUP BY category
		ORDER BY category`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to query category stats: %w", err)
	}
	defer rows.Close()

	stats := []CategoryStat{}
	for rows.Next() {
		var s CategoryStat
		if err := rows.Scan(&s.Category, &s.Count, &s.AvgRating, &s.TotalViews); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scan failed")
			return nil, fmt.Errorf("failed to scan category stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rows iteration failed")
		return nil, fmt.Errorf("failed to read category stats: %w", err)
	}
	span.SetStatus(codes.Ok, "category stats queried")
	return stats, nil
}

func (r *PostgresAdminRepo) RecentUsers(ctx context.Context, limit int) ([]types.User, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "RecentUsers", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC LIMIT $1`, userColumns)
	users, err := r.queryUsers(ctx, query, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "recent users queried")
	return users, nil
}

func (r *PostgresAdminRepo) ListUsers(ctx context.Context, search string, page types.PageRequest) ([]types.User, int, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "ListUsers", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	where := ""
	args := []any{}
	if search != "" {
		where = `WHERE username ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pgpool.QueryRow(ctx, `SELECT count(*) FROM users `+where, args...).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.PageSize, page.Offset())

	users, err := r.queryUsers(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, 0, err
	}
	span.SetStatus(codes.Ok, "users listed")
	return users, total, nil
}

func (r *PostgresAdminRepo) queryUsers(ctx context.Context, query string, args ...any) ([]types.User, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}

func (r *PostgresAdminRepo) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "GetUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	u, err := scanUser(r.pgpool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "user not found")
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	span.SetStatus(codes.Ok, "user fetched")
	return u, nil
}

func (r *PostgresAdminRepo) CountUserActivity(ctx context.Context, userID uuid.UUID) (int, int, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "CountUserActivity", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
	))
	defer span.End()

	var itineraries, chatSessions int
	err := r.pgpool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM itineraries WHERE user_id = $1),
			(SELECT count(*) FROM chat_sessions WHERE user_id = $1)`,
		userID).Scan(&itineraries, &chatSessions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return 0, 0, fmt.Errorf("failed to count user activity: %w", err)
	}
	span.SetStatus(codes.Ok, "activity counted")
	return itineraries, chatSessions, nil
}

func (r *PostgresAdminRepo) ToggleUserActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "ToggleUserActive", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var isActive bool
	err := r.pgpool.QueryRow(ctx,
		`UPDATE users SET is_active = NOT is_active, updated_at = now()
		 WHERE id = $1
		 RETURNING is_active`,
		userID).Scan(&isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "user not found")
			return false, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return false, fmt.Errorf("failed to toggle user: %w", err)
	}
	span.SetStatus(codes.Ok, "user toggled")
	return isActive, nil
}

func (r *PostgresAdminRepo) MakeAdmin(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "MakeAdmin", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	query := fmt.Sprintf(`UPDATE users SET is_admin = TRUE, updated_at = now()
		WHERE id = $1 RETURNING %s`, userColumns)
	u, err := scanUser(r.pgpool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "user not found")
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, fmt.Errorf("failed to grant admin: %w", err)
	}
	span.SetStatus(codes.Ok, "admin granted")
	return u, nil
}

func (r *PostgresAdminRepo) ExportUsers(ctx context.Context) ([]types.User, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "ExportUsers", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at`, userColumns)
	users, err := r.queryUsers(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "users exported")
	return users, nil
}

func (r *PostgresAdminRepo) ListChatSessions(ctx context.Context, page types.PageRequest) ([]types.ChatSession, int, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "ListChatSessions", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "chat_sessions"),
	))
	defer span.End()

	var total int
	if err := r.pgpool.QueryRow(ctx, `SELECT count(*) FROM chat_sessions`).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return nil, 0, fmt.Errorf("failed to count chat sessions: %w", err)
	}

	// Message bodies are omitted on the listing; the per-session
	// endpoint returns the transcript.
	rows, err := r.pgpool.Query(ctx, `
		SELECT id, session_id, user_id, title, message_count, created_at, updated_at
		FROM chat_sessions
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2`,
		page.PageSize, page.Offset())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, 0, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	defer rows.Close()

	sessions := []types.ChatSession{}
	for rows.Next() {
		var cs types.ChatSession
		if err := rows.Scan(&cs.ID, &cs.SessionID, &cs.UserID, &cs.Title, &cs.MessageCount, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scan failed")
			return nil, 0, fmt.Errorf("failed to scan chat session: %w", err)
		}
		sessions = append(sessions, cs)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rows iteration failed")
		return nil, 0, fmt.Errorf("failed to read chat sessions: %w", err)
	}
	span.SetStatus(codes.Ok, "chat sessions listed")
	return sessions, total, nil
}

func (r *PostgresAdminRepo) PublicStats(ctx context.Context) (*PublicStats, error) {
	ctx, span := otel.Tracer("AdminRepo").Start(ctx, "PublicStats", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
	))
	defer span.End()

	stats := PublicStats{Categories: map[string]int{}}
	err := r.pgpool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM places WHERE is_active = TRUE),
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM itineraries),
			(SELECT count(*) FROM places WHERE is_featured = TRUE AND is_active = TRUE)`).
		Scan(&stats.TotalPlaces, &stats.TotalUsers, &stats.TotalItineraries, &stats.FeaturedPlaces)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to query public stats: %w", err)
	}

	categories, err := r.CategoryCounts(ctx, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "category count failed")
		return nil, err
	}
	stats.Categories = categories

	span.SetStatus(codes.Ok, "public stats queried")
	return &stats, nil
}
