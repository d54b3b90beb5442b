package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

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

var _ UserRepo = (*PostgresUserRepo)(nil)

type UserRepo interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.User, error)

	GetPreferences(ctx context.Context, userID uuid.UUID) (map[string]any, error)

	// UpdatePreferences shallow-merges updates into the stored blob
	// and returns the merged result.
	UpdatePreferences(ctx context.Context, userID uuid.UUID, updates map[string]any) (map[string]any, error)

	// AddFavorite and RemoveFavorite edit preferences.favorite_places
	// under a row lock. Both are idempotent.
	AddFavorite(ctx context.Context, userID, placeID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, placeID uuid.UUID) error
	ListFavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	GetStats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresUserRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
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

func (r *PostgresUserRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetProfile", trace.WithAttributes(
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

func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	setClauses := []string{}
	args := []any{userID}
	argID := 2
	add := func(clause string, value any) {
		setClauses = append(setClauses, fmt.Sprintf(clause, argID))
		args = append(args, value)
		argID++
	}

	if params.FullName != nil {
		add("full_name = $%d", *params.FullName)
	}
	if params.Phone != nil {
		add("phone = $%d", *params.Phone)
	}
	if params.Bio != nil {
		add("bio = $%d", *params.Bio)
	}
	if params.AvatarURL != nil {
		add("avatar_url = $%d", *params.AvatarURL)
	}

	if len(setClauses) == 0 {
		return r.GetProfile(ctx, userID)
	}
	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(setClauses, ", "), userColumns)
	u, err := scanUser(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "user not found")
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	span.SetStatus(codes.Ok, "profile updated")
	return u, nil
}

func (r *PostgresUserRepo) GetPreferences(ctx context.Context, userID uuid.UUID) (map[string]any, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetPreferences", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var raw []byte
	err := r.pgpool.QueryRow(ctx,
		`SELECT COALESCE(preferences, '{}'::jsonb) FROM users WHERE id = $1`,
		userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "user not found")
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to fetch preferences: %w", err)
	}

	prefs := map[string]any{}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	span.SetStatus(codes.Ok, "preferences fetched")
	return prefs, nil
}

func (r *PostgresUserRepo) UpdatePreferences(ctx context.Context, userID uuid.UUID, updates map[string]any) (map[string]any, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdatePreferences", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	payload, err := json.Marshal(updates)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}

	// jsonb || replaces top-level keys only, which is exactly the
	// merge contract of PUT /preferences.
	var raw []byte
	err = r.pgpool.QueryRow(ctx,
		`UPDATE users
		 SET preferences = COALESCE(preferences, '{}'::jsonb) || $2::jsonb, updated_at = now()
		 WHERE id = $1
		 RETURNING preferences`,
		userID, payload).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "user not found")
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	merged := map[string]any{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	span.SetStatus(codes.Ok, "preferences updated")
	return merged, nil
}

func (r *PostgresUserRepo) AddFavorite(ctx context.Context, userID, placeID uuid.UUID) error {
	return r.modifyFavorites(ctx, "AddFavorite", userID, func(ids []uuid.UUID) []uuid.UUID {
		for _, id := range ids {
			if id == placeID {
				return ids
			}
		}
		return append(ids, placeID)
	})
}

func (r *PostgresUserRepo) RemoveFavorite(ctx context.Context, userID, placeID uuid.UUID) error {
	return r.modifyFavorites(ctx, "RemoveFavorite", userID, func(ids []uuid.UUID) []uuid.UUID {
		out := ids[:0]
		for _, id := range ids {
			if id != placeID {
				out = append(out, id)
			}
		}
		return out
	})
}

func (r *PostgresUserRepo) modifyFavorites(ctx context.Context, op string, userID uuid.UUID, edit func([]uuid.UUID) []uuid.UUID) error {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, op, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin failed")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(preferences, '{}'::jsonb) FROM users WHERE id = $1 FOR UPDATE`,
		userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "user not found")
			return fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return fmt.Errorf("failed to lock preferences: %w", err)
	}

	prefs := map[string]any{}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return fmt.Errorf("failed to decode preferences: %w", err)
	}

	edited := edit(favoriteIDs(prefs))
	asStrings := make([]string, 0, len(edited))
	for _, id := range edited {
		asStrings = append(asStrings, id.String())
	}
	prefs["favorite_places"] = asStrings

	payload, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE users SET preferences = $2, updated_at = now() WHERE id = $1`,
		userID, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return fmt.Errorf("failed to update favorites: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return fmt.Errorf("failed to commit favorites: %w", err)
	}
	span.SetStatus(codes.Ok, "favorites updated")
	return nil
}

func (r *PostgresUserRepo) ListFavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	prefs, err := r.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	return favoriteIDs(prefs), nil
}

// favoriteIDs reads preferences.favorite_places, dropping anything
// that is not a well-formed uuid string.
func favoriteIDs(prefs map[string]any) []uuid.UUID {
	raw, ok := prefs["favorite_places"].([]any)
	if !ok {
		return []uuid.UUID{}
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (r *PostgresUserRepo) GetStats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetStats", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var stats types.UserStats
	err := r.pgpool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM itineraries WHERE user_id = $1),
			(SELECT count(*) FROM itineraries WHERE user_id = $1 AND status = 'draft'),
			(SELECT count(*) FROM itineraries WHERE user_id = $1 AND status = 'planned'),
			(SELECT count(*) FROM itineraries WHERE user_id = $1 AND status = 'completed'),
			(SELECT count(*) FROM reviews WHERE user_id = $1),
			(SELECT count(*) FROM chat_sessions WHERE user_id = $1),
			COALESCE((SELECT jsonb_array_length(COALESCE(preferences->'favorite_places', '[]'::jsonb)) FROM users WHERE id = $1), 0)`,
		userID).Scan(
		&stats.Itineraries.Total, &stats.Itineraries.Draft, &stats.Itineraries.Planned,
		&stats.Itineraries.Completed, &stats.Reviews, &stats.ChatSessions, &stats.Favorites)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to fetch user stats: %w", err)
	}
	span.SetStatus(codes.Ok, "stats fetched")
	return &stats, nil
}
