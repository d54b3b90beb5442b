package ai

import (
	"context"
	"encoding/json"
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

var _ ChatSessionRepo = (*PostgresChatSessionRepo)(nil)

type ChatSessionRepo interface {
	// GetBySessionID returns the session or types.ErrNotFound.
	GetBySessionID(ctx context.Context, sessionID string) (*types.ChatSession, error)

	// AppendTurns adds messages to the session, creating it on first
	// use. The read-modify-write runs in one transaction under a row
	// lock so concurrent turns cannot lose messages.
	AppendTurns(ctx context.Context, sessionID string, userID *uuid.UUID, title string, turns []types.ChatMessage) error

	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.ChatSession, error)
	DeleteByOwner(ctx context.Context, sessionID string, userID uuid.UUID) error
}

type PostgresChatSessionRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresChatSessionRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresChatSessionRepo {
	return &PostgresChatSessionRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const chatSessionColumns = `id, session_id, user_id, title, messages, message_count, created_at, updated_at`

func scanChatSession(row pgx.Row) (*types.ChatSession, error) {
	var cs types.ChatSession
	var messages []byte
	err := row.Scan(&cs.ID, &cs.SessionID, &cs.UserID, &cs.Title, &messages, &cs.MessageCount, &cs.CreatedAt, &cs.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(messages, &cs.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode session messages: %w", err)
	}
	return &cs, nil
}

func (r *PostgresChatSessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*types.ChatSession, error) {
	ctx, span := otel.Tracer("ChatSessionRepo").Start(ctx, "GetBySessionID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "chat_sessions"),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM chat_sessions WHERE session_id = $1`, chatSessionColumns)
	cs, err := scanChatSession(r.pgpool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "session not found")
			return nil, fmt.Errorf("chat session %s: %w", sessionID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to fetch chat session: %w", err)
	}
	span.SetStatus(codes.Ok, "session fetched")
	return cs, nil
}

func (r *PostgresChatSessionRepo) AppendTurns(ctx context.Context, sessionID string, userID *uuid.UUID, title string, turns []types.ChatMessage) error {
	ctx, span := otel.Tracer("ChatSessionRepo").Start(ctx, "AppendTurns", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "chat_sessions"),
	))
	defer span.End()

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin failed")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var existing []byte
	err = tx.QueryRow(ctx,
		`SELECT messages FROM chat_sessions WHERE session_id = $1 FOR UPDATE`,
		sessionID).Scan(&existing)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		payload, mErr := json.Marshal(turns)
		if mErr != nil {
			return fmt.Errorf("failed to encode messages: %w", mErr)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO chat_sessions (session_id, user_id, title, messages, message_count)
			 VALUES ($1, $2, $3, $4, $5)`,
			sessionID, userID, title, payload, len(turns))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "insert failed")
			return fmt.Errorf("failed to create chat session: %w", err)
		}
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return fmt.Errorf("failed to lock chat session: %w", err)
	default:
		var messages []types.ChatMessage
		if uErr := json.Unmarshal(existing, &messages); uErr != nil {
			return fmt.Errorf("failed to decode session messages: %w", uErr)
		}
		messages = append(messages, turns...)
		payload, mErr := json.Marshal(messages)
		if mErr != nil {
			return fmt.Errorf("failed to encode messages: %w", mErr)
		}
		_, err = tx.Exec(ctx,
			`UPDATE chat_sessions
			 SET messages = $2, message_count = $3, updated_at = now()
			 WHERE session_id = $1`,
			sessionID, payload, len(messages))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "update failed")
			return fmt.Errorf("failed to update chat session: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return fmt.Errorf("failed to commit chat session: %w", err)
	}
	span.SetStatus(codes.Ok, "turns appended")
	return nil
}

func (r *PostgresChatSessionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.ChatSession, error) {
	ctx, span := otel.Tracer("ChatSessionRepo").Start(ctx, "ListByUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "chat_sessions"),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM chat_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2`, chatSessionColumns)

	rows, err := r.pgpool.Query(ctx, query, userID, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	defer rows.Close()

	sessions := []types.ChatSession{}
	for rows.Next() {
		cs, err := scanChatSession(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scan failed")
			return nil, fmt.Errorf("failed to scan chat session: %w", err)
		}
		sessions = append(sessions, *cs)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rows iteration failed")
		return nil, fmt.Errorf("failed to read chat sessions: %w", err)
	}
	span.SetStatus(codes.Ok, "sessions listed")
	return sessions, nil
}

func (r *PostgresChatSessionRepo) DeleteByOwner(ctx context.Context, sessionID string, userID uuid.UUID) error {
	ctx, span := otel.Tracer("ChatSessionRepo").Start(ctx, "DeleteByOwner", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "chat_sessions"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM chat_sessions WHERE session_id = $1 AND user_id = $2`,
		sessionID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Ok, "session not found")
		return fmt.Errorf("chat session %s: %w", sessionID, types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "session deleted")
	return nil
}
