package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tourvn/go-tourism-backend/config"
	"github.com/tourvn/go-tourism-backend/internal/api"
	"github.com/tourvn/go-tourism-backend/internal/types"
)

type contextKey string

const UserIDKey contextKey = "userID"
const UserIsAdminKey contextKey = "userIsAdmin"

// GetUserIDFromContext returns the authenticated user's id, if any.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func IsAdminFromContext(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(UserIsAdminKey).(bool)
	return ok && isAdmin
}

func parseToken(tokenString string, jwtCfg config.JWTConfig) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtCfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Issuer != jwtCfg.Issuer {
		return nil, errors.New("invalid token issuer")
	}
	if !api.VerifyAudience(claims.Audience, jwtCfg.Audience) {
		return nil, errors.New("invalid token audience")
	}
	return claims, nil
}

func claimsContext(ctx context.Context, claims *types.Claims) (context.Context, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UserIsAdminKey, claims.IsAdmin)
	return ctx, nil
}

// Authenticate validates the Bearer token and puts the user id and
// admin flag on the request context.
func Authenticate(logger *slog.Logger, jwtCfg config.JWTConfig) func(next http.Handler) http.Handler {
	if jwtCfg.SecretKey == "" {
		panic("JWT secret key cannot be empty")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}

			claims, err := parseToken(headerParts[1], jwtCfg)
			if err != nil {
				l.WarnContext(ctx, "Token validation failed", slog.Any("error", err))
				errMsg := "Invalid or expired token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					errMsg = "Token has expired"
				} else if errors.Is(err, jwt.ErrTokenMalformed) {
					errMsg = "Malformed token"
				}
				api.ErrorResponse(w, r, http.StatusUnauthorized, errMsg)
				return
			}

			ctx, err = claimsContext(ctx, claims)
			if err != nil {
				l.WarnContext(ctx, "Bad token claims", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate attaches identity when a valid Bearer token is
// present and lets the request through anonymously otherwise. Used by
// the chat and itinerary-generation endpoints.
func OptionalAuthenticate(logger *slog.Logger, jwtCfg config.JWTConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) == 2 && strings.ToLower(headerParts[0]) == "bearer" {
				if claims, err := parseToken(headerParts[1], jwtCfg); err == nil {
					if withClaims, cerr := claimsContext(ctx, claims); cerr == nil {
						ctx = withClaims
					}
				} else {
					logger.DebugContext(ctx, "Ignoring invalid optional token", slog.Any("error", err))
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin runs after Authenticate and rejects non-admin users.
func RequireAdmin(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdminFromContext(r.Context()) {
				userID, _ := GetUserIDFromContext(r.Context())
				logger.WarnContext(r.Context(), "Admin access denied", slog.String("userID", userID.String()))
				api.ErrorResponse(w, r, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
