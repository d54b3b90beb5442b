package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tourvn/go-tourism-backend/config"
	"github.com/tourvn/go-tourism-backend/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService covers registration, login and account credentials.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*types.User, string, error)
	Login(ctx context.Context, login, password string) (*types.User, string, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error

	// EnsureAdminUser creates the configured admin account if no account
	// with that email exists yet. Called once at startup.
	EnsureAdminUser(ctx context.Context, admin config.AdminConfig) error
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwtCfg config.JWTConfig
}

func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*types.User, string, error) {
	l := s.logger.With(slog.String("method", "Register"), slog.String("username", req.Username))

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if len(req.Username) < 3 {
		return nil, "", fmt.Errorf("username must be at least 3 characters: %w", types.ErrBadRequest)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, "", fmt.Errorf("invalid email address: %w", types.ErrBadRequest)
	}
	if len(req.Password) < 6 {
		return nil, "", fmt.Errorf("password must be at least 6 characters: %w", types.ErrBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	var fullName *string
	if name := strings.TrimSpace(req.FullName); name != "" {
		fullName = &name
	}

	user, err := s.repo.CreateUser(ctx, req.Username, req.Email, string(hash), fullName, false)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", user.ID.String()))
	return user, token, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, login, password string) (*types.User, string, error) {
	l := s.logger.With(slog.String("method", "Login"))

	user, err := s.repo.GetUserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid username or password: %w", types.ErrUnauthenticated)
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.WarnContext(ctx, "Password mismatch", slog.String("userID", user.ID.String()))
		return nil, "", fmt.Errorf("invalid username or password: %w", types.ErrUnauthenticated)
	}

	if !user.IsActive {
		return nil, "", fmt.Errorf("account is deactivated: %w", types.ErrForbidden)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	l.InfoContext(ctx, "User logged in", slog.String("userID", user.ID.String()))
	return user, token, nil
}

func (s *AuthServiceImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	l := s.logger.With(slog.String("method", "ChangePassword"), slog.String("userID", userID.String()))

	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters: %w", types.ErrBadRequest)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", types.ErrUnauthenticated)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	l.InfoContext(ctx, "Password changed")
	return nil
}

func (s *AuthServiceImpl) EnsureAdminUser(ctx context.Context, admin config.AdminConfig) error {
	l := s.logger.With(slog.String("method", "EnsureAdminUser"))

	if admin.Email == "" || admin.Password == "" {
		l.WarnContext(ctx, "Admin bootstrap skipped, credentials not configured")
		return nil
	}

	_, err := s.repo.GetUserByLogin(ctx, admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	username := admin.Username
	if username == "" {
		username = "admin"
	}

	user, err := s.repo.CreateUser(ctx, username, admin.Email, string(hash), nil, true)
	if err != nil {
		// A concurrent instance may have won the race.
		if errors.Is(err, types.ErrConflict) {
			return nil
		}
		return err
	}

	l.InfoContext(ctx, "Admin user created", slog.String("userID", user.ID.String()))
	return nil
}

func (s *AuthServiceImpl) issueToken(user *types.User) (string, error) {
	now := time.Now()
	claims := types.Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
