package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID           uuid.UUID       `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	FullName     *string         `json:"full_name,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	Bio          *string         `json:"bio,omitempty"`
	AvatarURL    *string         `json:"avatar_url,omitempty"`
	Preferences  json.RawMessage `json:"preferences"`
	IsActive     bool            `json:"is_active"`
	IsAdmin      bool            `json:"is_admin"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// UpdateProfileParams carries the mutable profile fields; nil means
// "leave unchanged".
type UpdateProfileParams struct {
	FullName  *string `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// UserStats summarizes a user's activity for the profile/stats endpoints.
type UserStats struct {
	Itineraries  ItineraryStats `json:"itineraries"`
	Reviews      int            `json:"reviews"`
	ChatSessions int            `json:"chat_sessions"`
	Favorites    int            `json:"favorites"`
}

type ItineraryStats struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Planned   int `json:"planned"`
	Completed int `json:"completed"`
}

type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"usr,omitempty"`
	Email    string `json:"eml"`
	IsAdmin  bool   `json:"adm,omitempty"`
	jwt.RegisteredClaims
}
