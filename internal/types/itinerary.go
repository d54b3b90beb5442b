package types

import (
	"time"

	"github.com/google/uuid"
)

type ItineraryStatus string

const (
	ItineraryStatusDraft     ItineraryStatus = "draft"
	ItineraryStatusPlanned   ItineraryStatus = "planned"
	ItineraryStatusCompleted ItineraryStatus = "completed"
)

func ValidItineraryStatus(s ItineraryStatus) bool {
	switch s {
	case ItineraryStatusDraft, ItineraryStatusPlanned, ItineraryStatusCompleted:
		return true
	}
	return false
}

// Itinerary is the persisted row: a few promoted scalar columns for
// listing and sorting plus the full structured plan.
type Itinerary struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	DurationDays  int             `json:"duration_days"`
	EstimatedCost float64         `json:"estimated_cost"`
	ActualCost    *float64        `json:"actual_cost,omitempty"`
	Status        ItineraryStatus `json:"status"`
	IsPublic      bool            `json:"is_public"`
	ViewCount     int             `json:"view_count"`
	Plan          ItineraryPlan   `json:"plan"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItineraryPlan is the full structured payload generated by the model
// and stored verbatim for exact retrieval.
type ItineraryPlan struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	DurationDays  int                  `json:"duration_days"`
	EstimatedCost float64              `json:"estimated_cost"`
	StartDate     string               `json:"start_date,omitempty"`
	Days          []ItineraryDay       `json:"days"`
	Tips          []string             `json:"tips,omitempty"`
	Preferences   *ItineraryPreference `json:"preferences,omitempty"`
	GeneratedAt   *time.Time           `json:"generated_at,omitempty"`
}

type ItineraryDay struct {
	Day        int                 `json:"day"`
	Title      string              `json:"title"`
	Activities []ItineraryActivity `json:"activities"`
}

type ItineraryActivity struct {
	Time          string     `json:"time"`
	Activity      string     `json:"activity"`
	Location      string     `json:"location"`
	Description   string     `json:"description,omitempty"`
	EstimatedCost float64    `json:"estimated_cost"`
	Duration      string     `json:"duration,omitempty"`
	PlaceID       *uuid.UUID `json:"place_id,omitempty"`
	PlaceCategory *string    `json:"place_category,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
}

// ItineraryPreference is the caller-supplied generation request.
type ItineraryPreference struct {
	Duration       int            `json:"duration"`
	Budget         string         `json:"budget"`
	Interests      []string       `json:"interests,omitempty"`
	Location       string         `json:"location"`
	StartDate      string         `json:"start_date,omitempty"`
	SelectedPlaces []PlaceSummary `json:"selected_places,omitempty"`
}

type UpdateItineraryParams struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	StartDate   *string          `json:"start_date,omitempty"`
	Status      *ItineraryStatus `json:"status,omitempty"`
	ActualCost  *float64         `json:"actual_cost,omitempty"`
	IsPublic    *bool            `json:"is_public,omitempty"`
	Plan        *ItineraryPlan   `json:"plan,omitempty"`
}

// CostEstimate is the structured cost breakdown returned by the model.
type CostEstimate struct {
	Total        float64            `json:"total"`
	Breakdown    map[string]float64 `json:"breakdown"`
	DailyAverage float64            `json:"daily_average,omitempty"`
	Currency     string             `json:"currency,omitempty"`
	Notes        []string           `json:"notes,omitempty"`
	Tips         []string           `json:"tips,omitempty"`
	Explanation  string             `json:"explanation,omitempty"`
}

// PlaceSuggestions is the structured reply of the suggestion prompt.
type PlaceSuggestions struct {
	Recommendations []PlaceRecommendation `json:"recommendations"`
	Explanation     string                `json:"explanation"`
}

type PlaceRecommendation struct {
	PlaceID       string  `json:"place_id"`
	Name          string  `json:"name"`
	Reason        string  `json:"reason"`
	Rating        float64 `json:"rating,omitempty"`
	EstimatedCost float64 `json:"estimated_cost,omitempty"`
}
