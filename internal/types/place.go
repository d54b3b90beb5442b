package types

import (
	"time"

	"github.com/google/uuid"
)

type PlaceCategory string

const (
	CategoryTouristSpot   PlaceCategory = "tourist_spot"
	CategoryRestaurant    PlaceCategory = "restaurant"
	CategoryAccommodation PlaceCategory = "accommodation"
	CategoryActivity      PlaceCategory = "activity"
)

// ValidPlaceCategory reports whether c is one of the fixed categories.
func ValidPlaceCategory(c PlaceCategory) bool {
	switch c {
	case CategoryTouristSpot, CategoryRestaurant, CategoryAccommodation, CategoryActivity:
		return true
	}
	return false
}

// PlaceCategoryLabels maps each category to its display label.
var PlaceCategoryLabels = map[PlaceCategory]string{
	CategoryTouristSpot:   "Tourist spot",
	CategoryRestaurant:    "Restaurant",
	CategoryAccommodation: "Accommodation",
	CategoryActivity:      "Activity",
}

type Place struct {
	ID               uuid.UUID     `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	Category         PlaceCategory `json:"category"`
	Description      *string       `json:"description,omitempty"`
	ShortDescription *string       `json:"short_description,omitempty"`
	Address          *string       `json:"address,omitempty"`
	Latitude         *float64      `json:"latitude,omitempty"`
	Longitude        *float64      `json:"longitude,omitempty"`
	Phone            *string       `json:"phone,omitempty"`
	Email            *string       `json:"email,omitempty"`
	Website          *string       `json:"website,omitempty"`
	PriceRange       *string       `json:"price_range,omitempty"`
	EstimatedCost    float64       `json:"estimated_cost"`
	MainImage        *string       `json:"main_image,omitempty"`
	Images           []string      `json:"images"`
	Tags             []string      `json:"tags"`
	Features         []string      `json:"features"`
	Rating           float64       `json:"rating"`
	ReviewCount      int           `json:"review_count"`
	IsActive         bool          `json:"is_active"`
	IsFeatured       bool          `json:"is_featured"`
	ViewCount        int           `json:"view_count"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	// Populated only on detail lookups.
	Reviews []Review `json:"reviews,omitempty"`
}

// PlaceSummary is the reduced shape handed to the language model and
// merged into itinerary activities.
type PlaceSummary struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Category      PlaceCategory `json:"category"`
	Description   *string       `json:"description,omitempty"`
	Address       *string       `json:"address,omitempty"`
	Latitude      *float64      `json:"latitude,omitempty"`
	Longitude     *float64      `json:"longitude,omitempty"`
	EstimatedCost float64       `json:"estimated_cost"`
	Rating        float64       `json:"rating"`
}

func (p Place) Summary() PlaceSummary {
	return PlaceSummary{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Description:   p.Description,
		Address:       p.Address,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		EstimatedCost: p.EstimatedCost,
		Rating:        p.Rating,
	}
}

// PlaceFilter describes a list query over the catalog.
type PlaceFilter struct {
	Category        *PlaceCategory
	Featured        *bool
	Search          string
	SortBy          string // name, rating, view_count, created_at
	SortOrder       string // asc, desc
	IncludeInactive bool   // admin export only
}

// CreatePlaceParams carries the admin create/update form fields.
type CreatePlaceParams struct {
	Name             string
	Category         PlaceCategory
	Description      *string
	ShortDescription *string
	Address          *string
	Phone            *string
	Email            *string
	Website          *string
	PriceRange       *string
	EstimatedCost    float64
	Tags             []string
	Features         []string
	IsFeatured       bool
}

// UpdatePlaceParams carries partial admin updates; nil means "leave
// unchanged".
type UpdatePlaceParams struct {
	Name             *string
	Category         *PlaceCategory
	Description      *string
	ShortDescription *string
	Address          *string
	Latitude         *float64
	Longitude        *float64
	Phone            *string
	Email            *string
	Website          *string
	PriceRange       *string
	EstimatedCost    *float64
	MainImage        *string
	Tags             []string
	Features         []string
	IsFeatured       *bool
	IsActive         *bool
}

type Review struct {
	ID           uuid.UUID `json:"id"`
	PlaceID      uuid.UUID `json:"place_id"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	Rating       int       `json:"rating"`
	Title        *string   `json:"title,omitempty"`
	Content      *string   `json:"content,omitempty"`
	HelpfulCount int       `json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateReviewParams struct {
	Rating  int     `json:"rating"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type UpdateReviewParams struct {
	Rating  *int    `json:"rating,omitempty"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}
