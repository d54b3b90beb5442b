package admin

import (
	"github.com/tourvn/go-tourism-backend/internal/types"
)

// DashboardTotals are the headline counters of the admin dashboard.
type DashboardTotals struct {
	TotalUsers        int            `json:"total_users"`
	TotalPlaces       int            `json:"total_places"`
	ActivePlaces      int            `json:"active_places"`
	TotalItineraries  int            `json:"total_itineraries"`
	TotalChatSessions int            `json:"total_chat_sessions"`
	NewUsers30Days    int            `json:"new_users_30_days"`
	CategoryStats     map[string]int `json:"category_stats"`
}

type Dashboard struct {
	Stats         DashboardTotals      `json:"stats"`
	RecentUsers   []types.User         `json:"recent_users"`
	RecentPlaces  []types.PlaceSummary `json:"recent_places"`
	PopularPlaces []types.PlaceSummary `json:"popular_places"`
}

// CategoryStat is one row of GET /api/admin/places/stats.
type CategoryStat struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	AvgRating  float64 `json:"avg_rating"`
	TotalViews int     `json:"total_views"`
}

type PlaceStats struct {
	CategoryStats []CategoryStat       `json:"category_stats"`
	TopRated      []types.PlaceSummary `json:"top_rated"`
	MostViewed    []types.PlaceSummary `json:"most_viewed"`
}

type UserDetail struct {
	User              *types.User `json:"user"`
	ItinerariesCount  int         `json:"itineraries_count"`
	ChatSessionsCount int         `json:"chat_sessions_count"`
}

// PublicStats backs the unauthenticated GET /api/stats endpoint.
type PublicStats struct {
	TotalPlaces      int            `json:"total_places"`
	TotalUsers       int            `json:"total_users"`
	TotalItineraries int            `json:"total_itineraries"`
	FeaturedPlaces   int            `json:"featured_places"`
	Categories       map[string]int `json:"categories"`
}
