package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tourvn/go-tourism-backend/internal/api"
	"github.com/tourvn/go-tourism-backend/internal/api/admin"
	"github.com/tourvn/go-tourism-backend/internal/api/ai"
	"github.com/tourvn/go-tourism-backend/internal/api/auth"
	"github.com/tourvn/go-tourism-backend/internal/api/itinerary"
	"github.com/tourvn/go-tourism-backend/internal/api/maps"
	"github.com/tourvn/go-tourism-backend/internal/api/place"
	"github.com/tourvn/go-tourism-backend/internal/api/user"
)

// Config carries the handlers and middleware the route tree mounts.
// Server-wide middleware (request id, recoverer, logger) is applied by
// the caller before this router.
type Config struct {
	AuthHandler      *auth.AuthHandler
	PlaceHandler     *place.PlaceHandler
	MapsHandler      *maps.MapsHandler
	AIHandler        *ai.AIHandler
	ItineraryHandler *itinerary.ItineraryHandler
	UserHandler      *user.UserHandler
	AdminHandler     *admin.AdminHandler

	Authenticate         func(http.Handler) http.Handler
	OptionalAuthenticate func(http.Handler) http.Handler
	RequireAdmin         func(http.Handler) http.Handler

	ServiceName string
	Version     string
	UploadDir   string
}

// SetupRouter builds the full API route tree.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			api.WriteJSONResponse(w, req, http.StatusOK, map[string]string{
				"status":  "healthy",
				"service": cfg.ServiceName,
				"version": cfg.Version,
			})
		})
		r.Get("/stats", cfg.AdminHandler.GetPublicStats)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(cfg.Authenticate)
				r.Post("/logout", cfg.AuthHandler.Logout)
				r.Get("/me", cfg.AuthHandler.Me)
				r.Post("/change-password", cfg.AuthHandler.ChangePassword)
			})
		})

		r.Route("/places", func(r chi.Router) {
			r.Get("/", cfg.PlaceHandler.ListPlaces)
			r.Get("/categories", cfg.PlaceHandler.Categories)
			r.Get("/{placeID}", cfg.PlaceHandler.GetPlace)

			r.Group(func(r chi.Router) {
				r.Use(cfg.Authenticate)
				r.Post("/{placeID}/reviews", cfg.PlaceHandler.AddReview)
			})
		})

		r.Route("/maps", func(r chi.Router) {
			r.Post("/geocode", cfg.MapsHandler.Geocode)
			r.Post("/reverse-geocode", cfg.MapsHandler.ReverseGeocode)
			r.Post("/directions", cfg.MapsHandler.Directions)
			r.Post("/distance-matrix", cfg.MapsHandler.DistanceMatrix)
			r.Post("/nearby", cfg.MapsHandler.Nearby)
			r.Get("/place-details/{placeID}", cfg.MapsHandler.PlaceDetails)
			r.Post("/optimize-route", cfg.MapsHandler.OptimizeRoute)
			r.Post("/travel-time", cfg.MapsHandler.TravelTime)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(cfg.OptionalAuthenticate)
				r.Post("/chat", cfg.AIHandler.Chat)
				r.Post("/suggest-places", cfg.AIHandler.SuggestPlaces)
				r.Post("/generate-itinerary", cfg.ItineraryHandler.Generate)
				r.Post("/estimate-cost", cfg.ItineraryHandler.EstimateCost)
				r.Get("/chat-sessions/{sessionID}", cfg.AIHandler.GetSession)
			})

			r.Group(func(r chi.Router) {
				r.Use(cfg.Authenticate)
				r.Get("/chat-sessions", cfg.AIHandler.ListSessions)
				r.Delete("/chat-sessions/{sessionID}", cfg.AIHandler.DeleteSession)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(cfg.Authenticate)
			r.Get("/itineraries", cfg.ItineraryHandler.List)
			r.Get("/itineraries/{itineraryID}", cfg.ItineraryHandler.Get)
			r.Put("/itineraries/{itineraryID}", cfg.ItineraryHandler.Update)
			r.Delete("/itineraries/{itineraryID}", cfg.ItineraryHandler.Delete)
			r.Get("/profile", cfg.UserHandler.GetProfile)
			r.Put("/profile", cfg.UserHandler.UpdateProfile)
			r.Get("/preferences", cfg.UserHandler.GetPreferences)
			r.Put("/preferences", cfg.UserHandler.UpdatePreferences)
			r.Get("/reviews", cfg.UserHandler.ListReviews)
			r.Put("/reviews/{reviewID}", cfg.UserHandler.UpdateReview)
			r.Delete("/reviews/{reviewID}", cfg.UserHandler.DeleteReview)
			r.Get("/favorites", cfg.UserHandler.ListFavorites)
			r.Post("/favorites/{placeID}", cfg.UserHandler.AddFavorite)
			r.Delete("/favorites/{placeID}", cfg.UserHandler.RemoveFavorite)
			r.Get("/stats", cfg.UserHandler.GetStats)
			r.Get("/dashboard", cfg.UserHandler.GetDashboard)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(cfg.Authenticate)
			r.Use(cfg.RequireAdmin)

			r.Get("/dashboard", cfg.AdminHandler.GetDashboard)
			r.Get("/users", cfg.AdminHandler.ListUsers)
			r.Get("/users/{userID}", cfg.AdminHandler.GetUser)
			r.Post("/users/{userID}/toggle-active", cfg.AdminHandler.ToggleUserActive)
			r.Post("/users/{userID}/make-admin", cfg.AdminHandler.MakeAdmin)

			r.Post("/places", cfg.PlaceHandler.CreatePlace)
			r.Put("/places/{placeID}", cfg.PlaceHandler.UpdatePlace)
			r.Delete("/places/{placeID}", cfg.PlaceHandler.DeletePlace)
			r.Get("/places/stats", cfg.AdminHandler.GetPlaceStats)

			r.Get("/chat-sessions", cfg.AdminHandler.ListChatSessions)
			r.Get("/export/places", cfg.AdminHandler.ExportPlaces)
			r.Get("/export/users", cfg.AdminHandler.ExportUsers)
		})
	})

	// Uploaded place images are served straight off disk.
	if cfg.UploadDir != "" {
		fs := http.StripPrefix("/static/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.Get("/static/uploads/*", fs.ServeHTTP)
	}

	return r
}
