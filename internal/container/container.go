package container

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	database "github.com/tourvn/go-tourism-backend/app/db"
	appmetrics "github.com/tourvn/go-tourism-backend/app/observability/metrics"
	"github.com/tourvn/go-tourism-backend/config"
	"github.com/tourvn/go-tourism-backend/internal/api/admin"
	"github.com/tourvn/go-tourism-backend/internal/api/ai"
	"github.com/tourvn/go-tourism-backend/internal/api/auth"
	generativeAI "github.com/tourvn/go-tourism-backend/internal/api/generative_ai"
	"github.com/tourvn/go-tourism-backend/internal/api/itinerary"
	"github.com/tourvn/go-tourism-backend/internal/api/maps"
	"github.com/tourvn/go-tourism-backend/internal/api/place"
	"github.com/tourvn/go-tourism-backend/internal/api/user"
)

// Container wires repositories, services and handlers once at startup.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Pool    *pgxpool.Pool
	Metrics *appmetrics.AppMetrics

	AuthService auth.AuthService

	AuthHandler      *auth.AuthHandler
	PlaceHandler     *place.PlaceHandler
	MapsHandler      *maps.MapsHandler
	AIHandler        *ai.AIHandler
	ItineraryHandler *itinerary.ItineraryHandler
	UserHandler      *user.UserHandler
	AdminHandler     *admin.AdminHandler
}

// NewContainer initializes the database pool and builds the full
// dependency graph.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	connectionURL, err := database.ConnectionURL(cfg)
	if err != nil {
		return nil, err
	}
	metrics, err := appmetrics.NewAppMetrics(otel.Meter("tourism-backend"))
	if err != nil {
		return nil, err
	}

	pool, err := database.Init(connectionURL, metrics, logger)
	if err != nil {
		return nil, err
	}

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini, metrics)
	if err != nil {
		pool.Close()
		return nil, err
	}

	mapsClient := maps.NewClient(cfg.Maps, &http.Client{Timeout: 15 * time.Second}, metrics, logger)

	pagination := cfg.Pagination

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	placeRepo := place.NewPostgresPlaceRepo(pool, logger)
	placeService := place.NewPlaceService(placeRepo, mapsClient, logger)
	placeHandler := place.NewPlaceHandler(placeService, place.NewUploader(cfg.Upload), pagination, logger)

	mapsHandler := maps.NewMapsHandler(mapsClient, logger)

	aiService := ai.NewAIService(ai.NewGatewayGenerator(aiClient), logger)
	chatSessionRepo := ai.NewPostgresChatSessionRepo(pool, logger)

	itineraryRepo := itinerary.NewPostgresItineraryRepo(pool, logger)
	itineraryService := itinerary.NewItineraryService(itineraryRepo, aiService, placeRepo, logger)
	itineraryHandler := itinerary.NewItineraryHandler(itineraryService, pagination.DefaultPageSize, pagination.MaxPageSize, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, placeRepo, placeRepo, itineraryRepo, chatSessionRepo, logger)
	userHandler := user.NewUserHandler(userService, pagination.DefaultPageSize, pagination.MaxPageSize, logger)

	aiHandler := ai.NewAIHandler(aiService, chatSessionRepo, placeRepo, userRepo, logger)

	adminRepo := admin.NewPostgresAdminRepo(pool, logger)
	adminService := admin.NewAdminService(adminRepo, placeRepo, logger)
	adminHandler := admin.NewAdminHandler(adminService, pagination.DefaultPageSize, pagination.MaxPageSize, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Pool:    pool,
		Metrics: metrics,

		AuthService: authService,

		AuthHandler:      authHandler,
		PlaceHandler:     placeHandler,
		MapsHandler:      mapsHandler,
		AIHandler:        aiHandler,
		ItineraryHandler: itineraryHandler,
		UserHandler:      userHandler,
		AdminHandler:     adminHandler,
	}, nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB blocks until the database answers pings or the context
// expires.
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
