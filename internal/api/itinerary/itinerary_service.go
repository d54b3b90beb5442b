package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

// Planner is the slice of the AI gateway this service needs.
type Planner interface {
	GenerateItinerary(ctx context.Context, prefs types.ItineraryPreference) (*types.ItineraryPlan, error)
	EstimateCost(ctx context.Context, plan types.ItineraryPlan) (*types.CostEstimate, error)
}

// PlaceSource resolves the caller's selected place ids.
type PlaceSource interface {
	GetPlacesByIDs(ctx context.Context, ids []uuid.UUID) ([]types.Place, error)
}

var _ ItineraryService = (*ItineraryServiceImpl)(nil)

type ItineraryService interface {
	// GenerateSmartItinerary produces an enriched plan without
	// persisting it. Unknown selected place ids are dropped.
	GenerateSmartItinerary(ctx context.Context, prefs types.ItineraryPreference, selectedPlaceIDs []uuid.UUID) (*types.ItineraryPlan, error)

	SaveItinerary(ctx context.Context, userID uuid.UUID, plan types.ItineraryPlan) (uuid.UUID, error)
	GetItinerary(ctx context.Context, itineraryID, userID uuid.UUID) (*types.Itinerary, error)
	ListItineraries(ctx context.Context, userID uuid.UUID, status *types.ItineraryStatus, page types.PageRequest) (types.Paginated[types.Itinerary], error)
	UpdateItinerary(ctx context.Context, itineraryID, userID uuid.UUID, params types.UpdateItineraryParams) error
	DeleteItinerary(ctx context.Context, itineraryID, userID uuid.UUID) error

	EstimateDetailedCost(ctx context.Context, plan types.ItineraryPlan) (*types.CostEstimate, error)
}

type ItineraryServiceImpl struct {
	logger  *slog.Logger
	repo    ItineraryRepo
	planner Planner
	places  PlaceSource
}

func NewItineraryService(repo ItineraryRepo, planner Planner, places PlaceSource, logger *slog.Logger) *ItineraryServiceImpl {
	return &ItineraryServiceImpl{
		logger:  logger,
		repo:    repo,
		planner: planner,
		places:  places,
	}
}

func (s *ItineraryServiceImpl) GenerateSmartItinerary(ctx context.Context, prefs types.ItineraryPreference, selectedPlaceIDs []uuid.UUID) (*types.ItineraryPlan, error) {
	l := s.logger.With(slog.String("method", "GenerateSmartItinerary"))

	var selected []types.Place
	if len(selectedPlaceIDs) > 0 {
		places, err := s.places.GetPlacesByIDs(ctx, selectedPlaceIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve selected places: %w", err)
		}
		selected = places
		if len(places) < len(selectedPlaceIDs) {
			l.WarnContext(ctx, "some selected places were not found and were dropped",
				slog.Int("requested", len(selectedPlaceIDs)),
				slog.Int("resolved", len(places)))
		}
	}

	enriched := prefs
	if len(selected) > 0 {
		summaries := make([]types.PlaceSummary, 0, len(selected))
		for _, p := range selected {
			summaries = append(summaries, p.Summary())
		}
		enriched.SelectedPlaces = summaries
	}

	plan, err := s.planner.GenerateItinerary(ctx, enriched)
	if err != nil {
		return nil, err
	}

	enhancePlan(plan, prefs, selected)
	return plan, nil
}

func (s *ItineraryServiceImpl) SaveItinerary(ctx context.Context, userID uuid.UUID, plan types.ItineraryPlan) (uuid.UUID, error) {
	return s.repo.CreateItinerary(ctx, userID, plan, ParseDate(plan.StartDate))
}

func (s *ItineraryServiceImpl) GetItinerary(ctx context.Context, itineraryID, userID uuid.UUID) (*types.Itinerary, error) {
	return s.repo.GetItinerary(ctx, itineraryID, userID)
}

func (s *ItineraryServiceImpl) ListItineraries(ctx context.Context, userID uuid.UUID, status *types.ItineraryStatus, page types.PageRequest) (types.Paginated[types.Itinerary], error) {
	if status != nil && !types.ValidItineraryStatus(*status) {
		return types.Paginated[types.Itinerary]{}, fmt.Errorf("unknown status %q: %w", *status, types.ErrBadRequest)
	}
	itineraries, total, err := s.repo.ListItineraries(ctx, userID, status, page)
	if err != nil {
		return types.Paginated[types.Itinerary]{}, err
	}
	return types.NewPaginated(itineraries, total, page), nil
}

func (s *ItineraryServiceImpl) UpdateItinerary(ctx context.Context, itineraryID, userID uuid.UUID, params types.UpdateItineraryParams) error {
	if params.Status != nil && !types.ValidItineraryStatus(*params.Status) {
		return fmt.Errorf("unknown status %q: %w", *params.Status, types.ErrBadRequest)
	}
	var startDate *time.Time
	if params.StartDate != nil {
		startDate = ParseDate(*params.StartDate)
	}
	return s.repo.UpdateItinerary(ctx, itineraryID, userID, params, startDate)
}

func (s *ItineraryServiceImpl) DeleteItinerary(ctx context.Context, itineraryID, userID uuid.UUID) error {
	return s.repo.DeleteItinerary(ctx, itineraryID, userID)
}

func (s *ItineraryServiceImpl) EstimateDetailedCost(ctx context.Context, plan types.ItineraryPlan) (*types.CostEstimate, error) {
	return s.planner.EstimateCost(ctx, plan)
}

// enhancePlan attaches generation metadata, links activities back to
// the selected places by name, and fills in a missing total cost.
func enhancePlan(plan *types.ItineraryPlan, prefs types.ItineraryPreference, selected []types.Place) {
	prefs.SelectedPlaces = nil
	plan.Preferences = &prefs
	now := time.Now().UTC()
	plan.GeneratedAt = &now

	if len(selected) > 0 {
		for di := range plan.Days {
			for ai := range plan.Days[di].Activities {
				activity := &plan.Days[di].Activities[ai]
				for _, p := range selected {
					// First match wins; the model usually echoes the
					// place name inside the activity location.
					if p.Name != "" && strings.Contains(activity.Location, p.Name) {
						id := p.ID
						category := string(p.Category)
						activity.PlaceID = &id
						activity.PlaceCategory = &category
						activity.Latitude = p.Latitude
						activity.Longitude = p.Longitude
						break
					}
				}
			}
		}
	}

	if plan.EstimatedCost == 0 {
		total := 0.0
		for _, day := range plan.Days {
			for _, activity := range day.Activities {
				total += activity.EstimatedCost
			}
		}
		plan.EstimatedCost = total
	}
}

// ParseDate accepts ISO-8601 timestamps or bare YYYY-MM-DD dates and
// returns nil for anything else.
func ParseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t
	}
	return nil
}
