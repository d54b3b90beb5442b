package place

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

// Geocoder resolves a street address to coordinates. Implemented by the
// maps client; kept as a local interface so the catalog does not depend
// on the gateway package.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

var _ PlaceService = (*PlaceServiceImpl)(nil)

type PlaceService interface {
	ListPlaces(ctx context.Context, filter types.PlaceFilter, page types.PageRequest) (types.Paginated[types.Place], error)
	GetPlace(ctx context.Context, placeID uuid.UUID) (*types.Place, error)
	CreatePlace(ctx context.Context, params types.CreatePlaceParams, mainImage *string) (*types.Place, error)
	UpdatePlace(ctx context.Context, placeID uuid.UUID, params types.UpdatePlaceParams) (*types.Place, error)
	DeletePlace(ctx context.Context, placeID uuid.UUID) error

	AddReview(ctx context.Context, placeID, userID uuid.UUID, params types.CreateReviewParams) (*types.Review, error)
	UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, params types.UpdateReviewParams) (*types.Review, error)
	DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error
}

type PlaceServiceImpl struct {
	logger   *slog.Logger
	repo     PlaceRepo
	geocoder Geocoder
}

func NewPlaceService(repo PlaceRepo, geocoder Geocoder, logger *slog.Logger) *PlaceServiceImpl {
	return &PlaceServiceImpl{
		logger:   logger,
		repo:     repo,
		geocoder: geocoder,
	}
}

func (s *PlaceServiceImpl) ListPlaces(ctx context.Context, filter types.PlaceFilter, page types.PageRequest) (types.Paginated[types.Place], error) {
	places, total, err := s.repo.ListPlaces(ctx, filter, page)
	if err != nil {
		return types.Paginated[types.Place]{}, err
	}
	return types.NewPaginated(places, total, page), nil
}

func (s *PlaceServiceImpl) GetPlace(ctx context.Context, placeID uuid.UUID) (*types.Place, error) {
	return s.repo.GetPlace(ctx, placeID)
}

func (s *PlaceServiceImpl) CreatePlace(ctx context.Context, params types.CreatePlaceParams, mainImage *string) (*types.Place, error) {
	l := s.logger.With(slog.String("method", "CreatePlace"), slog.String("name", params.Name))

	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("place name is required: %w", types.ErrBadRequest)
	}
	if !types.ValidPlaceCategory(params.Category) {
		return nil, fmt.Errorf("invalid place category %q: %w", params.Category, types.ErrBadRequest)
	}

	slug, err := s.uniqueSlug(ctx, params.Name)
	if err != nil {
		return nil, err
	}

	// Geocoding failure is non-fatal; the place just carries no
	// coordinates until an admin fixes the address.
	var lat, lng *float64
	if params.Address != nil && *params.Address != "" && s.geocoder != nil {
		gLat, gLng, err := s.geocoder.Geocode(ctx, *params.Address)
		if err != nil {
			l.WarnContext(ctx, "Geocoding failed on create", slog.Any("error", err))
		} else {
			lat, lng = &gLat, &gLng
		}
	}

	place, err := s.repo.CreatePlace(ctx, params, slug, lat, lng, mainImage)
	if err != nil {
		return nil, err
	}

	l.InfoContext(ctx, "Place created", slog.String("placeID", place.ID.String()), slog.String("slug", slug))
	return place, nil
}

func (s *PlaceServiceImpl) UpdatePlace(ctx context.Context, placeID uuid.UUID, params types.UpdatePlaceParams) (*types.Place, error) {
	l := s.logger.With(slog.String("method", "UpdatePlace"), slog.String("placeID", placeID.String()))

	if params.Category != nil && !types.ValidPlaceCategory(*params.Category) {
		return nil, fmt.Errorf("invalid place category %q: %w", *params.Category, types.ErrBadRequest)
	}

	// An address change re-resolves coordinates unless the caller set
	// them explicitly.
	if params.Address != nil && *params.Address != "" &&
		params.Latitude == nil && params.Longitude == nil && s.geocoder != nil {
		lat, lng, err := s.geocoder.Geocode(ctx, *params.Address)
		if err != nil {
			l.WarnContext(ctx, "Geocoding failed on update", slog.Any("error", err))
		} else {
			params.Latitude, params.Longitude = &lat, &lng
		}
	}

	if err := s.repo.UpdatePlace(ctx, placeID, params); err != nil {
		return nil, err
	}
	return s.repo.GetPlace(ctx, placeID)
}

func (s *PlaceServiceImpl) DeletePlace(ctx context.Context, placeID uuid.UUID) error {
	return s.repo.SoftDeletePlace(ctx, placeID)
}

func (s *PlaceServiceImpl) AddReview(ctx context.Context, placeID, userID uuid.UUID, params types.CreateReviewParams) (*types.Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", types.ErrBadRequest)
	}
	return s.repo.CreateReview(ctx, placeID, userID, params)
}

func (s *PlaceServiceImpl) UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, params types.UpdateReviewParams) (*types.Review, error) {
	if params.Rating != nil && (*params.Rating < 1 || *params.Rating > 5) {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", types.ErrBadRequest)
	}
	return s.repo.UpdateReview(ctx, reviewID, userID, params)
}

func (s *PlaceServiceImpl) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error {
	return s.repo.DeleteReview(ctx, reviewID, userID)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name and collapses non-alphanumeric runs into
// single hyphens.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "place"
	}
	return slug
}

// uniqueSlug appends -2, -3, ... until the slug is free.
func (s *PlaceServiceImpl) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	slug := base
	for counter := 2; ; counter++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
