package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	appmetrics "github.com/tourvn/go-tourism-backend/app/observability/metrics"
	"github.com/tourvn/go-tourism-backend/config"
	"github.com/tourvn/go-tourism-backend/internal/types"
)

// ErrUpstream marks failures reported by the Google Maps API itself,
// as opposed to transport errors. Handlers map it to 502.
var ErrUpstream = errors.New("maps upstream error")

const maxNearbyRadius = 50000

var _ MapsService = (*Client)(nil)

// MapsService is the gateway contract consumed by handlers and the
// itinerary service.
type MapsService interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
	GeocodeAddress(ctx context.Context, address string) (*GeocodeResult, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*ReverseGeocodeResult, error)
	GetDirections(ctx context.Context, origin, destination string, waypoints []string, mode string) (*DirectionsResult, error)
	GetDistanceMatrix(ctx context.Context, origins, destinations []string, mode string) (*DistanceMatrixResult, error)
	SearchNearby(ctx context.Context, lat, lng float64, radius int, placeType, keyword string) (*NearbyResult, error)
	GetPlaceDetails(ctx context.Context, placeID string) (*PlaceDetailsResult, error)
	OptimizeRoute(ctx context.Context, origin, destination string, waypoints []string) (*OptimizeRouteResult, error)
	CalculateTravelTime(ctx context.Context, points []TravelPoint) (*TravelTimeResult, error)
}

// Client talks to the Google Maps HTTP API. The base URL is injectable
// so tests can point it at a local server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
	metrics    *appmetrics.AppMetrics
}

func NewClient(cfg config.MapsConfig, httpClient *http.Client, metrics *appmetrics.AppMetrics, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		logger:     logger,
		metrics:    metrics,
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, dst interface{}) error {
	ctx, span := otel.Tracer("MapsClient").Start(ctx, endpoint)
	defer span.End()

	if c.apiKey == "" {
		return fmt.Errorf("google maps api key not configured: %w", ErrUpstream)
	}
	params.Set("key", c.apiKey)

	reqURL := fmt.Sprintf("%s/%s/json?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build maps request: %w", err)
	}

	if c.metrics != nil {
		c.metrics.MapsRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return fmt.Errorf("maps request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
		return fmt.Errorf("maps request returned %s: %w", resp.Status, ErrUpstream)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode maps response: %w", err)
	}
	return nil
}

// Geocode satisfies the place catalog's Geocoder interface.
func (c *Client) Geocode(ctx context.Context, address string) (float64, float64, error) {
	result, err := c.GeocodeAddress(ctx, address)
	if err != nil {
		return 0, 0, err
	}
	return result.Latitude, result.Longitude, nil
}

func (c *Client) GeocodeAddress(ctx context.Context, address string) (*GeocodeResult, error) {
	params := url.Values{}
	params.Set("address", address)

	var data googleGeocodeResponse
	if err := c.get(ctx, "geocode", params, &data); err != nil {
		return nil, err
	}
	if data.Status != "OK" || len(data.Results) == 0 {
		return nil, fmt.Errorf("geocoding failed: %s: %w", data.Status, ErrUpstream)
	}

	r := data.Results[0]
	return &GeocodeResult{
		Latitude:         r.Geometry.Location.Lat,
		Longitude:        r.Geometry.Location.Lng,
		FormattedAddress: r.FormattedAddress,
		PlaceID:          r.PlaceID,
	}, nil
}

func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*ReverseGeocodeResult, error) {
	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%v,%v", lat, lng))

	var data googleGeocodeResponse
	if err := c.get(ctx, "geocode", params, &data); err != nil {
		return nil, err
	}
	if data.Status != "OK" || len(data.Results) == 0 {
		return nil, fmt.Errorf("reverse geocoding failed: %s: %w", data.Status, ErrUpstream)
	}

	r := data.Results[0]
	return &ReverseGeocodeResult{
		FormattedAddress:  r.FormattedAddress,
		PlaceID:           r.PlaceID,
		AddressComponents: r.AddressComponents,
	}, nil
}

func (c *Client) GetDirections(ctx context.Context, origin, destination string, waypoints []string, mode string) (*DirectionsResult, error) {
	if mode == "" {
		mode = "driving"
	}

	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("mode", mode)
	if len(waypoints) > 0 {
		params.Set("waypoints", strings.Join(waypoints, "|"))
	}

	var data googleDirectionsResponse
	if err := c.get(ctx, "directions", params, &data); err != nil {
		return nil, err
	}
	if data.Status != "OK" || len(data.Routes) == 0 || len(data.Routes[0].Legs) == 0 {
		return nil, fmt.Errorf("directions failed: %s: %w", data.Status, ErrUpstream)
	}

	route := data.Routes[0]
	leg := route.Legs[0]
	return &DirectionsResult{
		Distance:     leg.Distance,
		Duration:     leg.Duration,
		StartAddress: leg.StartAddress,
		EndAddress:   leg.EndAddress,
		Steps:        leg.Steps,
		Polyline:     route.OverviewPolyline.Points,
	}, nil
}

func (c *Client) GetDistanceMatrix(ctx context.Context, origins, destinations []string, mode string) (*DistanceMatrixResult, error) {
	if mode == "" {
		mode = "driving"
	}

	params := url.Values{}
	params.Set("origins", strings.Join(origins, "|"))
	params.Set("destinations", strings.Join(destinations, "|"))
	params.Set("mode", mode)

	var data googleDistanceMatrixResponse
	if err := c.get(ctx, "distancematrix", params, &data); err != nil {
		return nil, err
	}
	if data.Status != "OK" {
		return nil, fmt.Errorf("distance matrix failed: %s: %w", data.Status, ErrUpstream)
	}

	return &DistanceMatrixResult{
		Origins:      data.OriginAddresses,
		Destinations: data.DestinationAddresses,
		Rows:         data.Rows,
	}, nil
}

func (c *Client) SearchNearby(ctx context.Context, lat, lng float64, radius int, placeType, keyword string) (*NearbyResult, error) {
	if radius <= 0 {
		radius = 5000
	}
	if radius > maxNearbyRadius {
		radius = maxNearbyRadius
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%v,%v", lat, lng))
	params.Set("radius", strconv.Itoa(radius))
	if placeType != "" {
		params.Set("type", placeType)
	}
	if keyword != "" {
		params.Set("keyword", keyword)
	}

	var data googleNearbyResponse
	if err := c.get(ctx, "place/nearbysearch", params, &data); err != nil {
		return nil, err
	}
	if data.Status != "OK" {
		return nil, fmt.Errorf("nearby search failed: %s: %w", data.Status, ErrUpstream)
	}

	return &NearbyResult{Places: data.Results}, nil
}

func (c *Client) GetPlaceDetails(ctx context.Context, placeID string) (*PlaceDetailsResult, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,formatted_address,geometry,rating,photos,opening_hours,website,formatted_phone_number,reviews")

	var data googlePlaceDetailsResponse
	if err := c.get(ctx, "place/details", params, &data); err != nil {
		return nil, err
	}
	if data.Status != "OK" {
		return nil, fmt.Errorf("place details failed: %s: %w", data.Status, ErrUpstream)
	}

	return &PlaceDetailsResult{Place: data.Result}, nil
}

func (c *Client) OptimizeRoute(ctx context.Context, origin, destination string, waypoints []string) (*OptimizeRouteResult, error) {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("waypoints", "optimize:true|"+strings.Join(waypoints, "|"))

	var data googleOptimizeResponse
	if err := c.get(ctx, "directions", params, &data); err != nil {
		return nil, err
	}
	if data.Status != "OK" || len(data.Routes) == 0 {
		return nil, fmt.Errorf("route optimization failed: %s: %w", data.Status, ErrUpstream)
	}

	var order struct {
		WaypointOrder []int `json:"waypoint_order"`
	}
	if err := json.Unmarshal(data.Routes[0], &order); err != nil {
		return nil, fmt.Errorf("failed to decode optimized route: %w", err)
	}

	return &OptimizeRouteResult{
		WaypointOrder: order.WaypointOrder,
		Route:         data.Routes[0],
	}, nil
}

func (c *Client) CalculateTravelTime(ctx context.Context, points []TravelPoint) (*TravelTimeResult, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 places: %w", types.ErrBadRequest)
	}

	result := &TravelTimeResult{}
	for i := 0; i < len(points)-1; i++ {
		from, to := points[i], points[i+1]
		fromName := from.Name
		if fromName == "" {
			fromName = fmt.Sprintf("Place %d", i+1)
		}
		toName := to.Name
		if toName == "" {
			toName = fmt.Sprintf("Place %d", i+2)
		}

		origin := fmt.Sprintf("%v,%v", from.Latitude, from.Longitude)
		destination := fmt.Sprintf("%v,%v", to.Latitude, to.Longitude)

		directions, err := c.GetDirections(ctx, origin, destination, nil, "driving")
		if err != nil {
			c.logger.WarnContext(ctx, "Travel time segment failed",
				slog.String("from", fromName), slog.String("to", toName), slog.Any("error", err))
			result.SkippedSegments = append(result.SkippedSegments, SkippedSegment{
				From:  fromName,
				To:    toName,
				Error: err.Error(),
			})
			continue
		}

		result.TotalDistance.Meters += directions.Distance.Value
		result.TotalDuration.Seconds += directions.Duration.Value
		result.Segments = append(result.Segments, TravelSegment{
			From:     fromName,
			To:       toName,
			Distance: directions.Distance,
			Duration: directions.Duration,
		})
	}

	result.TotalDistance.Km = roundTo(float64(result.TotalDistance.Meters)/1000, 2)
	result.TotalDuration.Minutes = roundTo(float64(result.TotalDuration.Seconds)/60, 2)
	result.TotalDuration.Hours = roundTo(float64(result.TotalDuration.Seconds)/3600, 2)
	return result, nil
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
