package maps

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvn/go-tourism-backend/config"
	"github.com/tourvn/go-tourism-backend/internal/types"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.MapsConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, server.Client(), nil, slog.Default())
}

func TestGeocodeAddress(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/json", r.URL.Path)
		assert.Equal(t, "1 Trang Tien, Hanoi", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		fmt.Fprint(w, `{
			"status": "OK",
			"results": [{
				"formatted_address": "1 Trang Tien Street, Hoan Kiem, Hanoi",
				"place_id": "ChIJ123",
				"geometry": {"location": {"lat": 21.0245, "lng": 105.8572}}
			}]
		}`)
	}))

	result, err := client.GeocodeAddress(context.Background(), "1 Trang Tien, Hanoi")

	require.NoError(t, err)
	assert.InDelta(t, 21.0245, result.Latitude, 1e-9)
	assert.InDelta(t, 105.8572, result.Longitude, 1e-9)
	assert.Equal(t, "ChIJ123", result.PlaceID)
}

func TestGeocodeUpstreamStatusError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "ZERO_RESULTS", "results": []}`)
	}))

	_, err := client.GeocodeAddress(context.Background(), "nowhere")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "ZERO_RESULTS")
}

func TestGeocodeMissingAPIKey(t *testing.T) {
	client := NewClient(config.MapsConfig{BaseURL: "http://localhost"}, nil, nil, slog.Default())

	_, _, err := client.Geocode(context.Background(), "anywhere")

	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGetDirections(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/directions/json", r.URL.Path)
		assert.Equal(t, "walking", r.URL.Query().Get("mode"))
		assert.Equal(t, "a|b", r.URL.Query().Get("waypoints"))

		fmt.Fprint(w, `{
			"status": "OK",
			"routes": [{
				"overview_polyline": {"points": "abc123"},
				"legs": [{
					"distance": {"text": "5 km", "value": 5000},
					"duration": {"text": "10 mins", "value": 600},
					"start_address": "Start St",
					"end_address": "End Ave",
					"steps": []
				}]
			}]
		}`)
	}))

	result, err := client.GetDirections(context.Background(), "origin", "dest", []string{"a", "b"}, "walking")

	require.NoError(t, err)
	assert.Equal(t, 5000, result.Distance.Value)
	assert.Equal(t, 600, result.Duration.Value)
	assert.Equal(t, "abc123", result.Polyline)
}

func TestSearchNearbyCapsRadius(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/nearbysearch/json", r.URL.Path)
		assert.Equal(t, "50000", r.URL.Query().Get("radius"))

		fmt.Fprint(w, `{"status": "OK", "results": [{"name": "Cafe"}]}`)
	}))

	result, err := client.SearchNearby(context.Background(), 21.0, 105.8, 99999, "", "")

	require.NoError(t, err)
	assert.JSONEq(t, `[{"name": "Cafe"}]`, string(result.Places))
}

func TestHTTPStatusError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.GetPlaceDetails(context.Background(), "ChIJ123")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "403")
}

func TestOptimizeRoute(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "optimize:true|w1|w2", r.URL.Query().Get("waypoints"))

		fmt.Fprint(w, `{
			"status": "OK",
			"routes": [{"waypoint_order": [1, 0], "overview_polyline": {"points": "xyz"}}]
		}`)
	}))

	result, err := client.OptimizeRoute(context.Background(), "origin", "dest", []string{"w1", "w2"})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, result.WaypointOrder)
}

func TestCalculateTravelTime(t *testing.T) {
	t.Run("TooFewPlaces", func(t *testing.T) {
		client := NewClient(config.MapsConfig{APIKey: "k", BaseURL: "http://localhost"}, nil, nil, slog.Default())

		_, err := client.CalculateTravelTime(context.Background(), []TravelPoint{{Latitude: 1, Longitude: 2}})

		assert.ErrorIs(t, err, types.ErrBadRequest)
	})

	t.Run("SumsSegments", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{
				"status": "OK",
				"routes": [{
					"overview_polyline": {"points": "p"},
					"legs": [{
						"distance": {"text": "3 km", "value": 3000},
						"duration": {"text": "6 mins", "value": 360},
						"start_address": "a", "end_address": "b", "steps": []
					}]
				}]
			}`)
		}))

		points := []TravelPoint{
			{Name: "Hotel", Latitude: 21.0, Longitude: 105.8},
			{Name: "Museum", Latitude: 21.1, Longitude: 105.9},
			{Name: "Market", Latitude: 21.2, Longitude: 106.0},
		}

		result, err := client.CalculateTravelTime(context.Background(), points)

		require.NoError(t, err)
		assert.Equal(t, 6000, result.TotalDistance.Meters)
		assert.InDelta(t, 6.0, result.TotalDistance.Km, 1e-9)
		assert.Equal(t, 720, result.TotalDuration.Seconds)
		assert.InDelta(t, 12.0, result.TotalDuration.Minutes, 1e-9)
		require.Len(t, result.Segments, 2)
		assert.Equal(t, "Hotel", result.Segments[0].From)
		assert.Empty(t, result.SkippedSegments)
	})

	t.Run("RecordsSkippedSegments", func(t *testing.T) {
		var call int
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			call++
			if call == 1 {
				fmt.Fprint(w, `{"status": "ZERO_RESULTS", "routes": []}`)
				return
			}
			fmt.Fprint(w, `{
				"status": "OK",
				"routes": [{
					"overview_polyline": {"points": "p"},
					"legs": [{
						"distance": {"text": "3 km", "value": 3000},
						"duration": {"text": "6 mins", "value": 360},
						"start_address": "a", "end_address": "b", "steps": []
					}]
				}]
			}`)
		}))

		points := []TravelPoint{
			{Name: "Hotel", Latitude: 21.0, Longitude: 105.8},
			{Latitude: 21.1, Longitude: 105.9},
			{Name: "Market", Latitude: 21.2, Longitude: 106.0},
		}

		result, err := client.CalculateTravelTime(context.Background(), points)

		require.NoError(t, err)
		// Totals cover only the successful leg.
		assert.Equal(t, 3000, result.TotalDistance.Meters)
		require.Len(t, result.Segments, 1)
		require.Len(t, result.SkippedSegments, 1)
		assert.Equal(t, "Hotel", result.SkippedSegments[0].From)
		assert.Equal(t, "Place 2", result.SkippedSegments[0].To)
		assert.Contains(t, result.SkippedSegments[0].Error, "ZERO_RESULTS")
	})
}
