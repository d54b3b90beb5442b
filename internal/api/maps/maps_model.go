package maps

import "encoding/json"

// TextValue mirrors the Google Maps distance/duration pair: a display
// string plus the raw value (meters or seconds).
type TextValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

type GeocodeResult struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
	PlaceID          string  `json:"place_id,omitempty"`
}

type ReverseGeocodeResult struct {
	FormattedAddress  string          `json:"formatted_address"`
	PlaceID           string          `json:"place_id,omitempty"`
	AddressComponents json.RawMessage `json:"address_components,omitempty"`
}

type DirectionsResult struct {
	Distance     TextValue       `json:"distance"`
	Duration     TextValue       `json:"duration"`
	StartAddress string          `json:"start_address"`
	EndAddress   string          `json:"end_address"`
	Steps        json.RawMessage `json:"steps,omitempty"`
	Polyline     string          `json:"polyline"`
}

type DistanceMatrixResult struct {
	Origins      []string        `json:"origins"`
	Destinations []string        `json:"destinations"`
	Rows         json.RawMessage `json:"rows"`
}

type NearbyResult struct {
	Places json.RawMessage `json:"places"`
}

type PlaceDetailsResult struct {
	Place json.RawMessage `json:"place"`
}

type OptimizeRouteResult struct {
	WaypointOrder []int           `json:"waypoint_order"`
	Route         json.RawMessage `json:"route"`
}

// TravelPoint is one stop in a travel-time calculation.
type TravelPoint struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

type TravelSegment struct {
	From     string    `json:"from"`
	To       string    `json:"to"`
	Distance TextValue `json:"distance"`
	Duration TextValue `json:"duration"`
}

// SkippedSegment records a leg whose directions lookup failed. Totals
// cover successful segments only, so skipped legs are surfaced instead
// of silently dropped.
type SkippedSegment struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Error string `json:"error"`
}

type TravelTimeResult struct {
	TotalDistance struct {
		Meters int     `json:"meters"`
		Km     float64 `json:"km"`
	} `json:"total_distance"`
	TotalDuration struct {
		Seconds int     `json:"seconds"`
		Minutes float64 `json:"minutes"`
		Hours   float64 `json:"hours"`
	} `json:"total_duration"`
	Segments        []TravelSegment  `json:"segments"`
	SkippedSegments []SkippedSegment `json:"skipped_segments,omitempty"`
}

// Wire shapes of the upstream Google responses; only the fields read by
// the client are declared.

type googleGeocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress  string          `json:"formatted_address"`
		PlaceID           string          `json:"place_id"`
		AddressComponents json.RawMessage `json:"address_components"`
		Geometry          struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type googleDirectionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		WaypointOrder    []int           `json:"waypoint_order"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance     TextValue       `json:"distance"`
			Duration     TextValue       `json:"duration"`
			StartAddress string          `json:"start_address"`
			EndAddress   string          `json:"end_address"`
			Steps        json.RawMessage `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

type googleOptimizeResponse struct {
	Status string            `json:"status"`
	Routes []json.RawMessage `json:"routes"`
}

type googleDistanceMatrixResponse struct {
	Status               string          `json:"status"`
	OriginAddresses      []string        `json:"origin_addresses"`
	DestinationAddresses []string        `json:"destination_addresses"`
	Rows                 json.RawMessage `json:"rows"`
}

type googleNearbyResponse struct {
	Status  string          `json:"status"`
	Results json.RawMessage `json:"results"`
}

type googlePlaceDetailsResponse struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
}
