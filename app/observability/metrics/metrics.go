package metrics

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the instrument handles shared through the container.
type AppMetrics struct {
	AIRequestsTotal          metric.Int64Counter
	AIRequestDurationSeconds metric.Float64Histogram
	MapsRequestsTotal        metric.Int64Counter
	DBQueryErrorsTotal       metric.Int64Counter
}

// NewAppMetrics creates the application instruments from the given
// meter. Called once at startup after the meter provider is registered.
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	m := &AppMetrics{}
	var err error

	m.AIRequestsTotal, err = meter.Int64Counter(
		"ai_requests_total",
		metric.WithDescription("Total number of language-model requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai_requests_total: %w", err)
	}

	m.AIRequestDurationSeconds, err = meter.Float64Histogram(
		"ai_request_duration_seconds",
		metric.WithDescription("Duration of language-model requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai_request_duration_seconds: %w", err)
	}

	m.MapsRequestsTotal, err = meter.Int64Counter(
		"maps_requests_total",
		metric.WithDescription("Total number of Google Maps API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps_requests_total: %w", err)
	}

	m.DBQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db_query_errors_total: %w", err)
	}

	return m, nil
}
