package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	appmetrics "github.com/tourvn/go-tourism-backend/app/observability/metrics"
	"github.com/tourvn/go-tourism-backend/config"
)

func collectCounter(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestQueryTracerCountsFailures(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := appmetrics.NewAppMetrics(provider.Meter("test"))
	require.NoError(t, err)

	tracer := &queryTracer{metrics: metrics}
	ctx := context.Background()

	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("relation does not exist")})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: pgx.ErrNoRows})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	assert.Equal(t, int64(1), collectCounter(t, reader, "db_query_errors_total"))
}

func TestConnectionURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.Repositories.Postgres = config.PostgresConfig{
		Host:     "localhost",
		Port:     "5432",
		Username: "tourism",
		Password: "secret",
		DB:       "tourism",
	}

	url, err := ConnectionURL(cfg)
	require.NoError(t, err)
	assert.Contains(t, url, "postgresql://")
	assert.Contains(t, url, "sslmode=disable")

	cfg.Repositories.Postgres.Host = ""
	_, err = ConnectionURL(cfg)
	assert.Error(t, err)
}
