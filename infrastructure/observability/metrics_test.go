package observability

import (
	"context"
	"testing"
	"time"

	"liarsdice/config"
	"liarsdice/domain/entities"
	"liarsdice/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var _ interfaces.GameMetrics = (*MetricsProvider)(nil)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetricsProvider_RecordsGameplay(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMetricsProvider(config.NewTestConfig())
	require.NoError(t, mp.initializeWithReader(reader))

	mp.RecordGameStarted(3)
	mp.RecordDecision(entities.ParticipantBot, 10*time.Millisecond)
	mp.RecordInvalidAction("invalid_bid")
	mp.RecordFallback("timeout")
	mp.RecordRoundResolved(true)
	mp.RecordRoundResolved(false)
	mp.RecordGameFinished(2, time.Second)

	metrics := collect(t, reader)
	assert.Equal(t, int64(1), sumOf(t, metrics[GamesStartedTotal]))
	assert.Equal(t, int64(1), sumOf(t, metrics[GamesFinishedTotal]))
	assert.Equal(t, int64(0), sumOf(t, metrics[GamesActive]))
	assert.Equal(t, int64(2), sumOf(t, metrics[RoundsResolvedTotal]))
	assert.Equal(t, int64(1), sumOf(t, metrics[InvalidActionsTotal]))
	assert.Equal(t, int64(1), sumOf(t, metrics[DecisionFallbackTotal]))
	assert.Contains(t, metrics, DecisionDuration)

	require.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false
	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))

	assert.NotPanics(t, func() {
		mp.RecordGameStarted(2)
		mp.RecordGameFinished(1, time.Second)
		mp.RecordFallback("timeout")
	})

	var nilProvider *MetricsProvider
	assert.NotPanics(t, func() { nilProvider.RecordRoundResolved(true) })
}

func TestMetricsProvider_NoneExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "none"
	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.NotPanics(t, func() { mp.RecordInvalidAction("invalid_bid") })
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"
	err := NewMetricsProvider(cfg).Initialize(context.Background())
	assert.Error(t, err)
}
