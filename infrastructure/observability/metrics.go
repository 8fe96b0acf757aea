package observability

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"liarsdice/config"
	"liarsdice/domain/entities"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics and implements interfaces.GameMetrics
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	gamesStartedCounter   metric.Int64Counter
	gamesFinishedCounter  metric.Int64Counter
	gamesActiveGauge      metric.Int64UpDownCounter
	gameRoundsHist        metric.Int64Histogram
	gameDurationHist      metric.Float64Histogram
	roundsResolvedCounter metric.Int64Counter
	decisionDurationHist  metric.Float64Histogram
	invalidActionsCounter metric.Int64Counter
	fallbackCounter       metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Println("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Println("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Println("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.Printf("Using OTLP metric exporter: %s", mp.config.OTelOTLPEndpoint)

	case "none":
		log.Println("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	if err := mp.initializeWithReader(reader); err != nil {
		return err
	}

	// Set as global meter provider
	otel.SetMeterProvider(mp.meterProvider)

	log.Println("Metrics provider initialized successfully")
	return nil
}

// initializeWithReader builds the meter provider on reader. Caller holds mp.mu.
func (mp *MetricsProvider) initializeWithReader(reader sdkmetric.Reader) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter("liarsdice")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.gamesStartedCounter, err = mp.meter.Int64Counter(
		GamesStartedTotal,
		metric.WithDescription("Total number of games started"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create games started counter: %w", err)
	}

	mp.gamesFinishedCounter, err = mp.meter.Int64Counter(
		GamesFinishedTotal,
		metric.WithDescription("Total number of games played to a winner"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create games finished counter: %w", err)
	}

	// UpDownCounter for gauge-like behavior
	mp.gamesActiveGauge, err = mp.meter.Int64UpDownCounter(
		GamesActive,
		metric.WithDescription("Current number of games in progress"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create games active gauge: %w", err)
	}

	mp.gameRoundsHist, err = mp.meter.Int64Histogram(
		GameRounds,
		metric.WithDescription("Rounds needed to finish a game"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(2, 4, 6, 8, 10, 15, 20, 30),
	)
	if err != nil {
		return fmt.Errorf("failed to create game rounds histogram: %w", err)
	}

	mp.gameDurationHist, err = mp.meter.Float64Histogram(
		GameDuration,
		metric.WithDescription("Wall clock duration of finished games in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create game duration histogram: %w", err)
	}

	mp.roundsResolvedCounter, err = mp.meter.Int64Counter(
		RoundsResolvedTotal,
		metric.WithDescription("Total number of challenges resolved"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rounds resolved counter: %w", err)
	}

	mp.decisionDurationHist, err = mp.meter.Float64Histogram(
		DecisionDuration,
		metric.WithDescription("Time taken by a decision source to answer, in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return fmt.Errorf("failed to create decision duration histogram: %w", err)
	}

	mp.invalidActionsCounter, err = mp.meter.Int64Counter(
		InvalidActionsTotal,
		metric.WithDescription("Total number of rejected actions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create invalid actions counter: %w", err)
	}

	mp.fallbackCounter, err = mp.meter.Int64Counter(
		DecisionFallbackTotal,
		metric.WithDescription("Total number of actions chosen by the table on a participant's behalf"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create fallback counter: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordGameStarted counts a game and marks it active
func (mp *MetricsProvider) RecordGameStarted(players int) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(attribute.Int(LabelPlayers, players))
	mp.gamesStartedCounter.Add(context.Background(), 1, attrs)
	mp.gamesActiveGauge.Add(context.Background(), 1)
}

// RecordGameFinished records a game played to a winner
func (mp *MetricsProvider) RecordGameFinished(rounds int, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	ctx := context.Background()
	mp.gamesFinishedCounter.Add(ctx, 1)
	mp.gamesActiveGauge.Add(ctx, -1)
	mp.gameRoundsHist.Record(ctx, int64(rounds))
	mp.gameDurationHist.Record(ctx, duration.Seconds())
}

// RecordRoundResolved records one challenge outcome
func (mp *MetricsProvider) RecordRoundResolved(bidWasTrue bool) {
	if !mp.isEnabled() {
		return
	}

	mp.roundsResolvedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.Bool(LabelBidWasTrue, bidWasTrue),
		),
	)
}

// RecordDecision records how long a decision source took
func (mp *MetricsProvider) RecordDecision(kind entities.ParticipantKind, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	mp.decisionDurationHist.Record(context.Background(), duration.Seconds(),
		metric.WithAttributes(
			attribute.String(LabelParticipantKind, string(kind)),
		),
	)
}

// RecordInvalidAction records a rejected action
func (mp *MetricsProvider) RecordInvalidAction(reason string) {
	if !mp.isEnabled() {
		return
	}

	mp.invalidActionsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelReason, reason),
		),
	)
}

// RecordFallback records a fallback action
func (mp *MetricsProvider) RecordFallback(reason string) {
	if !mp.isEnabled() {
		return
	}

	mp.fallbackCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelReason, reason),
		),
	)
}

// isEnabled checks if instruments exist
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meterProvider != nil
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
