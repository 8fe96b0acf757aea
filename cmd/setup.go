package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"liarsdice/config"
	"liarsdice/domain/interfaces"
	"liarsdice/infrastructure"
	"liarsdice/infrastructure/observability"

	"github.com/sirupsen/logrus"
)

// SetupLogging applies the configured level and, in production, the JSON formatter
func SetupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)

	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// connectEvents returns the local handler registry, the publisher the runner
// uses and a cleanup func. With NATS configured every event is also mirrored
// to JetStream; local handlers run either way.
func connectEvents(ctx context.Context, cfg *config.Config) (*infrastructure.LocalEventPublisher, interfaces.EventPublisher, func(), error) {
	local := infrastructure.NewLocalEventPublisher()
	if cfg.NATSServers == "" {
		log.Println("NATS not configured, events stay in process")
		return local, local, func() {}, nil
	}

	log.Printf("Connecting to NATS at %s...", cfg.NATSServers)
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	publisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := publisher.EnsureGameEventStream(); err != nil {
		natsClient.Close()
		return nil, nil, nil, fmt.Errorf("failed to ensure game event stream: %w", err)
	}
	log.Println("NATS connection established successfully")

	cleanup := func() {
		if err := natsClient.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}
	return publisher.LocalEventPublisher, publisher, cleanup, nil
}

// initMetrics starts the global metrics provider. Metrics failures never stop the game.
func initMetrics(ctx context.Context, cfg *config.Config) interfaces.GameMetrics {
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.Printf("Failed to initialize metrics, continuing without: %v", err)
		return nil
	}
	return observability.GetMetrics()
}

// newLLMSource builds the language model player when an API key is configured
func newLLMSource(cfg *config.Config) (interfaces.DecisionSource, error) {
	if !cfg.HasLLM() {
		return nil, nil
	}
	source, err := infrastructure.NewLLMDecisionSource(infrastructure.LLMConfig{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM decision source: %w", err)
	}
	return source, nil
}
