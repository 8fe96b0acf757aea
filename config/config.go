package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"liarsdice/database"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string `env:"DISCORD_TOKEN"`
	GuildID      string `env:"GUILD_ID"` // Guild to register slash commands in, empty for global

	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// NATS configuration
	NATSServers string `env:"NATS_SERVERS"` // Empty disables event mirroring

	// OpenTelemetry configuration
	OTelEnabled              bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME" envDefault:"liarsdice"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE" envDefault:"console"` // console, otlp, none
	OTelOTLPEndpoint         string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MILLIS" envDefault:"30000"`

	// LLM decision source configuration
	LLMAPIKey  string `env:"LLM_API_KEY"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	// Game configuration
	StartingDice      int           `env:"STARTING_DICE" envDefault:"5"`
	DecisionTimeout   time.Duration `env:"DECISION_TIMEOUT" envDefault:"60s"`
	MaxInvalidActions int           `env:"MAX_INVALID_ACTIONS" envDefault:"3"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// HasDatabase reports whether a database is configured
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// HasLLM reports whether the LLM decision source can be used
func (c *Config) HasLLM() bool {
	return c.LLMAPIKey != ""
}

// ValidateForBot checks the settings only the Discord bot needs
func (c *Config) ValidateForBot() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// load loads configuration from environment variables
func load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.StartingDice < 1 {
		return nil, fmt.Errorf("STARTING_DICE must be at least 1, got %d", cfg.StartingDice)
	}
	if cfg.DecisionTimeout <= 0 {
		return nil, fmt.Errorf("DECISION_TIMEOUT must be positive, got %s", cfg.DecisionTimeout)
	}
	if cfg.MaxInvalidActions < 1 {
		return nil, fmt.Errorf("MAX_INVALID_ACTIONS must be at least 1, got %d", cfg.MaxInvalidActions)
	}
	// If DatabaseName is provided, ensure it's not empty
	if cfg.DatabaseName != "" && strings.TrimSpace(cfg.DatabaseName) == "" {
		return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}

	return cfg, nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:       "test",
		StartingDice:      5,
		DecisionTimeout:   time.Second,
		MaxInvalidActions: 3,
		LLMModel:          "gpt-4o-mini",
		OTelExporterType:  "none",
		LogLevel:          "debug",
	}
}
