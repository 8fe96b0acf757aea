package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"liarsdice/application"
	"liarsdice/bot"
	"liarsdice/config"
	"liarsdice/database"
	"liarsdice/domain/utils"
	"liarsdice/infrastructure"
	"liarsdice/infrastructure/observability"
)

// Run initializes and starts the Discord bot
func Run(ctx context.Context) error {
	log.Println("Starting liarsdice bot...")

	// Load configuration
	cfg := config.Get()
	SetupLogging(cfg)
	if err := cfg.ValidateForBot(); err != nil {
		return err
	}

	// Initialize database connection
	log.Println("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event publishing
	registrar, publisher, closeEvents, err := connectEvents(ctx, cfg)
	if err != nil {
		db.Close()
		return err
	}

	// Initialize metrics
	metrics := initMetrics(ctx, cfg)

	// Initialize unit of work factory
	log.Println("Initializing unit of work factory...")
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, publisher)

	llm, err := newLLMSource(cfg)
	if err != nil {
		log.Printf("LLM players disabled: %v", err)
	}

	settings := application.SettingsFromConfig(cfg)
	runner := application.NewGameRunner(uowFactory, publisher, metrics, utils.NewCryptoRoller(), settings)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.GuildID,
	}
	discordBot, err := bot.New(botConfig, runner, settings, uowFactory, registrar, llm)
	if err != nil {
		closeEvents()
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics: %v", err)
	}

	closeEvents()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
