package bot

import (
	"fmt"

	"liarsdice/application"
	"liarsdice/bot/features/liarsdice"
	"liarsdice/bot/features/stats"
	"liarsdice/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string // Guild to register commands in, empty for global registration
}

// Bot manages the Discord bot and all feature modules
type Bot struct {
	// Core components
	config     Config
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory

	// Feature modules
	liarsDice *liarsdice.Feature
	stats     *stats.Feature
}

// New creates a new bot instance with all features. uowFactory and llm may be nil.
func New(
	config Config,
	runner *application.GameRunner,
	settings application.GameSettings,
	uowFactory application.UnitOfWorkFactory,
	registrar liarsdice.EventRegistrar,
	llm interfaces.DecisionSource,
) (*Bot, error) {
	// Create Discord session
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:     config,
		session:    dg,
		uowFactory: uowFactory,
	}

	// Create feature modules
	bot.liarsDice = liarsdice.NewFeature(dg, runner, registrar, llm, settings)
	bot.stats = stats.NewFeature(uowFactory)

	// Register handlers
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithFields(log.Fields{
			"user":   r.User.Username,
			"guilds": len(r.Guilds),
		}).Info("Discord session ready")
	})

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	b.liarsDice.Close()
	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	if data.Name != commandName || len(data.Options) == 0 {
		return
	}

	switch data.Options[0].Name {
	case "stats", "leaderboard":
		b.stats.HandleCommand(s, i)
	default:
		b.liarsDice.HandleCommand(s, i)
	}
}
