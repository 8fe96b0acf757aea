package bot

import (
	"fmt"

	"liarsdice/bot/common"
	"liarsdice/domain/entities"
	"liarsdice/domain/services"

	"github.com/bwmarrin/discordgo"
)

const commandName = common.CommandName

func floatPtr(f float64) *float64 { return &f }

// liarsDiceCommand is the single /liarsdice command with one subcommand per action
func liarsDiceCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        commandName,
		Description: "Play Liar's Dice",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "start",
				Description: "Start a game in this channel",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "opponent",
						Description: "Invite a player",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "opponent2",
						Description: "Invite another player",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "opponent3",
						Description: "Invite another player",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "bots",
						Description: "Number of automated players",
						Required:    false,
						MinValue:    floatPtr(0),
						MaxValue:    common.MaxBotSeats,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "llm",
						Description: "Seat a language model player",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "bid",
				Description: "Raise the bid on your turn",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "quantity",
						Description: "How many dice show the face",
						Required:    true,
						MinValue:    floatPtr(1),
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "face",
						Description: "The face, ones are wild",
						Required:    true,
						MinValue:    floatPtr(entities.MinFace),
						MaxValue:    entities.MaxFace,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "liar",
				Description: "Challenge the current bid on your turn",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "dice",
				Description: "Privately show your dice and the odds of the current bid",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "stats",
				Description: "Display a player's lifetime record",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "User to check stats for (defaults to you)",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "leaderboard",
				Description: "Display the top players",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "limit",
						Description: "How many players to show",
						Required:    false,
						MinValue:    floatPtr(1),
						MaxValue:    services.MaxLeaderboardLimit,
					},
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{liarsDiceCommand()}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
