package stats

import (
	"liarsdice/application"
	"liarsdice/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature represents the player record feature
type Feature struct {
	uowFactory application.UnitOfWorkFactory
	images     *LeaderboardImageGenerator
}

// NewFeature creates a new stats feature instance. uowFactory may be nil when no database is configured.
func NewFeature(uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		uowFactory: uowFactory,
		images:     NewLeaderboardImageGenerator(),
	}
}

// HandleCommand handles the stats and leaderboard subcommands of /liarsdice
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: stats or leaderboard")
		return
	}

	if f.uowFactory == nil {
		common.RespondWithError(s, i, "Player records are not enabled on this bot.")
		return
	}

	var err error
	switch options[0].Name {
	case "stats":
		err = f.handleStats(s, i, options[0].Options)
	case "leaderboard":
		err = f.handleLeaderboard(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
		return
	}
	if err != nil {
		common.HandleError(s, i, err)
	}
}
