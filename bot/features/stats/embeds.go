package stats

import (
	"fmt"
	"strings"

	"liarsdice/bot/common"
	"liarsdice/domain/entities"
	"liarsdice/domain/utils"

	"github.com/bwmarrin/discordgo"
)

// BuildRecordEmbed shows a player's lifetime record. record may be nil for a player with no games.
func BuildRecordEmbed(username string, record *entities.PlayerRecord) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎲 %s", username),
		Color: common.ColorPrimary,
	}

	if record == nil || record.GamesPlayed == 0 {
		embed.Description = "No games played yet."
		return embed
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Games", Value: fmt.Sprintf("%d", record.GamesPlayed), Inline: true},
		{Name: "Wins", Value: fmt.Sprintf("%d (%s)", record.GamesWon, utils.FormatPercent(record.WinRate())), Inline: true},
		{Name: "Dice lost", Value: fmt.Sprintf("%d", record.DiceLost), Inline: true},
		{Name: "Challenges", Value: fmt.Sprintf("%d made, %d won (%s)", record.ChallengesMade, record.ChallengesWon, utils.FormatPercent(record.ChallengeSuccessRate())), Inline: false},
	}
	return embed
}

// BuildLeaderboardEmbed lists the standings in text
func BuildLeaderboardEmbed(records []*entities.PlayerRecord) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(records))
	for i, r := range records {
		lines = append(lines, fmt.Sprintf("%s **%s** %d/%d won (%s)", rankMarker(i), displayName(r), r.GamesWon, r.GamesPlayed, utils.FormatPercent(r.WinRate())))
	}

	return &discordgo.MessageEmbed{
		Title:       "🏆 Liar's Dice leaderboard",
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorSuccess,
	}
}

func rankMarker(i int) string {
	switch i {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", i+1)
	}
}

func displayName(r *entities.PlayerRecord) string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.PlayerID
}
