package liarsdice

import (
	"bytes"
	"fmt"
	"strings"

	"liarsdice/application"
	"liarsdice/bot/common"
	"liarsdice/domain/entities"
	"liarsdice/domain/events"
	"liarsdice/domain/interfaces"
	"liarsdice/domain/utils"

	"github.com/bwmarrin/discordgo"
)

// BuildTableEmbed lists the seats of a table that is about to start
func BuildTableEmbed(game *application.Game, startingDice int) *discordgo.MessageEmbed {
	var lines []string
	for i, seat := range game.Seats() {
		lines = append(lines, fmt.Sprintf("%d. %s %s", i+1, seatLabel(seat), kindBadge(seat.Kind)))
	}

	return &discordgo.MessageEmbed{
		Title:       "🎲 Liar's Dice",
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Dice each", Value: fmt.Sprintf("%d", startingDice), Inline: true},
			{Name: "Wilds", Value: "Ones count as any face", Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Check your dice with /liarsdice dice. Bid with /liarsdice bid or call /liarsdice liar on your turn.",
		},
	}
}

// BuildDiceEmbed shows a participant their own dice and, when a bid stands, the advisory numbers
func BuildDiceEmbed(req interfaces.DecisionRequest) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Your dice",
		Description: fmt.Sprintf("%s  (%s)", utils.FormatDiceGlyphs(req.OwnDice), utils.FormatDice(req.OwnDice)),
		Color:       common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Dice on the table", Value: fmt.Sprintf("%d", req.TotalDice), Inline: true},
			{Name: "Round", Value: fmt.Sprintf("%d", req.Round), Inline: true},
		},
	}

	if req.CurrentBid == nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Current bid", Value: "none, the opener bids", Inline: false})
		return embed
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Current bid", Value: utils.FormatBid(*req.CurrentBid), Inline: false})
	if req.Advisory != nil {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Chance it is true", Value: utils.FormatPercent(req.Advisory.TruthProbability), Inline: true},
			&discordgo.MessageEmbedField{Name: "Expected count", Value: fmt.Sprintf("%.2f", req.Advisory.ExpectedTotal), Inline: true},
		)
		if req.Advisory.BestBid != nil {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Safest raise",
				Value: fmt.Sprintf("%s (%s)", utils.FormatBid(*req.Advisory.BestBid), utils.FormatPercent(req.Advisory.BestBidProbability)),
			})
		}
	}
	return embed
}

// BuildTurnPrompt is the channel line asking a human to act
func BuildTurnPrompt(req interfaces.DecisionRequest, maxAttempts int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<@%s>, your turn.", req.ParticipantID)
	if req.CurrentBid != nil {
		fmt.Fprintf(&b, " The bid is **%s** with %d dice on the table.", utils.FormatBid(*req.CurrentBid), req.TotalDice)
	} else {
		fmt.Fprintf(&b, " You open round %d, %d dice on the table.", req.Round, req.TotalDice)
	}
	if req.LastRejection != "" {
		fmt.Fprintf(&b, "\n⚠️ %s (attempt %d of %d)", req.LastRejection, req.Attempt, maxAttempts)
	}
	return b.String()
}

// buildEventMessage renders a display event. A nil message means the event is not shown.
func buildEventMessage(event events.Event) (*discordgo.MessageSend, error) {
	switch e := event.(type) {
	case events.GameStartedEvent:
		return embedMessage(&discordgo.MessageEmbed{
			Title:       "Dice are rolled",
			Description: formatDiceCounts(e.DiceCounts),
			Color:       common.ColorPrimary,
		}), nil

	case events.BidMadeEvent:
		return &discordgo.MessageSend{
			Content: fmt.Sprintf("🗣️ **%s** bids **%s**", e.Name, utils.FormatBid(e.Bid)),
		}, nil

	case events.ChallengeCalledEvent:
		return embedMessage(&discordgo.MessageEmbed{
			Title:       "Liar!",
			Description: fmt.Sprintf("**%s** calls **%s**'s bid of %s", e.Challenger, e.Bidder, utils.FormatBid(e.Bid)),
			Color:       common.ColorWarning,
		}), nil

	case events.DiceRevealedEvent:
		return buildRevealMessage(e)

	case events.RoundResolvedEvent:
		verdict := "The bid was a lie"
		if e.BidWasTrue {
			verdict = "The bid was true"
		}
		embed := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("Round %d", e.Round),
			Description: fmt.Sprintf("%s. **%s** loses a die.", verdict, e.Loser),
			Color:       common.ColorDanger,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Dice left", Value: formatDiceCounts(e.DiceCounts)},
			},
		}
		return embedMessage(embed), nil

	case events.PlayerEliminatedEvent:
		return &discordgo.MessageSend{
			Content: fmt.Sprintf("💀 **%s** is out of dice. %d players remain.", e.Name, e.Remaining),
		}, nil

	case events.GameOverEvent:
		return embedMessage(&discordgo.MessageEmbed{
			Title:       "🏆 Game over",
			Description: fmt.Sprintf("**%s** wins with %d %s left after %d rounds.", e.Winner, e.WinnerDice, plural(e.WinnerDice, "die", "dice"), e.Rounds),
			Color:       common.ColorSuccess,
		}), nil

	case events.ActionRejectedEvent:
		return &discordgo.MessageSend{
			Content: fmt.Sprintf("🚫 %s's %s was rejected: %s", e.Name, e.Action, e.Reason),
		}, nil

	case events.DecisionFallbackEvent:
		what := "calls liar"
		if !e.Action.IsChallenge() {
			what = fmt.Sprintf("bids %s", utils.FormatBid(entities.Bid{Quantity: e.Action.Quantity, Face: e.Action.Face}))
		}
		return &discordgo.MessageSend{
			Content: fmt.Sprintf("⏱️ %s did not act in time (%s) and automatically %s", e.Name, strings.ReplaceAll(e.Reason, "_", " "), what),
		}, nil
	}
	return nil, nil
}

func buildRevealMessage(e events.DiceRevealedEvent) (*discordgo.MessageSend, error) {
	image, err := NewRevealImageGenerator().Generate(e)
	if err != nil {
		return nil, err
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Dice revealed",
		Description: fmt.Sprintf("Bid: **%s**. Counted: **%d**.", utils.FormatBid(e.Bid), e.ActualCount),
		Color:       common.ColorInfo,
		Image:       &discordgo.MessageEmbedImage{URL: "attachment://reveal.png"},
	}
	for _, pool := range e.Pools {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   pool.Name,
			Value:  fmt.Sprintf("%s (%d)", utils.FormatDiceGlyphs(pool.Dice), matchingDice(pool, e.Bid.Face)),
			Inline: true,
		})
	}
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Files: []*discordgo.File{{
			Name:        "reveal.png",
			ContentType: "image/png",
			Reader:      bytes.NewReader(image),
		}},
	}, nil
}

func embedMessage(embed *discordgo.MessageEmbed) *discordgo.MessageSend {
	return &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}
}

func formatDiceCounts(counts []entities.DiceCount) string {
	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("%s: %d", c.Name, c.Dice))
	}
	return strings.Join(lines, "\n")
}

func seatLabel(seat application.Seat) string {
	if seat.Kind == entities.ParticipantHuman {
		return fmt.Sprintf("<@%s>", seat.ID)
	}
	return seat.Name
}

func kindBadge(kind entities.ParticipantKind) string {
	switch kind {
	case entities.ParticipantBot:
		return "🤖"
	case entities.ParticipantLLM:
		return "🧠"
	default:
		return ""
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
