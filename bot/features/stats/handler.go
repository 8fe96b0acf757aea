package stats

import (
	"bytes"
	"context"

	"liarsdice/bot/common"
	"liarsdice/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleStats displays one player's lifetime record
func (f *Feature) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	// Default to command issuer
	target := common.InteractionUser(i)
	for _, opt := range options {
		if opt.Name == "user" {
			if user := opt.UserValue(s); user != nil {
				target = user
			}
		}
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return common.NewSystemError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	recordService := services.NewPlayerRecordService(uow.PlayerRecordRepository())
	record, err := recordService.GetRecord(ctx, target.ID)
	if err != nil {
		return common.NewSystemError(err, "failed to load player record")
	}

	if err := uow.Commit(); err != nil {
		return common.NewSystemError(err, "failed to commit transaction")
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{BuildRecordEmbed(target.Username, record)},
		},
	})
	if err != nil {
		log.Errorf("Error responding to stats command: %v", err)
	}
	return nil
}

// handleLeaderboard displays the top players as an image
func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	limit := services.DefaultLeaderboardLimit
	for _, opt := range options {
		if opt.Name == "limit" {
			limit = int(opt.IntValue())
		}
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return common.NewSystemError(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	recordService := services.NewPlayerRecordService(uow.PlayerRecordRepository())
	records, err := recordService.GetLeaderboard(ctx, limit)
	if err != nil {
		return common.NewSystemError(err, "failed to load leaderboard")
	}

	if err := uow.Commit(); err != nil {
		return common.NewSystemError(err, "failed to commit transaction")
	}

	if len(records) == 0 {
		common.RespondEphemeral(s, i, "No games have been recorded yet.")
		return nil
	}

	embed := BuildLeaderboardEmbed(records)
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}

	image, err := f.images.Generate(records)
	if err != nil {
		// the embed alone still carries the standings
		log.Warnf("Failed to generate leaderboard image: %v", err)
	} else {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://leaderboard.png"}
		data.Files = []*discordgo.File{{
			Name:        "leaderboard.png",
			ContentType: "image/png",
			Reader:      bytes.NewReader(image),
		}}
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
	return nil
}
