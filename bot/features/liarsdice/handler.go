package liarsdice

import (
	"context"
	"errors"
	"fmt"

	"liarsdice/application"
	"liarsdice/bot/common"
	"liarsdice/domain/entities"
	"liarsdice/domain/interfaces"
	"liarsdice/domain/services"
	"liarsdice/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// startOptions are the parsed options of /liarsdice start
type startOptions struct {
	opponents []*discordgo.User
	bots      int
	botsSet   bool
	llm       bool
}

func parseStartOptions(s *discordgo.Session, options []*discordgo.ApplicationCommandInteractionDataOption) startOptions {
	var opts startOptions
	for _, opt := range options {
		switch opt.Name {
		case "opponent", "opponent2", "opponent3":
			if user := opt.UserValue(s); user != nil {
				opts.opponents = append(opts.opponents, user)
			}
		case "bots":
			opts.bots = int(opt.IntValue())
			opts.botsSet = true
		case "llm":
			opts.llm = opt.BoolValue()
		}
	}
	return opts
}

// buildSeats seats the host first, then invited humans, then automated players.
// With no opponents and no explicit bot count the host plays one bot.
func buildSeats(host *discordgo.User, opts startOptions, broker interfaces.DecisionSource, llm interfaces.DecisionSource) ([]application.Seat, error) {
	seats := []application.Seat{{ID: host.ID, Name: host.Username, Kind: entities.ParticipantHuman, Source: broker}}
	seen := map[string]bool{host.ID: true}

	for _, user := range opts.opponents {
		if user.Bot {
			return nil, common.NewUserError("Bots cannot be invited. Use the bots option to add automated players.", "invited a bot user")
		}
		if seen[user.ID] {
			continue
		}
		seen[user.ID] = true
		seats = append(seats, application.Seat{ID: user.ID, Name: user.Username, Kind: entities.ParticipantHuman, Source: broker})
	}

	bots := opts.bots
	if !opts.botsSet && len(seats) == 1 && !opts.llm {
		bots = 1
	}
	if bots < 0 || bots > common.MaxBotSeats {
		return nil, common.NewUserError(fmt.Sprintf("You can add between 0 and %d bots.", common.MaxBotSeats), "bot count out of range")
	}
	for n := 1; n <= bots; n++ {
		seats = append(seats, application.Seat{
			ID:     fmt.Sprintf("bot-%d", n),
			Name:   fmt.Sprintf(common.BotNameStyle, n),
			Kind:   entities.ParticipantBot,
			Source: services.NewThresholdStrategy(),
		})
	}

	if opts.llm {
		if llm == nil {
			return nil, common.NewUserError("No language model is configured for this bot.", "llm seat requested without LLM config")
		}
		seats = append(seats, application.Seat{ID: "llm", Name: "Oracle", Kind: entities.ParticipantLLM, Source: llm})
	}

	if len(seats) < entities.MinParticipants || len(seats) > entities.MaxParticipants {
		return nil, common.NewUserError(
			fmt.Sprintf("A table needs between %d and %d players, this one has %d.", entities.MinParticipants, entities.MaxParticipants, len(seats)),
			"participant count out of range",
		)
	}
	return seats, nil
}

// handleStart seats a new table in the channel and runs it in the background
func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	if _, busy := f.tableInChannel(i.ChannelID); busy {
		return common.NewUserError("A game is already running in this channel.", "start while a game is running")
	}

	host := common.InteractionUser(i)
	channelID := i.ChannelID
	broker := services.NewDecisionBroker(func(req interfaces.DecisionRequest) {
		f.prompt(channelID, req)
	})

	seats, err := buildSeats(host, parseStartOptions(s, options), broker, f.llm)
	if err != nil {
		return err
	}

	game, err := f.runner.NewGame("", seats)
	if err != nil {
		return common.NewSystemError(err, "failed to create game")
	}

	ctx, cancel := context.WithCancel(f.ctx)
	t := &activeTable{
		gameID:    game.ID,
		channelID: channelID,
		game:      game,
		broker:    broker,
		humans:    make(map[string]bool),
		cancel:    cancel,
	}
	for _, seat := range seats {
		if seat.Kind == entities.ParticipantHuman {
			t.humans[seat.ID] = true
		}
	}
	if !f.addTable(t) {
		cancel()
		return common.NewUserError("A game is already running in this channel.", "start raced another start")
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{BuildTableEmbed(game, f.settings.StartingDice)},
		},
	})
	if err != nil {
		log.Errorf("Error responding to start command: %v", err)
	}

	go f.play(ctx, t)
	return nil
}

func (f *Feature) play(ctx context.Context, t *activeTable) {
	defer t.cancel()
	defer f.removeTable(t)

	result, err := f.runner.Play(ctx, t.game)
	if err != nil {
		log.WithFields(log.Fields{
			"table_id":   t.gameID,
			"channel_id": t.channelID,
			"error":      err,
		}).Warn("Game ended without a winner")
		return
	}

	log.WithFields(log.Fields{
		"table_id": t.gameID,
		"winner":   result.WinnerName,
		"rounds":   result.Rounds,
	}).Info("Game finished")
}

// prompt asks a human to act in the table's channel
func (f *Feature) prompt(channelID string, req interfaces.DecisionRequest) {
	content := BuildTurnPrompt(req, f.settings.MaxInvalidActions)
	if _, err := f.sender.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Content: content}); err != nil {
		log.WithFields(log.Fields{
			"channel_id":     channelID,
			"participant_id": req.ParticipantID,
			"error":          err,
		}).Error("Failed to prompt player")
	}
}

// seatedTable returns the channel's table after checking the invoker plays at it
func (f *Feature) seatedTable(i *discordgo.InteractionCreate) (*activeTable, string, error) {
	t, ok := f.tableInChannel(i.ChannelID)
	if !ok {
		return nil, "", common.NewUserError("No game is running in this channel. Start one with /liarsdice start.", "no table in channel")
	}
	userID := common.InteractionUser(i).ID
	if !t.humans[userID] {
		return nil, "", common.NewUserError("You are not playing at this table.", "not seated")
	}
	return t, userID, nil
}

// submit hands an action to the waiting game loop
func (f *Feature) submit(s *discordgo.Session, i *discordgo.InteractionCreate, action entities.Action) error {
	t, userID, err := f.seatedTable(i)
	if err != nil {
		return err
	}

	if err := t.broker.Submit(userID, action); err != nil {
		if errors.Is(err, entities.ErrNoPendingDecision) {
			return common.NewUserError(entities.ErrNotYourTurn.Error(), "action out of turn")
		}
		return common.NewSystemError(err, "failed to submit action")
	}

	common.RespondEphemeral(s, i, fmt.Sprintf("Submitted: %s", action))
	return nil
}

func (f *Feature) handleBid(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	var quantity, face int
	for _, opt := range options {
		switch opt.Name {
		case "quantity":
			quantity = int(opt.IntValue())
		case "face":
			face = int(opt.IntValue())
		}
	}
	// the session validates the bid against the ledger and re-asks on rejection
	return f.submit(s, i, entities.Action{Quantity: quantity, Face: face})
}

func (f *Feature) handleLiar(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return f.submit(s, i, entities.ChallengeAction())
}

// handleDice privately shows the invoker their dice, with the advisory when it is their turn
func (f *Feature) handleDice(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	t, userID, err := f.seatedTable(i)
	if err != nil {
		return err
	}

	content, embed, err := t.diceReply(userID)
	if err != nil {
		return err
	}
	if embed == nil {
		common.RespondEphemeral(s, i, content)
		return nil
	}
	common.RespondEphemeral(s, i, content, embed)
	return nil
}

// diceReply builds the private reply for /liarsdice dice. Eliminated players
// are no longer seated in the session and only get a message.
func (t *activeTable) diceReply(userID string) (string, *discordgo.MessageEmbed, error) {
	req, pending := t.broker.Pending(userID)
	if !pending {
		var err error
		req, err = t.game.Session.ViewFor(userID)
		if errors.Is(err, entities.ErrUnknownPlayer) {
			return "You are out of dice.", nil, nil
		}
		if err != nil {
			return "", nil, common.NewSystemError(err, "failed to build player view")
		}
	}

	content := ""
	if len(req.OwnDice) == 0 {
		content = "You are out of dice."
	} else if pending {
		content = fmt.Sprintf("It is your turn. Dice: %s", utils.FormatDice(req.OwnDice))
	}
	return content, BuildDiceEmbed(req), nil
}
