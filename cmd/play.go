package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"liarsdice/application"
	"liarsdice/config"
	"liarsdice/database"
	"liarsdice/domain/entities"
	"liarsdice/domain/interfaces"
	"liarsdice/domain/services"
	"liarsdice/domain/utils"
	"liarsdice/infrastructure"

	log "github.com/sirupsen/logrus"
)

// PlayOptions configure a terminal game
type PlayOptions struct {
	In  io.Reader
	Out io.Writer
	// Seed makes the dice reproducible when non-zero
	Seed int64
}

// Play runs one hot-seat game in the terminal. Humans share the keyboard;
// "bot" seats the threshold strategy and "llm" the language model when configured.
func Play(ctx context.Context, opts PlayOptions) error {
	cfg := config.Get()
	SetupLogging(cfg)

	input := infrastructure.NewConsoleInput(opts.In)
	llm, err := newLLMSource(cfg)
	if err != nil {
		return err
	}

	seats, err := promptSeats(ctx, input, opts.Out, llm)
	if err != nil {
		return err
	}

	publisher := infrastructure.NewLocalEventPublisher()
	infrastructure.NewConsoleDisplay(opts.Out).Register(publisher)

	var uowFactory application.UnitOfWorkFactory
	if cfg.HasDatabase() {
		db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		uowFactory = infrastructure.NewUnitOfWorkFactory(db, publisher)
	}

	var roller entities.Roller = utils.NewCryptoRoller()
	if opts.Seed != 0 {
		roller = utils.NewSeededRoller(opts.Seed)
		log.WithField("seed", opts.Seed).Info("Using seeded dice")
	}

	runner := application.NewGameRunner(uowFactory, publisher, initMetrics(ctx, cfg), roller, application.SettingsFromConfig(cfg))
	game, err := runner.NewGame("", seats)
	if err != nil {
		return err
	}

	_, err = runner.Play(ctx, game)
	return err
}

// promptSeats asks for the player count and a name per seat
func promptSeats(ctx context.Context, input *infrastructure.ConsoleInput, out io.Writer, llm interfaces.DecisionSource) ([]application.Seat, error) {
	var count int
	for count == 0 {
		fmt.Fprintf(out, "Number of players (%d-%d): ", entities.MinParticipants, entities.MaxParticipants)
		line, err := input.ReadLine(ctx)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < entities.MinParticipants || n > entities.MaxParticipants {
			fmt.Fprintln(out, "Please enter a number in range.")
			continue
		}
		count = n
	}

	human := infrastructure.NewConsoleDecisionSource(input, out)
	seats := make([]application.Seat, 0, count)
	bots := 0
	for n := 1; n <= count; n++ {
		fmt.Fprintf(out, "Name for player %d (blank for \"Player %d\", \"bot\" for a bot, \"llm\" for the language model): ", n, n)
		name, err := input.ReadLine(ctx)
		if err != nil {
			return nil, err
		}

		switch {
		case strings.EqualFold(name, "bot"):
			bots++
			seats = append(seats, application.Seat{
				ID:     fmt.Sprintf("bot-%d", bots),
				Name:   fmt.Sprintf("Bot %d", bots),
				Kind:   entities.ParticipantBot,
				Source: services.NewThresholdStrategy(),
			})
		case strings.EqualFold(name, "llm"):
			if llm == nil {
				return nil, errors.New("LLM_API_KEY is not set, cannot seat the language model")
			}
			seats = append(seats, application.Seat{ID: fmt.Sprintf("llm-%d", n), Name: "Oracle", Kind: entities.ParticipantLLM, Source: llm})
		default:
			// a blank name is left for the runner to fill in
			seats = append(seats, application.Seat{
				ID:     fmt.Sprintf("local-%d", n),
				Name:   name,
				Kind:   entities.ParticipantHuman,
				Source: human,
			})
		}
	}
	return seats, nil
}
