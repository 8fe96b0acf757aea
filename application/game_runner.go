package application

import (
	"context"
	"fmt"
	"time"

	"liarsdice/config"
	"liarsdice/domain/entities"
	"liarsdice/domain/events"
	"liarsdice/domain/interfaces"
	"liarsdice/domain/services"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Seat describes one participant before the game starts
type Seat struct {
	ID     string
	Name   string
	Kind   entities.ParticipantKind
	Source interfaces.DecisionSource
}

// GameSettings are the per-table rules a runner applies
type GameSettings struct {
	StartingDice      int
	DecisionTimeout   time.Duration
	MaxInvalidActions int
}

// SettingsFromConfig reads game settings from the loaded configuration
func SettingsFromConfig(cfg *config.Config) GameSettings {
	return GameSettings{
		StartingDice:      cfg.StartingDice,
		DecisionTimeout:   cfg.DecisionTimeout,
		MaxInvalidActions: cfg.MaxInvalidActions,
	}
}

// Game is a seated table ready to run
type Game struct {
	ID      string
	Session *services.GameSession
	seats   []Seat
}

// Seats returns the seats in rotation order
func (g *Game) Seats() []Seat {
	out := make([]Seat, len(g.seats))
	copy(out, g.seats)
	return out
}

// RecordedPlayers maps human participant ids to display names. Only humans keep lifetime records.
func (g *Game) RecordedPlayers() map[string]string {
	names := make(map[string]string)
	for _, s := range g.seats {
		if s.Kind == entities.ParticipantHuman {
			names[s.ID] = s.Name
		}
	}
	return names
}

// GameRunner seats tables, plays them to the end and records the results
type GameRunner struct {
	uowFactory UnitOfWorkFactory
	publisher  interfaces.EventPublisher
	metrics    interfaces.GameMetrics
	roller     entities.Roller
	settings   GameSettings
}

// NewGameRunner creates a runner. uowFactory may be nil, in which case results are not persisted.
func NewGameRunner(
	uowFactory UnitOfWorkFactory,
	publisher interfaces.EventPublisher,
	metrics interfaces.GameMetrics,
	roller entities.Roller,
	settings GameSettings,
) *GameRunner {
	if settings.StartingDice <= 0 {
		settings.StartingDice = entities.DefaultStartingDice
	}
	return &GameRunner{
		uowFactory: uowFactory,
		publisher:  publisher,
		metrics:    metrics,
		roller:     roller,
		settings:   settings,
	}
}

// NewGame seats the given participants in order. Empty names become "Player N"
// and an empty table id gets a fresh uuid.
func (r *GameRunner) NewGame(tableID string, seats []Seat) (*Game, error) {
	if tableID == "" {
		tableID = uuid.New().String()
	}

	participants := make([]*entities.Participant, 0, len(seats))
	sources := make(map[string]interfaces.DecisionSource, len(seats))
	named := make([]Seat, 0, len(seats))
	for i, seat := range seats {
		if seat.Name == "" {
			seat.Name = fmt.Sprintf("Player %d", i+1)
		}
		if seat.ID == "" {
			seat.ID = fmt.Sprintf("seat-%d", i+1)
		}
		participants = append(participants, entities.NewParticipant(seat.ID, seat.Name, seat.Kind, r.settings.StartingDice))
		sources[seat.ID] = seat.Source
		named = append(named, seat)
	}

	table, err := entities.NewTable(tableID, participants)
	if err != nil {
		return nil, fmt.Errorf("failed to seat table: %w", err)
	}

	session, err := services.NewGameSession(table, sources, r.roller, r.publisher, r.metrics, services.SessionConfig{
		DecisionTimeout:   r.settings.DecisionTimeout,
		MaxInvalidActions: r.settings.MaxInvalidActions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game session: %w", err)
	}

	return &Game{ID: tableID, Session: session, seats: named}, nil
}

// Play runs the game to completion and records the result. A recording
// failure is logged; the result is still returned.
func (r *GameRunner) Play(ctx context.Context, game *Game) (*entities.GameResult, error) {
	log.WithFields(log.Fields{
		"table_id": game.ID,
		"seats":    len(game.seats),
	}).Info("Starting game")

	result, err := game.Session.Run(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.RecordResult(ctx, result, game.RecordedPlayers()); err != nil {
		log.WithFields(log.Fields{
			"table_id": game.ID,
			"error":    err,
		}).Error("Failed to record game result")
	}

	return result, nil
}

// RecordResult writes a finished game to player records in one transaction
// and announces the update once it commits
func (r *GameRunner) RecordResult(ctx context.Context, result *entities.GameResult, names map[string]string) error {
	if r.uowFactory == nil || len(names) == 0 {
		return nil
	}

	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	recordService := services.NewPlayerRecordService(uow.PlayerRecordRepository())
	if err := recordService.RecordGame(ctx, result, names); err != nil {
		return err
	}

	playerIDs := make([]string, 0, len(names))
	for _, id := range result.Placements {
		if _, ok := names[id]; ok {
			playerIDs = append(playerIDs, id)
		}
	}
	if err := uow.EventBus().Publish(events.RecordsUpdatedEvent{
		TableID:   result.TableID,
		WinnerID:  result.WinnerID,
		PlayerIDs: playerIDs,
	}); err != nil {
		return fmt.Errorf("failed to queue records event: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"table_id": result.TableID,
		"players":  len(playerIDs),
	}).Info("Recorded game result")
	return nil
}
