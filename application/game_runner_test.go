package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"liarsdice/config"
	"liarsdice/domain/entities"
	"liarsdice/domain/events"
	"liarsdice/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testSettings() GameSettings {
	return GameSettings{StartingDice: 2, DecisionTimeout: time.Second, MaxInvalidActions: 3}
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.NewTestConfig()
	settings := SettingsFromConfig(cfg)
	assert.Equal(t, cfg.StartingDice, settings.StartingDice)
	assert.Equal(t, cfg.DecisionTimeout, settings.DecisionTimeout)
	assert.Equal(t, cfg.MaxInvalidActions, settings.MaxInvalidActions)
}

func TestGameRunner_NewGameDefaults(t *testing.T) {
	runner := NewGameRunner(nil, nil, nil, testhelpers.NewSequenceRoller(3), testSettings())

	game, err := runner.NewGame("", []Seat{
		{Kind: entities.ParticipantHuman, Source: testhelpers.NewScriptedDecisionSource()},
		{ID: "bot", Name: "Dealer", Kind: entities.ParticipantBot, Source: testhelpers.NewScriptedDecisionSource()},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, game.ID)
	seats := game.Seats()
	assert.Equal(t, "Player 1", seats[0].Name)
	assert.Equal(t, "seat-1", seats[0].ID)
	assert.Equal(t, "Dealer", seats[1].Name)
	assert.Equal(t, map[string]string{"seat-1": "Player 1"}, game.RecordedPlayers())

	for _, c := range game.Session.DiceCounts() {
		assert.Equal(t, 2, c.Dice)
	}
}

func TestGameRunner_NewGameRejectsBadSeatCount(t *testing.T) {
	runner := NewGameRunner(nil, nil, nil, testhelpers.NewSequenceRoller(3), testSettings())
	_, err := runner.NewGame("t1", []Seat{{Source: testhelpers.NewScriptedDecisionSource()}})
	assert.ErrorIs(t, err, entities.ErrParticipantCount)
}

func TestGameRunner_PlayRecordsHumans(t *testing.T) {
	records := &testhelpers.MockPlayerRecordRepository{}
	records.On("ApplyDelta", mock.Anything, mock.MatchedBy(func(d entities.PlayerRecordDelta) bool {
		return d.PlayerID == "alice"
	})).Return(&entities.PlayerRecord{PlayerID: "alice", GamesPlayed: 1}, nil).Once()

	bus := &testhelpers.RecordingPublisher{}
	uow := &MockUnitOfWork{Records: records, Bus: bus}
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Commit").Return(nil)
	uow.On("Rollback").Return(nil)

	publisher := &testhelpers.RecordingPublisher{}
	runner := NewGameRunner(&MockUnitOfWorkFactory{UoW: uow}, publisher, nil, testhelpers.NewSequenceRoller(3), testSettings())

	game, err := runner.NewGame("t1", []Seat{
		{ID: "alice", Name: "Alice", Kind: entities.ParticipantHuman, Source: testhelpers.NewScriptedDecisionSource()},
		{ID: "bot", Name: "Bot", Kind: entities.ParticipantBot, Source: testhelpers.NewScriptedDecisionSource()},
	})
	require.NoError(t, err)

	result, err := runner.Play(context.Background(), game)
	require.NoError(t, err)

	// alice opens with 1 x 2's against a table of threes every round and loses both dice
	assert.Equal(t, "bot", result.WinnerID)
	records.AssertExpectations(t)
	uow.AssertCalled(t, "Commit")

	updated := bus.OfType(events.EventTypeRecordsUpdated)
	require.Len(t, updated, 1)
	assert.Equal(t, []string{"alice"}, updated[0].(events.RecordsUpdatedEvent).PlayerIDs)
	assert.Len(t, publisher.OfType(events.EventTypeGameOver), 1)
}

func TestGameRunner_RecordFailureStillReturnsResult(t *testing.T) {
	records := &testhelpers.MockPlayerRecordRepository{}
	records.On("ApplyDelta", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	uow := &MockUnitOfWork{Records: records, Bus: &testhelpers.RecordingPublisher{}}
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback").Return(nil)

	runner := NewGameRunner(&MockUnitOfWorkFactory{UoW: uow}, nil, nil, testhelpers.NewSequenceRoller(3), testSettings())
	game, err := runner.NewGame("t1", []Seat{
		{ID: "alice", Kind: entities.ParticipantHuman, Source: testhelpers.NewScriptedDecisionSource()},
		{ID: "bob", Kind: entities.ParticipantHuman, Source: testhelpers.NewScriptedDecisionSource()},
	})
	require.NoError(t, err)

	result, err := runner.Play(context.Background(), game)
	require.NoError(t, err)
	assert.NotNil(t, result)
	uow.AssertNotCalled(t, "Commit")
	uow.AssertCalled(t, "Rollback")
}

func TestGameRunner_RecordResultWithoutDatabase(t *testing.T) {
	runner := NewGameRunner(nil, nil, nil, testhelpers.NewSequenceRoller(3), testSettings())
	err := runner.RecordResult(context.Background(), &entities.GameResult{}, map[string]string{"a": "A"})
	assert.NoError(t, err)
}
