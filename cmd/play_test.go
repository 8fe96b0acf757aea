package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"liarsdice/application"
	"liarsdice/domain/entities"
	"liarsdice/domain/testhelpers"
	"liarsdice/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptSeats(t *testing.T) {
	input := infrastructure.NewConsoleInput(strings.NewReader("9\nthree\n3\nAlice\nbot\nllm\n"))
	var out bytes.Buffer

	seats, err := promptSeats(context.Background(), input, &out, testhelpers.NewScriptedDecisionSource())
	require.NoError(t, err)
	require.Len(t, seats, 3)

	assert.Equal(t, "Alice", seats[0].Name)
	assert.Equal(t, "local-1", seats[0].ID)
	assert.Equal(t, entities.ParticipantHuman, seats[0].Kind)
	assert.Equal(t, "Bot 1", seats[1].Name)
	assert.Equal(t, entities.ParticipantBot, seats[1].Kind)
	assert.Equal(t, entities.ParticipantLLM, seats[2].Kind)
	assert.Equal(t, 2, strings.Count(out.String(), "Please enter a number in range."))
}

func TestPromptSeats_LLMNotConfigured(t *testing.T) {
	input := infrastructure.NewConsoleInput(strings.NewReader("2\nllm\n"))
	_, err := promptSeats(context.Background(), input, &bytes.Buffer{}, nil)
	assert.Error(t, err)
}

func TestPromptSeats_DuplicateAndBlankNames(t *testing.T) {
	input := infrastructure.NewConsoleInput(strings.NewReader("3\nBob\nbob\n\n"))

	seats, err := promptSeats(context.Background(), input, &bytes.Buffer{}, nil)
	require.NoError(t, err)
	require.Len(t, seats, 3)
	for _, seat := range seats {
		assert.Equal(t, entities.ParticipantHuman, seat.Kind)
	}
	assert.Equal(t, []string{"local-1", "local-2", "local-3"}, []string{seats[0].ID, seats[1].ID, seats[2].ID})

	runner := application.NewGameRunner(nil, nil, nil, testhelpers.NewSequenceRoller(3), application.GameSettings{StartingDice: 2})
	game, err := runner.NewGame("", seats)
	require.NoError(t, err)

	names := game.RecordedPlayers()
	assert.Equal(t, map[string]string{
		"local-1": "Bob",
		"local-2": "bob",
		"local-3": "Player 3",
	}, names)
}
