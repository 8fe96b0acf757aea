package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"liarsdice/domain/entities"
	"liarsdice/domain/events"
	"liarsdice/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		line     string
		expected entities.Action
		wantErr  bool
	}{
		{"liar", entities.ChallengeAction(), false},
		{" L ", entities.ChallengeAction(), false},
		{"3 4", entities.Action{Quantity: 3, Face: 4}, false},
		{"3x4", entities.Action{Quantity: 3, Face: 4}, false},
		{"10, 6", entities.Action{Quantity: 10, Face: 6}, false},
		{"three fours", entities.Action{}, true},
		{"3", entities.Action{}, true},
		{"", entities.Action{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			action, err := ParseAction(tt.line)
			if tt.wantErr {
				assert.ErrorIs(t, err, entities.ErrInvalidAction)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, action)
		})
	}
}

func TestConsoleDecisionSource_Decide(t *testing.T) {
	input := NewConsoleInput(strings.NewReader("2 5\nliar\n"))
	var out bytes.Buffer
	source := NewConsoleDecisionSource(input, &out)

	action, err := source.Decide(context.Background(), interfaces.DecisionRequest{Name: "alice", OwnDice: []int{1, 5}, TotalDice: 4})
	require.NoError(t, err)
	assert.Equal(t, entities.Action{Quantity: 2, Face: 5}, action)
	assert.Contains(t, out.String(), "alice, your dice: 1 5")
	assert.Contains(t, out.String(), "You open")

	best := entities.Bid{Quantity: 3, Face: 5}
	action, err = source.Decide(context.Background(), interfaces.DecisionRequest{
		Name:       "alice",
		OwnDice:    []int{1, 5},
		TotalDice:  4,
		CurrentBid: &entities.Bid{Quantity: 2, Face: 6},
		Advisory:   &entities.BidAnalysis{TruthProbability: 0.5, ExpectedTotal: 1.33, BestBid: &best, BestBidProbability: 0.56},
	})
	require.NoError(t, err)
	assert.True(t, action.IsChallenge())
	assert.Contains(t, out.String(), "safest raise 3 fives (56.0%)")

	_, err = source.Decide(context.Background(), interfaces.DecisionRequest{Name: "alice"})
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsoleDecisionSource_HonoursContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	source := NewConsoleDecisionSource(NewConsoleInput(r), io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := source.Decide(ctx, interfaces.DecisionRequest{Name: "bob"})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestConsoleDisplay(t *testing.T) {
	var out bytes.Buffer
	publisher := NewLocalEventPublisher()
	NewConsoleDisplay(&out).Register(publisher)

	require.NoError(t, publisher.Publish(events.BidMadeEvent{Name: "alice", Bid: entities.Bid{Quantity: 3, Face: 2}}))
	require.NoError(t, publisher.Publish(events.DiceRevealedEvent{
		Bid:         entities.Bid{Quantity: 3, Face: 2},
		ActualCount: 2,
		Pools:       []entities.RevealedPool{{Name: "alice", Dice: []int{1, 2}}},
	}))
	require.NoError(t, publisher.Publish(events.GameOverEvent{Winner: "bob", WinnerDice: 2, Rounds: 5}))

	text := out.String()
	assert.Contains(t, text, "alice bids 3 twos")
	assert.Contains(t, text, "  alice: 1 2")
	assert.Contains(t, text, "There are 2 twos (bid was 3)")
	assert.Contains(t, text, "bob wins with 2 dice remaining after 5 rounds!")
}
