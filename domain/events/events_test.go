package events

import (
	"encoding/json"
	"testing"

	"liarsdice/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_DiceRevealed(t *testing.T) {
	original := DiceRevealedEvent{
		TableID:     "t1",
		Round:       3,
		Bid:         entities.Bid{Quantity: 5, Face: 3},
		ActualCount: 4,
		Pools: []entities.RevealedPool{
			{ParticipantID: "alice", Name: "Alice", Dice: []int{3, 3, 2}},
			{ParticipantID: "bob", Name: "Bob", Dice: []int{1, 6, 5}},
		},
	}
	payload, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := Decode(EventTypeDiceRevealed, payload)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
	assert.Equal(t, "t1", decoded.GameID())
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode("mystery", []byte(`{}`))
	assert.Error(t, err)

	_, err = Decode(EventTypeBidMade, []byte(`{"bid": "high"}`))
	assert.Error(t, err)
}
