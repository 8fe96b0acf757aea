package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundState_RecordBid(t *testing.T) {
	r := NewRoundState()

	_, ok := r.CurrentBid()
	assert.False(t, ok)

	require.NoError(t, r.RecordBid("alice", Bid{2, 3}))
	require.NoError(t, r.RecordBid("bob", Bid{2, 5}))

	current, ok := r.CurrentBid()
	require.True(t, ok)
	assert.Equal(t, Bid{2, 5}, current)

	bidder, ok := r.LastBidder()
	require.True(t, ok)
	assert.Equal(t, "bob", bidder)

	assert.Equal(t, []BidRecord{
		{ParticipantID: "alice", Bid: Bid{2, 3}},
		{ParticipantID: "bob", Bid: Bid{2, 5}},
	}, r.Bids())
}

func TestRoundState_RejectedBidLeavesStateUnchanged(t *testing.T) {
	r := NewRoundState()
	require.NoError(t, r.RecordBid("alice", Bid{3, 4}))

	err := r.RecordBid("bob", Bid{3, 4})
	assert.ErrorIs(t, err, ErrInvalidBid)

	err = r.RecordBid("bob", Bid{0, 4})
	assert.ErrorIs(t, err, ErrInvalidAction)

	current, _ := r.CurrentBid()
	assert.Equal(t, Bid{3, 4}, current)
	assert.Len(t, r.Bids(), 1)
}

func TestRoundState_Reset(t *testing.T) {
	r := NewRoundState()
	require.NoError(t, r.RecordBid("alice", Bid{1, 6}))

	r.Reset()

	_, ok := r.CurrentBid()
	assert.False(t, ok)
	_, ok = r.LastBidder()
	assert.False(t, ok)
	assert.Empty(t, r.Bids())
	assert.Equal(t, 2, r.Number())

	// a fresh round accepts any bid again
	assert.NoError(t, r.RecordBid("bob", Bid{1, 2}))
}
