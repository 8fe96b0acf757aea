package services

import (
	"testing"

	"liarsdice/domain/entities"
	"liarsdice/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundResolver_FalseBidCostsBidder(t *testing.T) {
	alice := testhelpers.NewTestParticipant(t, "alice", 3, 3, 2)
	bob := testhelpers.NewTestParticipant(t, "bob", 1, 6, 5)
	carol := testhelpers.NewTestParticipant(t, "carol", 3, 4, 4)
	table := testhelpers.NewTestTable(t, alice, bob, carol)

	require.NoError(t, table.Round.RecordBid("alice", entities.Bid{Quantity: 5, Face: 3}))
	table.Advance()

	resolver := NewRoundResolver(testhelpers.NewSequenceRoller(6))
	res, err := resolver.Resolve(table, "bob")
	require.NoError(t, err)

	// three 3s and one wild make four, one short of five
	assert.Equal(t, 4, res.Outcome.ActualCount)
	assert.False(t, res.Outcome.BidWasTrue)
	assert.Equal(t, "alice", res.Outcome.LoserID)
	assert.Equal(t, 2, alice.Pool.Size())
	assert.Equal(t, 3, bob.Pool.Size())

	require.NotNil(t, res.NextStarter)
	assert.Equal(t, "alice", res.NextStarter.ID)
	assert.Equal(t, "alice", table.Current().ID)
	assert.Equal(t, PhaseAwaitingAction, res.Phase)
}

func TestRoundResolver_TrueBidCostsChallenger(t *testing.T) {
	alice := testhelpers.NewTestParticipant(t, "alice", 4, 1)
	bob := testhelpers.NewTestParticipant(t, "bob", 4, 2)
	table := testhelpers.NewTestTable(t, alice, bob)

	require.NoError(t, table.Round.RecordBid("alice", entities.Bid{Quantity: 3, Face: 4}))
	table.Advance()

	res, err := NewRoundResolver(testhelpers.NewSequenceRoller(2)).Resolve(table, "bob")
	require.NoError(t, err)

	assert.True(t, res.Outcome.BidWasTrue)
	assert.Equal(t, "bob", res.Outcome.LoserID)
	assert.Equal(t, 1, bob.Pool.Size())
	assert.Equal(t, "bob", table.Current().ID)
}

func TestRoundResolver_ExactlyOneDieLostAndLedgerCleared(t *testing.T) {
	table := testhelpers.NewTestTable(t,
		testhelpers.NewTestParticipant(t, "a", 2, 2, 2, 2, 2),
		testhelpers.NewTestParticipant(t, "b", 5, 5, 5, 5, 5),
		testhelpers.NewTestParticipant(t, "c", 6, 6, 6, 6, 6),
	)
	before := table.TotalDice()
	round := table.Round.Number()

	require.NoError(t, table.Round.RecordBid("a", entities.Bid{Quantity: 2, Face: 2}))
	require.NoError(t, table.Round.RecordBid("b", entities.Bid{Quantity: 7, Face: 5}))

	_, err := NewRoundResolver(testhelpers.NewSequenceRoller(1, 2, 3)).Resolve(table, "c")
	require.NoError(t, err)

	assert.Equal(t, before-1, table.TotalDice())
	_, ok := table.Round.CurrentBid()
	assert.False(t, ok)
	assert.Empty(t, table.Round.Bids())
	assert.Equal(t, round+1, table.Round.Number())
}

func TestRoundResolver_RerollsRemainingPools(t *testing.T) {
	alice := testhelpers.NewTestParticipant(t, "alice", 2, 2)
	bob := testhelpers.NewTestParticipant(t, "bob", 2, 2)
	table := testhelpers.NewTestTable(t, alice, bob)

	require.NoError(t, table.Round.RecordBid("alice", entities.Bid{Quantity: 4, Face: 2}))

	_, err := NewRoundResolver(testhelpers.NewSequenceRoller(6, 5, 4)).Resolve(table, "bob")
	require.NoError(t, err)

	assert.Equal(t, []int{6, 5}, alice.Pool.Dice())
	assert.Equal(t, []int{4}, bob.Pool.Dice())
}

func TestRoundResolver_EliminatedLoserPassesStartToNextSeat(t *testing.T) {
	a := testhelpers.NewTestParticipant(t, "a", 4, 4)
	b := testhelpers.NewTestParticipant(t, "b", 2)
	c := testhelpers.NewTestParticipant(t, "c", 3, 3)
	d := testhelpers.NewTestParticipant(t, "d", 5)
	table := testhelpers.NewTestTable(t, a, b, c, d)

	require.NoError(t, table.Round.RecordBid("b", entities.Bid{Quantity: 3, Face: 6}))
	require.NoError(t, table.SetTurn("c"))

	res, err := NewRoundResolver(testhelpers.NewSequenceRoller(2)).Resolve(table, "c")
	require.NoError(t, err)

	require.Len(t, res.Eliminated, 1)
	assert.Equal(t, "b", res.Eliminated[0].ID)
	assert.True(t, res.Outcome.Eliminated)
	assert.Equal(t, "c", res.NextStarter.ID)

	ids := func() []string {
		var out []string
		for _, p := range table.Participants() {
			out = append(out, p.ID)
		}
		return out
	}
	assert.Equal(t, []string{"a", "c", "d"}, ids())

	// the removed seat never comes around again
	for i := 0; i < 6; i++ {
		assert.NotEqual(t, "b", table.Current().ID)
		table.Advance()
	}

	// a second elimination at the end of the rotation wraps to the first seat
	require.NoError(t, table.Round.RecordBid("d", entities.Bid{Quantity: 5, Face: 5}))
	require.NoError(t, table.SetTurn("a"))
	res, err = NewRoundResolver(testhelpers.NewSequenceRoller(2)).Resolve(table, "a")
	require.NoError(t, err)

	assert.Equal(t, "d", res.Outcome.LoserID)
	assert.Equal(t, []string{"a", "c"}, ids())
	assert.Equal(t, "a", res.NextStarter.ID)
}

func TestRoundResolver_GameOver(t *testing.T) {
	alice := testhelpers.NewTestParticipant(t, "alice", 6, 6)
	bob := testhelpers.NewTestParticipant(t, "bob", 2)
	table := testhelpers.NewTestTable(t, alice, bob)

	require.NoError(t, table.Round.RecordBid("bob", entities.Bid{Quantity: 2, Face: 2}))

	res, err := NewRoundResolver(testhelpers.NewSequenceRoller(3)).Resolve(table, "alice")
	require.NoError(t, err)

	assert.Equal(t, PhaseGameOver, res.Phase)
	require.NotNil(t, res.Winner)
	assert.Equal(t, "alice", res.Winner.ID)
	assert.Nil(t, res.NextStarter)
	assert.True(t, table.IsOver())
	// the winner's dice are not rolled again
	assert.Equal(t, []int{6, 6}, alice.Pool.Dice())
}

func TestRoundResolver_ChallengeWithoutBid(t *testing.T) {
	alice := testhelpers.NewTestParticipant(t, "alice", 1, 2)
	bob := testhelpers.NewTestParticipant(t, "bob", 3, 4)
	table := testhelpers.NewTestTable(t, alice, bob)

	_, err := NewRoundResolver(testhelpers.NewSequenceRoller(1)).Resolve(table, "bob")
	assert.ErrorIs(t, err, entities.ErrChallengeWithoutBid)
	assert.Equal(t, 4, table.TotalDice())
	assert.Equal(t, 0, table.Log.Len())
}

func TestRoundResolver_UnknownChallenger(t *testing.T) {
	table := testhelpers.NewTestTable(t,
		testhelpers.NewTestParticipant(t, "alice", 1),
		testhelpers.NewTestParticipant(t, "bob", 2),
	)
	require.NoError(t, table.Round.RecordBid("alice", entities.Bid{Quantity: 1, Face: 3}))

	_, err := NewRoundResolver(testhelpers.NewSequenceRoller(1)).Resolve(table, "mallory")
	assert.ErrorIs(t, err, entities.ErrUnknownPlayer)

	_, ok := table.Round.CurrentBid()
	assert.True(t, ok)
	assert.Equal(t, 2, table.TotalDice())
}

func TestRoundResolver_LogsOutcomeWithRevealedDice(t *testing.T) {
	table := testhelpers.NewTestTable(t,
		testhelpers.NewTestParticipant(t, "alice", 1, 5),
		testhelpers.NewTestParticipant(t, "bob", 5, 3),
	)
	require.NoError(t, table.Round.RecordBid("alice", entities.Bid{Quantity: 3, Face: 5}))

	_, err := NewRoundResolver(testhelpers.NewSequenceRoller(4)).Resolve(table, "bob")
	require.NoError(t, err)

	entries := table.Log.Entries()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, entities.LogEntryChallenge, entry.Kind)
	assert.Equal(t, 1, entry.Round)
	require.NotNil(t, entry.Challenge)
	assert.Equal(t, 3, entry.Challenge.ActualCount)
	assert.Equal(t, []entities.RevealedPool{
		{ParticipantID: "alice", Name: "alice", Dice: []int{1, 5}},
		{ParticipantID: "bob", Name: "bob", Dice: []int{5, 3}},
	}, entry.Challenge.Revealed)
}
