package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameResult_RecordDeltas(t *testing.T) {
	result := &GameResult{
		WinnerID:   "a",
		Placements: []string{"a", "b"},
		Log: []LogEntry{
			{Kind: LogEntryBid, ParticipantID: "a", Bid: &Bid{2, 3}},
			{Kind: LogEntryChallenge, ParticipantID: "b", Challenge: &ChallengeOutcome{
				ChallengerID: "b", BidderID: "a", LoserID: "b",
			}},
			{Kind: LogEntryChallenge, ParticipantID: "a", Challenge: &ChallengeOutcome{
				ChallengerID: "a", BidderID: "b", LoserID: "b",
			}},
		},
	}

	deltas := result.RecordDeltas(map[string]string{"a": "Alice", "b": "Bob"})

	assert.Equal(t, []PlayerRecordDelta{
		{PlayerID: "a", DisplayName: "Alice", Won: true, ChallengesMade: 1, ChallengesWon: 1},
		{PlayerID: "b", DisplayName: "Bob", ChallengesMade: 1, DiceLost: 2},
	}, deltas)
}

func TestPlayerRecord_Rates(t *testing.T) {
	r := &PlayerRecord{}
	assert.Zero(t, r.WinRate())
	assert.Zero(t, r.ChallengeSuccessRate())

	r.GamesPlayed, r.GamesWon = 4, 1
	r.ChallengesMade, r.ChallengesWon = 3, 2
	assert.InDelta(t, 0.25, r.WinRate(), 1e-9)
	assert.InDelta(t, 2.0/3.0, r.ChallengeSuccessRate(), 1e-9)
}
