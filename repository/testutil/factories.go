package testutil

import (
	"liarsdice/domain/entities"
)

// CreateTestDelta creates a record delta for one game
func CreateTestDelta(playerID string, won bool) entities.PlayerRecordDelta {
	return entities.PlayerRecordDelta{
		PlayerID:    playerID,
		DisplayName: playerID,
		Won:         won,
	}
}

// CreateTestDeltaWithChallenges creates a record delta with challenge and dice tallies
func CreateTestDeltaWithChallenges(playerID string, won bool, made, successful, diceLost int) entities.PlayerRecordDelta {
	delta := CreateTestDelta(playerID, won)
	delta.ChallengesMade = made
	delta.ChallengesWon = successful
	delta.DiceLost = diceLost
	return delta
}
