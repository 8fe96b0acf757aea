package entities

import "time"

// PlayerRecord is the lifetime tally kept for a player across games
type PlayerRecord struct {
	PlayerID       string    `db:"player_id"`
	DisplayName    string    `db:"display_name"`
	GamesPlayed    int       `db:"games_played"`
	GamesWon       int       `db:"games_won"`
	ChallengesMade int       `db:"challenges_made"`
	ChallengesWon  int       `db:"challenges_won"`
	DiceLost       int       `db:"dice_lost"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// WinRate returns games won over games played, 0 with no games
func (r *PlayerRecord) WinRate() float64 {
	if r.GamesPlayed == 0 {
		return 0
	}
	return float64(r.GamesWon) / float64(r.GamesPlayed)
}

// ChallengeSuccessRate returns challenges won over challenges made
func (r *PlayerRecord) ChallengeSuccessRate() float64 {
	if r.ChallengesMade == 0 {
		return 0
	}
	return float64(r.ChallengesWon) / float64(r.ChallengesMade)
}

// PlayerRecordDelta is what one finished game adds to a player's record
type PlayerRecordDelta struct {
	PlayerID       string
	DisplayName    string
	Won            bool
	ChallengesMade int
	ChallengesWon  int
	DiceLost       int
}
