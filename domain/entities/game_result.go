package entities

import "time"

// GameResult summarizes a finished session
type GameResult struct {
	TableID    string
	WinnerID   string
	WinnerName string
	// WinnerDice is how many dice the winner still held
	WinnerDice int
	Rounds     int
	StartedAt  time.Time
	FinishedAt time.Time
	// Placements lists participants from winner to first eliminated
	Placements []string
	Log        []LogEntry
}

// RecordDeltas derives each participant's record changes from the game log
func (g *GameResult) RecordDeltas(names map[string]string) []PlayerRecordDelta {
	deltas := make(map[string]*PlayerRecordDelta, len(g.Placements))
	order := make([]string, 0, len(g.Placements))
	for _, id := range g.Placements {
		deltas[id] = &PlayerRecordDelta{
			PlayerID:    id,
			DisplayName: names[id],
			Won:         id == g.WinnerID,
		}
		order = append(order, id)
	}

	for _, entry := range g.Log {
		if entry.Kind != LogEntryChallenge || entry.Challenge == nil {
			continue
		}
		c := entry.Challenge
		if d, ok := deltas[c.ChallengerID]; ok {
			d.ChallengesMade++
			if c.LoserID != c.ChallengerID {
				d.ChallengesWon++
			}
		}
		if d, ok := deltas[c.LoserID]; ok {
			d.DiceLost++
		}
	}

	out := make([]PlayerRecordDelta, 0, len(order))
	for _, id := range order {
		out = append(out, *deltas[id])
	}
	return out
}
