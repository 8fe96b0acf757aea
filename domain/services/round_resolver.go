package services

import (
	"fmt"

	"liarsdice/domain/entities"

	log "github.com/sirupsen/logrus"
)

// RoundPhase is where a table sits in the resolution state machine
type RoundPhase string

const (
	PhaseAwaitingAction RoundPhase = "awaiting_action"
	PhaseResolving      RoundPhase = "resolving"
	PhaseGameOver       RoundPhase = "game_over"
)

// Resolution is the outcome of one challenge
type Resolution struct {
	Round      int
	Outcome    entities.ChallengeOutcome
	Eliminated []*entities.Participant
	// NextStarter opens the next round, nil when the game is over
	NextStarter *entities.Participant
	Winner      *entities.Participant
	Phase       RoundPhase
}

// RoundResolver settles challenges and moves the table into the next round
type RoundResolver struct {
	roller entities.Roller
}

func NewRoundResolver(roller entities.Roller) *RoundResolver {
	return &RoundResolver{roller: roller}
}

// Resolve settles a challenge by challengerID against the outstanding bid.
// The loser gives up one die and opens the next round. If that was their last
// die they leave the rotation and the seat after them opens instead. The ledger
// is cleared and every remaining pool is rolled again. A challenge that fails
// validation leaves the table untouched.
func (r *RoundResolver) Resolve(table *entities.Table, challengerID string) (*Resolution, error) {
	bid, ok := table.Round.CurrentBid()
	if !ok {
		return nil, entities.ErrChallengeWithoutBid
	}
	bidderID, _ := table.Round.LastBidder()

	challenger, _ := table.Find(challengerID)
	if challenger == nil {
		return nil, fmt.Errorf("%w: challenger %s", entities.ErrUnknownPlayer, challengerID)
	}
	bidder, _ := table.Find(bidderID)
	if bidder == nil {
		return nil, fmt.Errorf("%w: bidder %s", entities.ErrUnknownPlayer, bidderID)
	}

	round := table.Round.Number()
	revealed := table.Reveal()
	actual := table.CountMatching(bid.Face)
	bidWasTrue := actual >= bid.Quantity

	loser := bidder
	if bidWasTrue {
		loser = challenger
	}
	_, loserSeat := table.Find(loser.ID)

	if err := loser.Pool.LoseDie(); err != nil {
		return nil, fmt.Errorf("failed to take a die from %s: %w", loser.ID, err)
	}

	eliminated := table.RemoveEliminated()
	table.Round.Reset()

	outcome := entities.ChallengeOutcome{
		ChallengerID: challenger.ID,
		BidderID:     bidder.ID,
		Bid:          bid,
		ActualCount:  actual,
		BidWasTrue:   bidWasTrue,
		LoserID:      loser.ID,
		Eliminated:   loser.IsEliminated(),
		Revealed:     revealed,
	}
	table.Log.Append(entities.LogEntry{
		Round:         round,
		Kind:          entities.LogEntryChallenge,
		ParticipantID: challenger.ID,
		Challenge:     &outcome,
	})

	resolution := &Resolution{
		Round:      round,
		Outcome:    outcome,
		Eliminated: eliminated,
	}

	if table.IsOver() {
		resolution.Phase = PhaseGameOver
		resolution.Winner = table.Winner()
		log.WithFields(log.Fields{
			"table_id": table.ID,
			"round":    round,
			"winner":   resolution.Winner.ID,
		}).Info("Game over")
		return resolution, nil
	}

	if err := table.RerollAll(r.roller); err != nil {
		return nil, err
	}

	if loser.IsEliminated() {
		// seats after the loser shifted down by one
		table.SetTurnIndex(loserSeat)
	} else if err := table.SetTurn(loser.ID); err != nil {
		return nil, err
	}
	resolution.NextStarter = table.Current()
	resolution.Phase = PhaseAwaitingAction

	log.WithFields(log.Fields{
		"table_id":     table.ID,
		"round":        round,
		"bid":          bid.String(),
		"actual":       actual,
		"loser":        loser.ID,
		"eliminated":   len(eliminated),
		"next_starter": resolution.NextStarter.ID,
	}).Debug("Round resolved")

	return resolution, nil
}
