package interfaces

import (
	"context"
	"time"

	"liarsdice/domain/entities"
	"liarsdice/domain/events"
)

// DecisionRequest is everything a participant may know when choosing an action
type DecisionRequest struct {
	TableID       string                `json:"table_id"`
	Round         int                   `json:"round"`
	ParticipantID string                `json:"participant_id"`
	Name          string                `json:"name"`
	OwnDice       []int                 `json:"own_dice"`
	CurrentBid    *entities.Bid         `json:"current_bid,omitempty"`
	TotalDice     int                   `json:"total_dice"`
	RoundBids     []entities.BidRecord  `json:"round_bids"`
	DiceCounts    []entities.DiceCount  `json:"dice_counts"`
	Advisory      *entities.BidAnalysis `json:"advisory,omitempty"`
	Attempt       int                   `json:"attempt"`
	LastRejection string                `json:"last_rejection,omitempty"`
}

// DecisionSource chooses one action for a participant's turn. Implementations
// must return promptly once ctx is done.
type DecisionSource interface {
	Decide(ctx context.Context, req DecisionRequest) (entities.Action, error)
}

// EventPublisher receives display notifications
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding unit of work commits
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}

// PlayerRecordService applies finished games to lifetime records
type PlayerRecordService interface {
	RecordGame(ctx context.Context, result *entities.GameResult, names map[string]string) error
	GetRecord(ctx context.Context, playerID string) (*entities.PlayerRecord, error)
	GetLeaderboard(ctx context.Context, limit int) ([]*entities.PlayerRecord, error)
}

// GameMetrics receives gameplay measurements. Implementations must be safe for concurrent use.
type GameMetrics interface {
	RecordGameStarted(players int)
	RecordGameFinished(rounds int, duration time.Duration)
	RecordRoundResolved(bidWasTrue bool)
	RecordDecision(kind entities.ParticipantKind, duration time.Duration)
	RecordInvalidAction(reason string)
	RecordFallback(reason string)
}
