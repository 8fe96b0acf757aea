package events

import (
	"encoding/json"
	"fmt"

	"liarsdice/domain/entities"
)

// EventType represents the kinds of notifications a game emits
type EventType string

const (
	EventTypeGameStarted      EventType = "game_started"
	EventTypeTurnStarted      EventType = "turn_started"
	EventTypeBidMade          EventType = "bid_made"
	EventTypeChallengeCalled  EventType = "challenge_called"
	EventTypeDiceRevealed     EventType = "dice_revealed"
	EventTypeRoundResolved    EventType = "round_resolved"
	EventTypePlayerEliminated EventType = "player_eliminated"
	EventTypeGameOver         EventType = "game_over"
	EventTypeActionRejected   EventType = "action_rejected"
	EventTypeDecisionFallback EventType = "decision_fallback"
	EventTypeRecordsUpdated   EventType = "records_updated"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	GameID() string
}

// GameStartedEvent is published once before the first turn
type GameStartedEvent struct {
	TableID    string               `json:"table_id"`
	DiceCounts []entities.DiceCount `json:"dice_counts"`
}

func (e GameStartedEvent) Type() EventType { return EventTypeGameStarted }
func (e GameStartedEvent) GameID() string  { return e.TableID }

// TurnStartedEvent is published before a decision is requested
type TurnStartedEvent struct {
	TableID       string        `json:"table_id"`
	Round         int           `json:"round"`
	ParticipantID string        `json:"participant_id"`
	Name          string        `json:"name"`
	CurrentBid    *entities.Bid `json:"current_bid,omitempty"`
	TotalDice     int           `json:"total_dice"`
}

func (e TurnStartedEvent) Type() EventType { return EventTypeTurnStarted }
func (e TurnStartedEvent) GameID() string  { return e.TableID }

// BidMadeEvent is published for every accepted bid
type BidMadeEvent struct {
	TableID       string       `json:"table_id"`
	Round         int          `json:"round"`
	ParticipantID string       `json:"participant_id"`
	Name          string       `json:"name"`
	Bid           entities.Bid `json:"bid"`
}

func (e BidMadeEvent) Type() EventType { return EventTypeBidMade }
func (e BidMadeEvent) GameID() string  { return e.TableID }

// ChallengeCalledEvent is published when liar is called, before the reveal
type ChallengeCalledEvent struct {
	TableID      string       `json:"table_id"`
	Round        int          `json:"round"`
	ChallengerID string       `json:"challenger_id"`
	Challenger   string       `json:"challenger"`
	BidderID     string       `json:"bidder_id"`
	Bidder       string       `json:"bidder"`
	Bid          entities.Bid `json:"bid"`
}

func (e ChallengeCalledEvent) Type() EventType { return EventTypeChallengeCalled }
func (e ChallengeCalledEvent) GameID() string  { return e.TableID }

// DiceRevealedEvent carries every pool as it stood when the challenge was called
type DiceRevealedEvent struct {
	TableID     string                  `json:"table_id"`
	Round       int                     `json:"round"`
	Bid         entities.Bid            `json:"bid"`
	ActualCount int                     `json:"actual_count"`
	Pools       []entities.RevealedPool `json:"pools"`
}

func (e DiceRevealedEvent) Type() EventType { return EventTypeDiceRevealed }
func (e DiceRevealedEvent) GameID() string  { return e.TableID }

// RoundResolvedEvent reports the loser and who opens the next round
type RoundResolvedEvent struct {
	TableID     string               `json:"table_id"`
	Round       int                  `json:"round"`
	BidWasTrue  bool                 `json:"bid_was_true"`
	LoserID     string               `json:"loser_id"`
	Loser       string               `json:"loser"`
	NextStarter string               `json:"next_starter,omitempty"`
	DiceCounts  []entities.DiceCount `json:"dice_counts"`
}

func (e RoundResolvedEvent) Type() EventType { return EventTypeRoundResolved }
func (e RoundResolvedEvent) GameID() string  { return e.TableID }

// PlayerEliminatedEvent is published when a pool reaches zero
type PlayerEliminatedEvent struct {
	TableID       string `json:"table_id"`
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Remaining     int    `json:"remaining"`
}

func (e PlayerEliminatedEvent) Type() EventType { return EventTypePlayerEliminated }
func (e PlayerEliminatedEvent) GameID() string  { return e.TableID }

// GameOverEvent announces the winner
type GameOverEvent struct {
	TableID    string `json:"table_id"`
	WinnerID   string `json:"winner_id"`
	Winner     string `json:"winner"`
	WinnerDice int    `json:"winner_dice"`
	Rounds     int    `json:"rounds"`
}

func (e GameOverEvent) Type() EventType { return EventTypeGameOver }
func (e GameOverEvent) GameID() string  { return e.TableID }

// ActionRejectedEvent reports an action the table refused; state was not changed
type ActionRejectedEvent struct {
	TableID       string          `json:"table_id"`
	ParticipantID string          `json:"participant_id"`
	Name          string          `json:"name"`
	Action        entities.Action `json:"action"`
	Reason        string          `json:"reason"`
	Attempt       int             `json:"attempt"`
}

func (e ActionRejectedEvent) Type() EventType { return EventTypeActionRejected }
func (e ActionRejectedEvent) GameID() string  { return e.TableID }

// DecisionFallbackEvent reports an action the table chose on a participant's behalf
type DecisionFallbackEvent struct {
	TableID       string          `json:"table_id"`
	ParticipantID string          `json:"participant_id"`
	Name          string          `json:"name"`
	Action        entities.Action `json:"action"`
	Reason        string          `json:"reason"`
}

func (e DecisionFallbackEvent) Type() EventType { return EventTypeDecisionFallback }
func (e DecisionFallbackEvent) GameID() string  { return e.TableID }

// RecordsUpdatedEvent is published once a finished game has been written to player records
type RecordsUpdatedEvent struct {
	TableID   string   `json:"table_id"`
	WinnerID  string   `json:"winner_id"`
	PlayerIDs []string `json:"player_ids"`
}

func (e RecordsUpdatedEvent) Type() EventType { return EventTypeRecordsUpdated }
func (e RecordsUpdatedEvent) GameID() string  { return e.TableID }

// Decode rebuilds an event of eventType from its JSON payload
func Decode(eventType EventType, payload []byte) (Event, error) {
	var (
		event Event
		err   error
	)
	switch eventType {
	case EventTypeGameStarted:
		event, err = decodeAs[GameStartedEvent](payload)
	case EventTypeTurnStarted:
		event, err = decodeAs[TurnStartedEvent](payload)
	case EventTypeBidMade:
		event, err = decodeAs[BidMadeEvent](payload)
	case EventTypeChallengeCalled:
		event, err = decodeAs[ChallengeCalledEvent](payload)
	case EventTypeDiceRevealed:
		event, err = decodeAs[DiceRevealedEvent](payload)
	case EventTypeRoundResolved:
		event, err = decodeAs[RoundResolvedEvent](payload)
	case EventTypePlayerEliminated:
		event, err = decodeAs[PlayerEliminatedEvent](payload)
	case EventTypeGameOver:
		event, err = decodeAs[GameOverEvent](payload)
	case EventTypeActionRejected:
		event, err = decodeAs[ActionRejectedEvent](payload)
	case EventTypeDecisionFallback:
		event, err = decodeAs[DecisionFallbackEvent](payload)
	case EventTypeRecordsUpdated:
		event, err = decodeAs[RecordsUpdatedEvent](payload)
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s event: %w", eventType, err)
	}
	return event, nil
}

func decodeAs[T Event](payload []byte) (Event, error) {
	var e T
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, err
	}
	return e, nil
}
