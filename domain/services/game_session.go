package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"liarsdice/domain/entities"
	"liarsdice/domain/events"
	"liarsdice/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultDecisionTimeout   = 60 * time.Second
	DefaultMaxInvalidActions = 3

	FallbackReasonTimeout        = "timeout"
	FallbackReasonInvalidActions = "invalid_actions"
)

// SessionConfig bounds how long and how often a participant may try to act
type SessionConfig struct {
	DecisionTimeout   time.Duration
	MaxInvalidActions int
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.DecisionTimeout <= 0 {
		c.DecisionTimeout = DefaultDecisionTimeout
	}
	if c.MaxInvalidActions <= 0 {
		c.MaxInvalidActions = DefaultMaxInvalidActions
	}
	return c
}

// TurnResult describes the action that ended a turn
type TurnResult struct {
	ParticipantID string
	Action        entities.Action
	// Fallback is set when the table chose the action for the participant
	Fallback       bool
	FallbackReason string
	// Resolution is set when the action was a challenge
	Resolution *Resolution
}

// GameSession runs one game from the first roll to a single remaining pool.
// Turns are played one at a time by the goroutine calling Run or PlayTurn.
type GameSession struct {
	mu        sync.RWMutex
	table     *entities.Table
	sources   map[string]interfaces.DecisionSource
	resolver  *RoundResolver
	roller    entities.Roller
	publisher interfaces.EventPublisher
	metrics   interfaces.GameMetrics
	config    SessionConfig
	phase     RoundPhase
	started   bool
	startedAt time.Time
}

// NewGameSession wires a table to one decision source per participant.
// publisher and metrics may be nil.
func NewGameSession(
	table *entities.Table,
	sources map[string]interfaces.DecisionSource,
	roller entities.Roller,
	publisher interfaces.EventPublisher,
	metrics interfaces.GameMetrics,
	config SessionConfig,
) (*GameSession, error) {
	for _, p := range table.Participants() {
		if sources[p.ID] == nil {
			return nil, fmt.Errorf("no decision source for participant %s", p.ID)
		}
	}
	if roller == nil {
		return nil, fmt.Errorf("roller is required")
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &GameSession{
		table:     table,
		sources:   sources,
		resolver:  NewRoundResolver(roller),
		roller:    roller,
		publisher: publisher,
		metrics:   metrics,
		config:    config.withDefaults(),
		phase:     PhaseAwaitingAction,
	}, nil
}

// TableID identifies the session
func (s *GameSession) TableID() string {
	return s.table.ID
}

// Phase is the current state machine phase
func (s *GameSession) Phase() RoundPhase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// CurrentParticipant returns whose turn it is, nil when the game is over
func (s *GameSession) CurrentParticipant() *entities.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Current()
}

// DiceCounts lists remaining dice per active participant
func (s *GameSession) DiceCounts() []entities.DiceCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.DiceCounts()
}

// Log returns the resolved actions so far
func (s *GameSession) Log() []entities.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Log.Entries()
}

// ViewFor returns what participantID is allowed to see right now
func (s *GameSession) ViewFor(participantID string) (interfaces.DecisionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, _ := s.table.Find(participantID)
	if p == nil {
		return interfaces.DecisionRequest{}, fmt.Errorf("%w: %s", entities.ErrUnknownPlayer, participantID)
	}
	return s.requestFor(p, 0, ""), nil
}

// Start rolls every pool for the first round. Run calls it when needed.
func (s *GameSession) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked()
}

func (s *GameSession) startLocked() error {
	if s.started {
		return nil
	}
	if err := s.table.RerollAll(s.roller); err != nil {
		return fmt.Errorf("failed to roll opening dice: %w", err)
	}
	s.started = true
	s.startedAt = time.Now().UTC()
	s.metrics.RecordGameStarted(len(s.table.Participants()))

	log.WithFields(log.Fields{
		"table_id":     s.table.ID,
		"participants": len(s.table.Participants()),
		"total_dice":   s.table.TotalDice(),
	}).Info("Game started")

	s.publish(events.GameStartedEvent{TableID: s.table.ID, DiceCounts: s.table.DiceCounts()})
	return nil
}

// Run plays turns until one participant is left. When ctx is cancelled the
// pending decision is abandoned and ctx.Err() is returned with the table as it
// was before that turn.
func (s *GameSession) Run(ctx context.Context) (*entities.GameResult, error) {
	if err := s.Start(); err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.Phase() == PhaseGameOver {
			return s.Result(), nil
		}
		if _, err := s.PlayTurn(ctx); err != nil {
			return nil, err
		}
	}
}

// PlayTurn asks the current participant for an action and applies it.
// Rejected actions are reported and asked again. After MaxInvalidActions
// rejections, or when the decision times out, the fallback action is applied:
// a challenge when there is a bid, otherwise the lowest opening bid.
func (s *GameSession) PlayTurn(ctx context.Context) (*TurnResult, error) {
	s.mu.Lock()
	if err := s.startLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.phase == PhaseGameOver || s.table.IsOver() {
		s.mu.Unlock()
		return nil, entities.ErrGameOver
	}
	current := s.table.Current()
	source := s.sources[current.ID]
	s.publishTurnStarted(current)
	s.mu.Unlock()

	lastRejection := ""
	for attempt := 1; ; attempt++ {
		s.mu.RLock()
		req := s.requestFor(current, attempt, lastRejection)
		s.mu.RUnlock()

		action, err := s.decide(ctx, current, source, req)
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.WithFields(log.Fields{
				"table_id":       s.table.ID,
				"participant_id": current.ID,
			}).Info("Decision abandoned, game cancelled")
			return nil, ctxErr
		}

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return s.applyFallback(current, FallbackReasonTimeout)
			}
			lastRejection = err.Error()
			s.reject(current, action, attempt, fmt.Errorf("decision failed: %w", err))
		} else {
			s.mu.Lock()
			result, applyErr := s.apply(current, action)
			s.mu.Unlock()
			if applyErr == nil {
				return result, nil
			}
			if !isRejection(applyErr) {
				return nil, applyErr
			}
			lastRejection = applyErr.Error()
			s.reject(current, action, attempt, applyErr)
		}

		if attempt >= s.config.MaxInvalidActions {
			return s.applyFallback(current, FallbackReasonInvalidActions)
		}
	}
}

// Result summarizes a finished game, nil while it is still in progress
func (s *GameSession) Result() *entities.GameResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	winner := s.table.Winner()
	if winner == nil {
		return nil
	}

	placements := []string{winner.ID}
	eliminated := s.table.Eliminated()
	for i := len(eliminated) - 1; i >= 0; i-- {
		placements = append(placements, eliminated[i].ID)
	}

	entries := s.table.Log.Entries()
	rounds := 0
	for _, e := range entries {
		if e.Round > rounds {
			rounds = e.Round
		}
	}

	return &entities.GameResult{
		TableID:    s.table.ID,
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		WinnerDice: winner.Pool.Size(),
		Rounds:     rounds,
		StartedAt:  s.startedAt,
		FinishedAt: time.Now().UTC(),
		Placements: placements,
		Log:        entries,
	}
}

func (s *GameSession) decide(ctx context.Context, p *entities.Participant, source interfaces.DecisionSource, req interfaces.DecisionRequest) (entities.Action, error) {
	decideCtx, cancel := context.WithTimeout(ctx, s.config.DecisionTimeout)
	defer cancel()

	start := time.Now()
	action, err := source.Decide(decideCtx, req)
	s.metrics.RecordDecision(p.Kind, time.Since(start))

	if err == nil && decideCtx.Err() != nil && ctx.Err() == nil {
		// answered after the deadline
		return entities.Action{}, context.DeadlineExceeded
	}
	return action, err
}

func (s *GameSession) requestFor(p *entities.Participant, attempt int, lastRejection string) interfaces.DecisionRequest {
	req := interfaces.DecisionRequest{
		TableID:       s.table.ID,
		Round:         s.table.Round.Number(),
		ParticipantID: p.ID,
		Name:          p.Name,
		OwnDice:       p.Pool.Dice(),
		TotalDice:     s.table.TotalDice(),
		RoundBids:     s.table.Round.Bids(),
		DiceCounts:    s.table.DiceCounts(),
		Attempt:       attempt,
		LastRejection: lastRejection,
	}
	if bid, ok := s.table.Round.CurrentBid(); ok {
		b := bid
		req.CurrentBid = &b
		analysis := AnalyzeBid(req.TotalDice, bid, req.OwnDice)
		req.Advisory = &analysis
	}
	return req
}

// apply mutates the table for one action. Caller holds s.mu.
func (s *GameSession) apply(p *entities.Participant, action entities.Action) (*TurnResult, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}
	if action.IsChallenge() {
		return s.applyChallenge(p, action)
	}

	bid, _ := action.Bid()
	round := s.table.Round.Number()
	if err := s.table.Round.RecordBid(p.ID, bid); err != nil {
		return nil, err
	}
	s.table.Log.Append(entities.LogEntry{
		Round:         round,
		Kind:          entities.LogEntryBid,
		ParticipantID: p.ID,
		Bid:           &bid,
	})
	s.table.Advance()

	log.WithFields(log.Fields{
		"table_id":       s.table.ID,
		"round":          round,
		"participant_id": p.ID,
		"bid":            bid.String(),
	}).Debug("Bid accepted")

	s.publish(events.BidMadeEvent{
		TableID:       s.table.ID,
		Round:         round,
		ParticipantID: p.ID,
		Name:          p.Name,
		Bid:           bid,
	})

	return &TurnResult{ParticipantID: p.ID, Action: action}, nil
}

func (s *GameSession) applyChallenge(p *entities.Participant, action entities.Action) (*TurnResult, error) {
	if _, ok := s.table.Round.CurrentBid(); !ok {
		return nil, entities.ErrChallengeWithoutBid
	}

	bidderID, _ := s.table.Round.LastBidder()
	bidder, _ := s.table.Find(bidderID)

	s.phase = PhaseResolving
	res, err := s.resolver.Resolve(s.table, p.ID)
	if err != nil {
		s.phase = PhaseAwaitingAction
		return nil, err
	}
	s.phase = res.Phase
	s.metrics.RecordRoundResolved(res.Outcome.BidWasTrue)

	s.publish(events.ChallengeCalledEvent{
		TableID:      s.table.ID,
		Round:        res.Round,
		ChallengerID: p.ID,
		Challenger:   p.Name,
		BidderID:     bidder.ID,
		Bidder:       bidder.Name,
		Bid:          res.Outcome.Bid,
	})
	s.publish(events.DiceRevealedEvent{
		TableID:     s.table.ID,
		Round:       res.Round,
		Bid:         res.Outcome.Bid,
		ActualCount: res.Outcome.ActualCount,
		Pools:       res.Outcome.Revealed,
	})
	for _, out := range res.Eliminated {
		s.publish(events.PlayerEliminatedEvent{
			TableID:       s.table.ID,
			ParticipantID: out.ID,
			Name:          out.Name,
			Remaining:     len(s.table.Participants()),
		})
	}

	loserName := p.Name
	if res.Outcome.LoserID == bidder.ID {
		loserName = bidder.Name
	}
	resolved := events.RoundResolvedEvent{
		TableID:    s.table.ID,
		Round:      res.Round,
		BidWasTrue: res.Outcome.BidWasTrue,
		LoserID:    res.Outcome.LoserID,
		Loser:      loserName,
		DiceCounts: s.table.DiceCounts(),
	}
	if res.NextStarter != nil {
		resolved.NextStarter = res.NextStarter.Name
	}
	s.publish(resolved)

	if res.Phase == PhaseGameOver {
		duration := time.Since(s.startedAt)
		s.metrics.RecordGameFinished(res.Round, duration)
		s.publish(events.GameOverEvent{
			TableID:    s.table.ID,
			WinnerID:   res.Winner.ID,
			Winner:     res.Winner.Name,
			WinnerDice: res.Winner.Pool.Size(),
			Rounds:     res.Round,
		})
	}

	return &TurnResult{ParticipantID: p.ID, Action: action, Resolution: res}, nil
}

func (s *GameSession) applyFallback(p *entities.Participant, reason string) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action := entities.ChallengeAction()
	if _, ok := s.table.Round.CurrentBid(); !ok {
		action = entities.BidAction(entities.Bid{Quantity: 1, Face: entities.MinFace})
	}

	log.WithFields(log.Fields{
		"table_id":       s.table.ID,
		"participant_id": p.ID,
		"reason":         reason,
		"action":         action.String(),
	}).Warn("Applying fallback action")

	s.metrics.RecordFallback(reason)
	s.table.Log.Append(entities.LogEntry{
		Round:         s.table.Round.Number(),
		Kind:          entities.LogEntryFallback,
		ParticipantID: p.ID,
	})
	s.publish(events.DecisionFallbackEvent{
		TableID:       s.table.ID,
		ParticipantID: p.ID,
		Name:          p.Name,
		Action:        action,
		Reason:        reason,
	})

	result, err := s.apply(p, action)
	if err != nil {
		return nil, fmt.Errorf("fallback action %s rejected: %w", action, err)
	}
	result.Fallback = true
	result.FallbackReason = reason
	return result, nil
}

func (s *GameSession) reject(p *entities.Participant, action entities.Action, attempt int, err error) {
	reason := rejectionReason(err)
	s.metrics.RecordInvalidAction(reason)

	log.WithFields(log.Fields{
		"table_id":       s.table.ID,
		"participant_id": p.ID,
		"action":         action.String(),
		"attempt":        attempt,
		"error":          err,
	}).Info("Action rejected")

	s.publish(events.ActionRejectedEvent{
		TableID:       s.table.ID,
		ParticipantID: p.ID,
		Name:          p.Name,
		Action:        action,
		Reason:        err.Error(),
		Attempt:       attempt,
	})
}

func (s *GameSession) publishTurnStarted(p *entities.Participant) {
	e := events.TurnStartedEvent{
		TableID:       s.table.ID,
		Round:         s.table.Round.Number(),
		ParticipantID: p.ID,
		Name:          p.Name,
		TotalDice:     s.table.TotalDice(),
	}
	if bid, ok := s.table.Round.CurrentBid(); ok {
		b := bid
		e.CurrentBid = &b
	}
	s.publish(e)
}

func (s *GameSession) publish(event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(event); err != nil {
		log.WithFields(log.Fields{
			"table_id":  s.table.ID,
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to publish game event")
	}
}

func isRejection(err error) bool {
	return errors.Is(err, entities.ErrInvalidBid) ||
		errors.Is(err, entities.ErrInvalidAction) ||
		errors.Is(err, entities.ErrChallengeWithoutBid)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, entities.ErrInvalidBid):
		return "invalid_bid"
	case errors.Is(err, entities.ErrInvalidAction):
		return "invalid_action"
	case errors.Is(err, entities.ErrChallengeWithoutBid):
		return "challenge_without_bid"
	default:
		return "decision_error"
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordGameStarted(int)                                  {}
func (noopMetrics) RecordGameFinished(int, time.Duration)                  {}
func (noopMetrics) RecordRoundResolved(bool)                               {}
func (noopMetrics) RecordDecision(entities.ParticipantKind, time.Duration) {}
func (noopMetrics) RecordInvalidAction(string)                             {}
func (noopMetrics) RecordFallback(string)                                  {}
