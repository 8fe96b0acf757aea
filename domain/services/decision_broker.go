package services

import (
	"context"
	"sync"

	"liarsdice/domain/entities"
	"liarsdice/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// PromptFunc is told when a participant is expected to act
type PromptFunc func(req interfaces.DecisionRequest)

type pendingDecision struct {
	ctx     context.Context
	request interfaces.DecisionRequest
	reply   chan entities.Action
}

// DecisionBroker is the decision source for humans. The game loop blocks in
// Decide until a command handler delivers the action through Submit.
type DecisionBroker struct {
	mu      sync.Mutex
	pending map[string]*pendingDecision
	prompt  PromptFunc
}

// NewDecisionBroker creates a broker. prompt may be nil.
func NewDecisionBroker(prompt PromptFunc) *DecisionBroker {
	return &DecisionBroker{
		pending: make(map[string]*pendingDecision),
		prompt:  prompt,
	}
}

func (b *DecisionBroker) Decide(ctx context.Context, req interfaces.DecisionRequest) (entities.Action, error) {
	pd := &pendingDecision{ctx: ctx, request: req, reply: make(chan entities.Action, 1)}

	b.mu.Lock()
	b.pending[req.ParticipantID] = pd
	b.mu.Unlock()

	defer b.drop(req.ParticipantID, pd)

	if b.prompt != nil {
		b.prompt(req)
	}

	select {
	case action := <-pd.reply:
		return action, nil
	case <-ctx.Done():
		b.drop(req.ParticipantID, pd)
		// Submit accepted this before the deadline
		select {
		case action := <-pd.reply:
			return action, nil
		default:
		}
		log.WithFields(log.Fields{
			"table_id":       req.TableID,
			"participant_id": req.ParticipantID,
		}).Debug("Pending decision expired")
		return entities.Action{}, ctx.Err()
	}
}

// Submit delivers an action for participantID's pending decision
func (b *DecisionBroker) Submit(participantID string, action entities.Action) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pd, ok := b.pending[participantID]
	if !ok {
		return entities.ErrNoPendingDecision
	}
	delete(b.pending, participantID)
	if pd.ctx.Err() != nil {
		return entities.ErrNoPendingDecision
	}
	pd.reply <- action
	return nil
}

func (b *DecisionBroker) drop(participantID string, pd *pendingDecision) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending[participantID] == pd {
		delete(b.pending, participantID)
	}
}

// Pending returns the request participantID is being asked to answer
func (b *DecisionBroker) Pending(participantID string) (interfaces.DecisionRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pd, ok := b.pending[participantID]
	if !ok {
		return interfaces.DecisionRequest{}, false
	}
	return pd.request, true
}
