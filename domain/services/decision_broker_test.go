package services

import (
	"context"
	"testing"
	"time"

	"liarsdice/domain/entities"
	"liarsdice/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionBroker_SubmitDeliversAction(t *testing.T) {
	prompted := make(chan interfaces.DecisionRequest, 1)
	broker := NewDecisionBroker(func(req interfaces.DecisionRequest) { prompted <- req })

	type decision struct {
		action entities.Action
		err    error
	}
	done := make(chan decision, 1)
	go func() {
		a, err := broker.Decide(context.Background(), interfaces.DecisionRequest{ParticipantID: "alice", Round: 2})
		done <- decision{a, err}
	}()

	req := <-prompted
	assert.Equal(t, 2, req.Round)

	pending, ok := broker.Pending("alice")
	require.True(t, ok)
	assert.Equal(t, "alice", pending.ParticipantID)

	require.NoError(t, broker.Submit("alice", bid(3, 4)))

	select {
	case d := <-done:
		require.NoError(t, d.err)
		assert.Equal(t, bid(3, 4), d.action)
	case <-time.After(time.Second):
		t.Fatal("decision was not delivered")
	}

	_, ok = broker.Pending("alice")
	assert.False(t, ok)
}

func TestDecisionBroker_SubmitWithoutPendingDecision(t *testing.T) {
	broker := NewDecisionBroker(nil)
	err := broker.Submit("bob", entities.ChallengeAction())
	assert.ErrorIs(t, err, entities.ErrNoPendingDecision)
}

func TestDecisionBroker_ContextExpiry(t *testing.T) {
	broker := NewDecisionBroker(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := broker.Decide(ctx, interfaces.DecisionRequest{ParticipantID: "alice"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, ok := broker.Pending("alice")
	assert.False(t, ok)
	assert.ErrorIs(t, broker.Submit("alice", entities.ChallengeAction()), entities.ErrNoPendingDecision)
}

func TestDecisionBroker_SubmitAfterDeadlineIsRefused(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var submitErr error
	var broker *DecisionBroker
	broker = NewDecisionBroker(func(req interfaces.DecisionRequest) {
		// the deadline passes before Decide starts waiting
		cancel()
		submitErr = broker.Submit(req.ParticipantID, bid(2, 5))
	})

	_, err := broker.Decide(ctx, interfaces.DecisionRequest{ParticipantID: "alice"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, submitErr, entities.ErrNoPendingDecision)

	_, ok := broker.Pending("alice")
	assert.False(t, ok)
}
