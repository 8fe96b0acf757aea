package testhelpers

import (
	"context"
	"sync"
	"testing"

	"liarsdice/domain/entities"
	"liarsdice/domain/interfaces"

	"github.com/stretchr/testify/require"
)

// SequenceRoller returns the given values in order, wrapping around
type SequenceRoller struct {
	mu     sync.Mutex
	values []int
	next   int
}

func NewSequenceRoller(values ...int) *SequenceRoller {
	return &SequenceRoller{values: values}
}

func (r *SequenceRoller) RollDie() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

// NewTestParticipant seats a bot holding exactly dice
func NewTestParticipant(t *testing.T, id string, dice ...int) *entities.Participant {
	t.Helper()
	pool, err := entities.NewDicePoolFromValues(dice...)
	require.NoError(t, err)
	return &entities.Participant{ID: id, Name: id, Kind: entities.ParticipantBot, Pool: pool}
}

// NewTestTable builds a table from participants in rotation order
func NewTestTable(t *testing.T, participants ...*entities.Participant) *entities.Table {
	t.Helper()
	table, err := entities.NewTable("test-table", participants)
	require.NoError(t, err)
	return table
}

// ScriptedDecisionSource replays a fixed list of actions and then challenges,
// or opens with 1 x 2's when there is nothing to challenge
type ScriptedDecisionSource struct {
	mu       sync.Mutex
	actions  []entities.Action
	Requests []interfaces.DecisionRequest
}

func NewScriptedDecisionSource(actions ...entities.Action) *ScriptedDecisionSource {
	return &ScriptedDecisionSource{actions: actions}
}

func (s *ScriptedDecisionSource) Decide(ctx context.Context, req interfaces.DecisionRequest) (entities.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)

	if len(s.actions) > 0 {
		a := s.actions[0]
		s.actions = s.actions[1:]
		return a, nil
	}
	if req.CurrentBid == nil {
		return entities.BidAction(entities.Bid{Quantity: 1, Face: 2}), nil
	}
	return entities.ChallengeAction(), nil
}

// BlockingDecisionSource waits until its context is done
type BlockingDecisionSource struct{}

func (BlockingDecisionSource) Decide(ctx context.Context, req interfaces.DecisionRequest) (entities.Action, error) {
	<-ctx.Done()
	return entities.Action{}, ctx.Err()
}
