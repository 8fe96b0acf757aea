package testhelpers

import (
	"context"
	"sync"

	"liarsdice/domain/entities"
	"liarsdice/domain/events"
	"liarsdice/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockDecisionSource is a mock implementation of DecisionSource
type MockDecisionSource struct {
	mock.Mock
}

func (m *MockDecisionSource) Decide(ctx context.Context, req interfaces.DecisionRequest) (entities.Action, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(entities.Action), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockTransactionalEventPublisher is a mock implementation of TransactionalEventPublisher
type MockTransactionalEventPublisher struct {
	mock.Mock
}

func (m *MockTransactionalEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockTransactionalEventPublisher) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransactionalEventPublisher) Discard() {
	m.Called()
}

// MockPlayerRecordRepository is a mock implementation of PlayerRecordRepository
type MockPlayerRecordRepository struct {
	mock.Mock
}

func (m *MockPlayerRecordRepository) GetByPlayerID(ctx context.Context, playerID string) (*entities.PlayerRecord, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PlayerRecord), args.Error(1)
}

func (m *MockPlayerRecordRepository) ApplyDelta(ctx context.Context, delta entities.PlayerRecordDelta) (*entities.PlayerRecord, error) {
	args := m.Called(ctx, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PlayerRecord), args.Error(1)
}

func (m *MockPlayerRecordRepository) GetLeaderboard(ctx context.Context, limit int) ([]*entities.PlayerRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PlayerRecord), args.Error(1)
}

// RecordingPublisher keeps every published event in order
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *RecordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

// OfType returns the recorded events with the given type
func (p *RecordingPublisher) OfType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, e := range p.Events() {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}
