package infrastructure

import (
	"context"
	"errors"
	"testing"

	"liarsdice/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestNATSTransactionalPublisher_FlushPublishesInOrder(t *testing.T) {
	mockPublisher := &MockEventPublisher{}
	publisher := NewNATSTransactionalPublisher(mockPublisher)

	first := events.GameOverEvent{TableID: "t1", WinnerID: "alice"}
	second := events.RecordsUpdatedEvent{TableID: "t1", WinnerID: "alice", PlayerIDs: []string{"alice"}}

	require.NoError(t, publisher.Publish(first))
	require.NoError(t, publisher.Publish(second))

	// nothing leaves before the flush
	assert.Empty(t, mockPublisher.PublishedEvents)
	assert.Equal(t, 2, publisher.PendingCount())

	require.NoError(t, publisher.Flush(context.Background()))
	assert.Equal(t, []events.Event{first, second}, mockPublisher.PublishedEvents)
	assert.Equal(t, 0, publisher.PendingCount())
}

func TestNATSTransactionalPublisher_Discard(t *testing.T) {
	mockPublisher := &MockEventPublisher{}
	publisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, publisher.Publish(events.GameOverEvent{TableID: "t1"}))
	publisher.Discard()
	require.NoError(t, publisher.Flush(context.Background()))

	assert.Empty(t, mockPublisher.PublishedEvents)
}

func TestNATSTransactionalPublisher_FlushContinuesAfterErrors(t *testing.T) {
	mockPublisher := &MockEventPublisher{PublishError: errors.New("nats down")}
	publisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, publisher.Publish(events.GameOverEvent{TableID: "t1"}))
	require.NoError(t, publisher.Publish(events.GameOverEvent{TableID: "t2"}))

	assert.NoError(t, publisher.Flush(context.Background()))
	assert.Equal(t, 0, publisher.PendingCount())
}

func TestNATSTransactionalPublisher_LocalHandlersRunOnFlush(t *testing.T) {
	local := NewLocalEventPublisher()
	var received []events.Event
	local.RegisterLocalHandler(func(ctx context.Context, event events.Event) error {
		received = append(received, event)
		return nil
	}, events.EventTypeRecordsUpdated)

	publisher := NewNATSTransactionalPublisher(local)
	event := events.RecordsUpdatedEvent{TableID: "t1"}
	require.NoError(t, publisher.Publish(event))
	assert.Empty(t, received)

	require.NoError(t, publisher.Flush(context.Background()))
	assert.Equal(t, []events.Event{event}, received)
}
