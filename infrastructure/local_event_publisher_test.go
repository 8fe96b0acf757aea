package infrastructure

import (
	"context"
	"errors"
	"testing"

	"liarsdice/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalEventPublisher_DispatchesByType(t *testing.T) {
	p := NewLocalEventPublisher()

	var bids, overs int
	p.RegisterLocalHandler(func(ctx context.Context, e events.Event) error {
		bids++
		return nil
	}, events.EventTypeBidMade)
	p.RegisterLocalHandler(func(ctx context.Context, e events.Event) error {
		overs++
		return errors.New("display failed")
	}, events.EventTypeGameOver, events.EventTypeBidMade)

	require.NoError(t, p.Publish(events.BidMadeEvent{TableID: "t1"}))
	require.NoError(t, p.Publish(events.GameOverEvent{TableID: "t1"}))
	require.NoError(t, p.Publish(events.TurnStartedEvent{TableID: "t1"}))

	assert.Equal(t, 1, bids)
	assert.Equal(t, 2, overs)
}
