package infrastructure

import (
	"testing"

	"liarsdice/domain/entities"
	"liarsdice/domain/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	event := events.BidMadeEvent{
		TableID:       "t1",
		Round:         2,
		ParticipantID: "alice",
		Name:          "Alice",
		Bid:           entities.Bid{Quantity: 4, Face: 6},
	}

	data, envelope, err := NewEnvelope(event)
	require.NoError(t, err)
	_, err = uuid.Parse(envelope.EventID)
	require.NoError(t, err)
	assert.Equal(t, sourceService, envelope.SourceService)

	decodedEnvelope, decoded, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, envelope.EventID, decodedEnvelope.EventID)
	assert.Equal(t, "t1", decodedEnvelope.TableID)
	assert.Equal(t, event, decoded)
}

func TestDecodeEnvelope_Invalid(t *testing.T) {
	_, _, err := DecodeEnvelope([]byte("not json"))
	assert.Error(t, err)

	envelope, _, err := DecodeEnvelope([]byte(`{"event_type":"mystery","payload":{}}`))
	assert.Error(t, err)
	require.NotNil(t, envelope)
	assert.Equal(t, "mystery", envelope.EventType)
}
