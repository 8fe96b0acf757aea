package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"liarsdice/domain/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const sourceService = "liarsdice"

// EventEnvelope wraps every event mirrored to NATS
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	TableID       string          `json:"table_id"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventPublisher runs local handlers and mirrors every event to NATS
type NATSEventPublisher struct {
	*LocalEventPublisher
	natsClient    *NATSClient
	subjectMapper *EventSubjectMapper
	timeout       time.Duration
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(natsClient *NATSClient, subjectMapper *EventSubjectMapper) *NATSEventPublisher {
	return &NATSEventPublisher{
		LocalEventPublisher: NewLocalEventPublisher(),
		natsClient:          natsClient,
		subjectMapper:       subjectMapper,
		timeout:             5 * time.Second,
	}
}

// Publish invokes local handlers, then publishes the enveloped event to NATS
func (p *NATSEventPublisher) Publish(event events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	p.dispatch(ctx, event)

	subject := p.subjectMapper.MapEventToSubject(event)
	envelopeData, envelope, err := NewEnvelope(event)
	if err != nil {
		return err
	}

	if err := p.natsClient.Publish(ctx, subject, envelopeData); err != nil {
		// no stream bound to the subject, nobody is listening
		if strings.Contains(err.Error(), "no response from stream") {
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}

// EnsureGameEventStream ensures the stream for every table subject exists
func (p *NATSEventPublisher) EnsureGameEventStream() error {
	return p.natsClient.ensureStream(GameEventStream, p.subjectMapper.GetAllSubjects())
}

// NewEnvelope serializes event inside a fresh envelope
func NewEnvelope(event events.Event) ([]byte, *EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		TableID:       event.GameID(),
		Timestamp:     time.Now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, envelope, nil
}

// DecodeEnvelope parses an envelope and its event payload
func DecodeEnvelope(data []byte) (*EventEnvelope, events.Event, error) {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	event, err := events.Decode(events.EventType(envelope.EventType), envelope.Payload)
	if err != nil {
		return &envelope, nil, err
	}
	return &envelope, event, nil
}
