package infrastructure

import (
	"fmt"
	"strings"

	"liarsdice/domain/events"
)

const subjectPrefix = "liarsdice"

var subjectsByType = map[events.EventType]string{
	events.EventTypeGameStarted:      "game.started",
	events.EventTypeTurnStarted:      "turn.started",
	events.EventTypeBidMade:          "bid.made",
	events.EventTypeChallengeCalled:  "challenge.called",
	events.EventTypeDiceRevealed:     "dice.revealed",
	events.EventTypeRoundResolved:    "round.resolved",
	events.EventTypePlayerEliminated: "player.eliminated",
	events.EventTypeGameOver:         "game.over",
	events.EventTypeActionRejected:   "action.rejected",
	events.EventTypeDecisionFallback: "decision.fallback",
	events.EventTypeRecordsUpdated:   "records.updated",
}

// EventSubjectMapper handles mapping between game events and NATS subjects.
// Subjects take the form liarsdice.<table>.<event>.
type EventSubjectMapper struct {
	typesBySubject map[string]events.EventType
}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	m := &EventSubjectMapper{typesBySubject: make(map[string]events.EventType, len(subjectsByType))}
	for t, s := range subjectsByType {
		m.typesBySubject[s] = t
	}
	return m
}

// MapEventToSubject converts a game event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	suffix, ok := subjectsByType[event.Type()]
	if !ok {
		suffix = fmt.Sprintf("unknown.%s", event.Type())
	}
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, sanitizeToken(event.GameID()), suffix)
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	parts := strings.SplitN(subject, ".", 3)
	if len(parts) == 3 && parts[0] == subjectPrefix {
		if t, ok := m.typesBySubject[parts[2]]; ok {
			return t
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns the wildcard subjects this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{subjectPrefix + ".>"}
}

// TableSubject returns the wildcard subject for every event of one table
func (m *EventSubjectMapper) TableSubject(tableID string) string {
	if tableID == "" {
		return subjectPrefix + ".>"
	}
	return fmt.Sprintf("%s.%s.>", subjectPrefix, sanitizeToken(tableID))
}

// sanitizeToken keeps a table id usable as a single subject token
func sanitizeToken(s string) string {
	if s == "" {
		return "_"
	}
	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(s)
}
