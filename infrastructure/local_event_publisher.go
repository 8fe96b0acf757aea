package infrastructure

import (
	"context"
	"sync"

	"liarsdice/domain/events"

	log "github.com/sirupsen/logrus"
)

// EventHandler handles one published event in process
type EventHandler func(ctx context.Context, event events.Event) error

// LocalEventPublisher dispatches events to handlers registered in this process.
// Handler errors are logged and never stop the remaining handlers.
type LocalEventPublisher struct {
	mu            sync.RWMutex
	localHandlers map[events.EventType][]EventHandler
}

// NewLocalEventPublisher creates a publisher with no handlers
func NewLocalEventPublisher() *LocalEventPublisher {
	return &LocalEventPublisher{
		localHandlers: make(map[events.EventType][]EventHandler),
	}
}

// Publish invokes every handler registered for the event type
func (p *LocalEventPublisher) Publish(event events.Event) error {
	p.dispatch(context.Background(), event)
	return nil
}

// RegisterLocalHandler registers a handler for eventTypes
func (p *LocalEventPublisher) RegisterLocalHandler(handler EventHandler, eventTypes ...events.EventType) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, eventType := range eventTypes {
		p.localHandlers[eventType] = append(p.localHandlers[eventType], handler)
		log.WithFields(log.Fields{
			"eventType":    eventType,
			"handlerCount": len(p.localHandlers[eventType]),
		}).Debug("Registered local event handler")
	}
}

func (p *LocalEventPublisher) dispatch(ctx context.Context, event events.Event) {
	p.mu.RLock()
	handlers := p.localHandlers[event.Type()]
	p.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"table_id":  event.GameID(),
				"error":     err,
			}).Error("Local event handler failed")
		}
	}
}
