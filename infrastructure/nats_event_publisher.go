package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gamewin/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const sourceService = "gamewin"

// EventEnvelope wraps every event put on the bus
type EventEnvelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"sourceService"`
	Payload       json.RawMessage `json:"payload"`
}

// PublishObserver is told about every publish attempt
type PublishObserver interface {
	RecordEventPublished(ctx context.Context, eventType string, err error)
}

// NATSEventPublisher forwards committed domain events to a message bus
type NATSEventPublisher struct {
	publisher     MessagePublisher
	subjectMapper *EventSubjectMapper
	observer      PublishObserver
	now           func() time.Time
}

// NewNATSEventPublisher creates a new NATS event publisher. observer may be nil.
func NewNATSEventPublisher(publisher MessagePublisher, subjectMapper *EventSubjectMapper, observer PublishObserver) *NATSEventPublisher {
	return &NATSEventPublisher{
		publisher:     publisher,
		subjectMapper: subjectMapper,
		observer:      observer,
		now:           time.Now,
	}
}

// Attach subscribes the publisher to every event of the bus
func (p *NATSEventPublisher) Attach(bus *events.Bus) {
	bus.SubscribeAll(p.HandleEvent)
}

// HandleEvent is an events.Handler; failures are logged since the ledger already committed
func (p *NATSEventPublisher) HandleEvent(ctx context.Context, event events.Event) {
	err := p.Publish(ctx, event)
	if p.observer != nil {
		p.observer.RecordEventPublished(ctx, string(event.Type()), err)
	}
	if err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to publish event to NATS")
	}
}

// Publish publishes an event to NATS using the appropriate subject
func (p *NATSEventPublisher) Publish(ctx context.Context, event events.Event) error {
	subject := p.subjectMapper.MapEventToSubject(event)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     string(event.Type()),
		Timestamp:     p.now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}

	envelopeData, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := p.publisher.Publish(ctx, subject, envelopeData); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")
	return nil
}
