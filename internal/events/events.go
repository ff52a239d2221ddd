package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/google/uuid"
)

// AuditEvent records a state change worth broadcasting: group lifecycle,
// membership changes, AOI submissions, user administration.
type AuditEvent struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"` // create, update, delete, add_member, remove_member
	Entity    string    `json:"entity"` // access_group, group_member, aoi, user
	EntityID  int64     `json:"entity_id"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAuditEvent stamps an event with a correlation id and the current time.
func NewAuditEvent(action, entity string, entityID int64, actor string) AuditEvent {
	return AuditEvent{
		ID:        uuid.New(),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	}
}

// Notifier publishes audit events. Handlers treat publish failures as
// non-fatal: the write has already committed.
type Notifier interface {
	Publish(event AuditEvent) error
	Close()
}

// EventPublisher is the Pulsar-backed Notifier.
type EventPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewEventPublisher initializes the Pulsar client and producer.
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	return &EventPublisher{client: client, producer: producer}, nil
}

// Publish serializes the event as JSON and sends it to the topic.
func (p *EventPublisher) Publish(event AuditEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not serialize event payload: %w", err)
	}

	_, err = p.producer.Send(context.Background(), &pulsar.ProducerMessage{
		Payload: message,
	})
	if err != nil {
		return fmt.Errorf("could not send event: %w", err)
	}
	return nil
}

// Close closes the producer and client.
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
}

// NopNotifier discards events. Used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) Publish(AuditEvent) error { return nil }
func (NopNotifier) Close()                   {}
