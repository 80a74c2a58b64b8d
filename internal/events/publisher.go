// Package events publishes an outbound audit feed of collection mutations.
// The feed is best-effort: a publish failure is logged, never allowed to
// fail the mutation that triggered it.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TemplateCreated   = "template.created"
	TemplateDeleted   = "template.deleted"
	SubmissionCreated = "submission.created"
	SubmissionDeleted = "submission.deleted"
)

// Config describes the Kafka destination for the audit feed.
type Config struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// Validate ensures the configuration is usable.
func (cfg Config) Validate() error {
	if len(cfg.Brokers) == 0 {
		return errors.New("events: at least one broker must be configured")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return errors.New("events: topic must be provided")
	}
	return nil
}

func (cfg Config) normalize() Config {
	normalized := cfg
	normalized.Topic = strings.TrimSpace(normalized.Topic)
	normalized.ClientID = strings.TrimSpace(normalized.ClientID)
	brokers := make([]string, 0, len(normalized.Brokers))
	for _, broker := range normalized.Brokers {
		broker = strings.TrimSpace(broker)
		if broker == "" {
			continue
		}
		brokers = append(brokers, broker)
	}
	normalized.Brokers = brokers
	return normalized
}

// Event is the wire payload of one mutation.
type Event struct {
	Type       string `json:"type"`
	EntityID   string `json:"entityId"`
	OccurredAt int64  `json:"occurredAt"`
}

// Publisher wraps a Kafka writer. A nil Publisher is a valid no-op, so
// callers never branch on whether the feed is configured.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher constructs a Kafka-backed publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	normalized := cfg.normalize()
	if err := normalized.Validate(); err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(normalized.Brokers...),
		Topic:                  normalized.Topic,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
	}
	if normalized.ClientID != "" {
		writer.Transport = &kafka.Transport{ClientID: normalized.ClientID}
	}

	log.Printf("events: publishing mutations to %s topic %s", strings.Join(normalized.Brokers, ","), normalized.Topic)
	return &Publisher{writer: writer}, nil
}

// Publish emits one mutation event keyed by the entity id. Failures are
// logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, eventType, entityID string) {
	if p == nil || p.writer == nil {
		return
	}

	payload, err := json.Marshal(Event{
		Type:       eventType,
		EntityID:   entityID,
		OccurredAt: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("events: encode %s: %v", eventType, err)
		return
	}

	msg := kafka.Message{
		Key:     []byte(entityID),
		Value:   payload,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(eventType)}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("events: publish %s for %s: %v", eventType, entityID, err)
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// String implements fmt.Stringer for logging.
func (cfg Config) String() string {
	normalized := cfg.normalize()
	return fmt.Sprintf("events.Config{brokers=%s, topic=%s, client=%s}",
		strings.Join(normalized.Brokers, ","), normalized.Topic, normalized.ClientID)
}
