// Package kafka publishes escalation records as handoff events on a Kafka topic,
// keyed by ticket subject so one ticket's escalations stay ordered.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
	"github.com/sweetpotato0/ticket-resolver/escalation"
)

// DefaultTopic receives escalation events when none is configured.
const DefaultTopic = "ticket-escalations"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer implements escalation.Store on top of a kafka.Writer.
type Producer struct {
	writer messageWriter
}

// NewProducer creates a producer for brokers and topic.
func NewProducer(brokers []string, topic string) *Producer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// Append implements escalation.Store.
func (p *Producer) Append(ctx context.Context, rec escalation.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode escalation: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(rec.TicketSubject),
		Value: data,
		Headers: []kafka.Header{
			{Key: "category", Value: []byte(rec.Category)},
			{Key: "retry_count", Value: []byte(strconv.Itoa(rec.RetryCount))},
		},
		Time: rec.Timestamp,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish escalation: %w", err)
	}
	return nil
}

// Close closes the Kafka writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
