package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fairworkly/internal/platform/kafka"
	"fairworkly/pkg/platform/circuit"
)

// kafkaEvent is the wire shape published to the audit topic.
type kafkaEvent struct {
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	TenantID  string    `json:"tenantId"`
	RunID     string    `json:"runId"`
	Action    string    `json:"action"`
	Subject   string    `json:"subject,omitempty"`
	Decision  string    `json:"decision,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// recordProducer is the slice of the Kafka producer the sink uses.
type recordProducer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// KafkaSink publishes audit events to the configured topic, keyed by run id
// so events for one run land on the same partition in order. A circuit
// breaker sheds publishes while the broker is down; the store remains the
// canonical record either way.
type KafkaSink struct {
	producer recordProducer
	breaker  *circuit.Breaker
}

// NewKafkaSink wraps a producer. Returns nil when the producer is nil
// (Kafka not configured), which the publisher tolerates.
func NewKafkaSink(producer *kafka.Producer) *KafkaSink {
	if producer == nil {
		return nil
	}
	return &KafkaSink{
		producer: producer,
		breaker:  circuit.New("kafka-audit", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
	}
}

func (s *KafkaSink) Write(ctx context.Context, event Event) error {
	if s == nil {
		return nil
	}
	payload, err := json.Marshal(kafkaEvent{
		Category:  string(event.Category),
		Timestamp: event.Timestamp,
		TenantID:  event.TenantID,
		RunID:     event.RunID,
		Action:    event.Action,
		Subject:   event.Subject,
		Decision:  event.Decision,
		Reason:    event.Reason,
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	if err := s.producer.Publish(ctx, event.RunID, payload); err != nil {
		if degraded, _ := s.breaker.RecordFailure(); degraded {
			// Broker is down; the store stays canonical and we stop
			// propagating publish failures until it recovers.
			return nil
		}
		return err
	}
	s.breaker.RecordSuccess()
	return nil
}
