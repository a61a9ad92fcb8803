package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"fairworkly/internal/platform/config"
)

// Producer wraps a franz-go client for publishing audit events.
type Producer struct {
	client *kgo.Client
	topic  string
}

// New creates a Kafka producer from the provided configuration.
// Returns nil if no brokers are configured (Kafka sink disabled).
func New(cfg config.KafkaConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &Producer{client: client, topic: cfg.Topic}, nil
}

// Publish synchronously produces one record keyed by key. Synchronous because
// audit callers need to know delivery failed.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	rec := &kgo.Record{Topic: p.topic, Key: []byte(key), Value: value}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce audit record: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying client.
func (p *Producer) Close() {
	if p != nil && p.client != nil {
		p.client.Close()
	}
}
