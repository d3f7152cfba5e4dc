package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink produces registry events to a Kafka topic. The event key is the
// location so consumers see per-property ordering.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink connects to the brokers and ensures the topic exists. A
// missing topic is created with the given partition count; "topic already
// exists" responses are ignored so concurrent startups stay quiet.
func NewKafkaSink(ctx context.Context, brokers []string, topic string, partitions int32) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerLinger(0),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, partitions, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		client.Close()
		return nil, fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}

	return &KafkaSink{client: client, topic: topic}, nil
}

// Publish produces one outbox entry synchronously. The worker marks entries
// published only after this returns nil.
func (s *KafkaSink) Publish(ctx context.Context, entry OutboxEntry) error {
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(entry.Event.Location.String()),
		Value: entry.Payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event %s: %w", entry.ID, err)
	}
	return nil
}

// Close flushes and releases the underlying client.
func (s *KafkaSink) Close() {
	s.client.Close()
}
