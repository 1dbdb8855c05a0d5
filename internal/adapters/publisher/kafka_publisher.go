package publisher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"route-consolidation-service/internal/domain"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per finding to a single topic, keyed by
// parcel id so a parcel's events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher: no brokers configured")
	}
	if topic == "" {
		return nil, errors.New("kafka publisher: topic is empty")
	}

	// Verify at least one broker is reachable.
	var connErr error
	for _, broker := range brokers {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		cancel()
		if err == nil {
			conn.Close()
			log.Printf("publisher: kafka connected to %s", broker)
			connErr = nil
			break
		}
		connErr = err
	}
	if connErr != nil {
		return nil, fmt.Errorf("kafka connect: %w", connErr)
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}, nil
}

func (k *KafkaPublisher) PublishAlert(ctx context.Context, a domain.SLARiskAlert) error {
	return k.publish(ctx, NewAlertEvent(a))
}

func (k *KafkaPublisher) PublishBreach(ctx context.Context, b domain.BreachEvent) error {
	return k.publish(ctx, NewBreachEvent(b))
}

func (k *KafkaPublisher) publish(ctx context.Context, e AlertEvent) error {
	body, err := e.encode()
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(e.ParcelID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(e.Kind)},
			{Key: "event_id", Value: []byte(e.ID)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish %s to %s: %w", e.Kind, k.topic, err)
	}
	return nil
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
