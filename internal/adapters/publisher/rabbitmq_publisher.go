package publisher

import (
	"context"
	"errors"
	"fmt"
	"route-consolidation-service/internal/domain"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpChannel interface {
	GetNextPublishSeqNo() uint64
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQPublisher publishes findings to a topic exchange with the event
// kind as routing key. Each publish waits for the broker's confirm.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	ch       amqpChannel
	closer   func() error
	exchange string

	acks <-chan amqp.Confirmation
	mu   sync.Mutex // confirms are matched by delivery tag, so publishes are serialized
}

func NewRabbitMQPublisher(url, exchange string) (*RabbitMQPublisher, error) {
	if exchange == "" {
		return nil, errors.New("rabbitmq publisher: exchange is empty")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare exchange %q: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq confirm mode: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 16))

	return &RabbitMQPublisher{
		conn:     conn,
		ch:       ch,
		closer:   ch.Close,
		exchange: exchange,
		acks:     acks,
	}, nil
}

func (r *RabbitMQPublisher) PublishAlert(ctx context.Context, a domain.SLARiskAlert) error {
	return r.publish(ctx, NewAlertEvent(a))
}

func (r *RabbitMQPublisher) PublishBreach(ctx context.Context, b domain.BreachEvent) error {
	return r.publish(ctx, NewBreachEvent(b))
}

func (r *RabbitMQPublisher) publish(ctx context.Context, e AlertEvent) error {
	body, err := e.encode()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tag := r.ch.GetNextPublishSeqNo()
	err = r.ch.PublishWithContext(ctx, r.exchange, e.Kind, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    e.ID,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", e.Kind, err)
	}

	for {
		select {
		case conf, ok := <-r.acks:
			if !ok {
				return errors.New("rabbitmq publish: confirm channel closed")
			}
			// Confirms for earlier publishes that gave up waiting.
			if conf.DeliveryTag < tag {
				continue
			}
			if !conf.Ack {
				return fmt.Errorf("rabbitmq publish %s: nack from broker", e.Kind)
			}
			return nil
		case <-ctx.Done():
			return fmt.Errorf("rabbitmq publish %s: %w", e.Kind, ctx.Err())
		}
	}
}

func (r *RabbitMQPublisher) Close() error {
	var errs []error
	if r.closer != nil {
		errs = append(errs, r.closer())
	}
	if r.conn != nil {
		errs = append(errs, r.conn.Close())
	}
	return errors.Join(errs...)
}
