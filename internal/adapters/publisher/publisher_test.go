package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"route-consolidation-service/internal/domain"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var detected = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublisherEnvelope(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: "sla.alerts"}

	err := p.PublishAlert(context.Background(), domain.SLARiskAlert{
		ParcelID:   "P1",
		RiskLevel:  domain.RiskHigh,
		DetectedAt: detected,
	})
	require.NoError(t, err)
	require.NoError(t, p.PublishBreach(context.Background(), domain.BreachEvent{
		ParcelID:       "P2",
		MinutesOverdue: 12,
		DetectedAt:     detected,
	}))

	require.Len(t, w.msgs, 2)
	assert.Equal(t, "P1", string(w.msgs[0].Key))

	var alert AlertEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &alert))
	assert.Equal(t, KindAlert, alert.Kind)
	assert.NotEmpty(t, alert.ID)
	require.NotNil(t, alert.Alert)
	assert.Nil(t, alert.Breach)
	assert.Equal(t, domain.RiskHigh, alert.Alert.RiskLevel)

	var breach AlertEvent
	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &breach))
	assert.Equal(t, KindBreach, breach.Kind)
	require.NotNil(t, breach.Breach)
	assert.Equal(t, 12, breach.Breach.MinutesOverdue)
	assert.NotEqual(t, alert.ID, breach.ID)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{writer: &fakeWriter{err: boom}, topic: "t"}

	err := p.PublishAlert(context.Background(), domain.SLARiskAlert{ParcelID: "P1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	acks      chan amqp.Confirmation
	ack       bool

	// hold keeps confirms back until flush.
	hold    bool
	pending []amqp.Confirmation
}

func (f *fakeChannel) GetNextPublishSeqNo() uint64 {
	return uint64(len(f.published)) + 1
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.published = append(f.published, msg)
	f.keys = append(f.keys, key)
	conf := amqp.Confirmation{DeliveryTag: uint64(len(f.published)), Ack: f.ack}
	if f.hold {
		f.pending = append(f.pending, conf)
		return nil
	}
	f.acks <- conf
	return nil
}

func (f *fakeChannel) flush() {
	for _, c := range f.pending {
		f.acks <- c
	}
	f.pending = nil
}

func newFakeRabbit(ack bool) (*RabbitMQPublisher, *fakeChannel) {
	ch := &fakeChannel{acks: make(chan amqp.Confirmation, 4), ack: ack}
	return &RabbitMQPublisher{ch: ch, exchange: "sla.alerts", acks: ch.acks}, ch
}

func TestRabbitMQPublisherWaitsForConfirm(t *testing.T) {
	p, ch := newFakeRabbit(true)

	require.NoError(t, p.PublishBreach(context.Background(), domain.BreachEvent{ParcelID: "P9", DetectedAt: detected}))

	require.Len(t, ch.published, 1)
	assert.Equal(t, KindBreach, ch.keys[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.NotEmpty(t, ch.published[0].MessageId)
}

func TestRabbitMQPublisherNack(t *testing.T) {
	p, _ := newFakeRabbit(false)

	err := p.PublishAlert(context.Background(), domain.SLARiskAlert{ParcelID: "P1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nack")
}

func TestRabbitMQPublisherSkipsStaleConfirm(t *testing.T) {
	p, ch := newFakeRabbit(true)

	// The first publish gives up before its confirm arrives.
	ch.hold = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.PublishAlert(ctx, domain.SLARiskAlert{ParcelID: "P1"})
	require.ErrorIs(t, err, context.Canceled)

	// Its late ack must not be taken as the ack for the next message.
	ch.hold = false
	ch.ack = false
	ch.flush()

	err = p.PublishAlert(context.Background(), domain.SLARiskAlert{ParcelID: "P2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nack")
}

func TestLogPublisherNeverFails(t *testing.T) {
	p := NewLogPublisher()
	assert.NoError(t, p.PublishAlert(context.Background(), domain.SLARiskAlert{ParcelID: "P1"}))
	assert.NoError(t, p.PublishBreach(context.Background(), domain.BreachEvent{ParcelID: "P1"}))
}
