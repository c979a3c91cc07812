package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-enrichment-service/internal/domain/repository"
	"search-enrichment-service/pkg/logger"
)

type fakeAcknowledger struct {
	acked []uint64
	err   error
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = append(a.acked, tag)
	return a.err
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error { return nil }

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error { return nil }

func TestQueueConsumer_Next(t *testing.T) {
	deliveries := make(chan amqp.Delivery, 2)
	ack := &fakeAcknowledger{}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte("1.0^S1^FR")}
	deliveries <- amqp.Delivery{Body: []byte(`{"search_id":"S2"}`)}

	c := NewDeliveryConsumer(deliveries, "raw_recos", logger.NewNopLogger())

	body, err := c.Next(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "1.0^S1^FR", string(body))
	assert.Equal(t, []uint64{7}, ack.acked)

	body, err = c.Next(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, `{"search_id":"S2"}`, string(body))
}

func TestQueueConsumer_AckFailureStillDelivers(t *testing.T) {
	deliveries := make(chan amqp.Delivery, 1)
	deliveries <- amqp.Delivery{Acknowledger: &fakeAcknowledger{err: errors.New("channel closed")}, Body: []byte("x")}

	c := NewDeliveryConsumer(deliveries, "raw_recos", logger.NewNopLogger())

	body, err := c.Next(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "x", string(body))
}

func TestQueueConsumer_NextTimesOut(t *testing.T) {
	c := NewDeliveryConsumer(make(chan amqp.Delivery), "raw_recos", logger.NewNopLogger())

	_, err := c.Next(context.Background(), 10*time.Millisecond)
	assert.ErrorIs(t, err, repository.ErrNoInput)
}

func TestQueueConsumer_NextClosed(t *testing.T) {
	deliveries := make(chan amqp.Delivery)
	close(deliveries)

	c := NewDeliveryConsumer(deliveries, "raw_recos", logger.NewNopLogger())

	_, err := c.Next(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrConsumerClosed)
}

func TestQueueConsumer_NextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewDeliveryConsumer(make(chan amqp.Delivery), "raw_recos", logger.NewNopLogger())

	_, err := c.Next(ctx, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
