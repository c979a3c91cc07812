package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"search-enrichment-service/internal/domain/repository"
	"search-enrichment-service/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrConsumerClosed is returned once the broker closed the delivery channel
var ErrConsumerClosed = errors.New("rabbitmq consumer closed")

// QueueConsumer pulls input units from a queue, one delivery at a time
type QueueConsumer struct {
	queueName  string
	deliveries <-chan amqp.Delivery
	logger     logger.Logger
}

// NewQueueConsumer starts consuming queueName on channel. Deliveries are
// acknowledged as they are handed out; redelivery is the broker's concern.
func NewQueueConsumer(channel *amqp.Channel, queueName string, logger logger.Logger) (*QueueConsumer, error) {
	if err := channel.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := channel.Consume(
		queueName,
		"",    // consumer tag (empty for auto-generated)
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", queueName, err)
	}

	logger.Info("Consuming queue", "queue", queueName)
	return NewDeliveryConsumer(deliveries, queueName, logger), nil
}

// NewDeliveryConsumer wraps an existing delivery channel
func NewDeliveryConsumer(deliveries <-chan amqp.Delivery, queueName string, logger logger.Logger) *QueueConsumer {
	return &QueueConsumer{
		queueName:  queueName,
		deliveries: deliveries,
		logger:     logger,
	}
}

// Next waits at most wait for the next delivery
func (c *QueueConsumer) Next(ctx context.Context, wait time.Duration) ([]byte, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, repository.ErrNoInput
	case d, ok := <-c.deliveries:
		if !ok {
			return nil, ErrConsumerClosed
		}
		if d.Acknowledger != nil {
			if err := d.Ack(false); err != nil {
				c.logger.Warn("Failed to ack delivery", "queue", c.queueName, "error", err)
			}
		}
		return d.Body, nil
	}
}
