package repository

import (
	"context"
	"fmt"

	"search-enrichment-service/internal/domain/entity"
	"search-enrichment-service/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// publisher is the part of *amqp.Channel the queue repository needs
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueueSearchRepository publishes enriched searches to the outbound queue
type QueueSearchRepository struct {
	channel   publisher
	queueName string
	logger    logger.Logger
}

// NewQueueSearchRepository creates a new outbound queue repository
func NewQueueSearchRepository(channel publisher, queueName string, logger logger.Logger) *QueueSearchRepository {
	return &QueueSearchRepository{
		channel:   channel,
		queueName: queueName,
		logger:    logger,
	}
}

// Name identifies the sink
func (r *QueueSearchRepository) Name() string {
	return "rabbitmq"
}

// Save publishes the search as JSON, keyed by its search id
func (r *QueueSearchRepository) Save(ctx context.Context, search *entity.Search) error {
	body, err := json.Marshal(search)
	if err != nil {
		return fmt.Errorf("marshal search %s: %w", search.SearchID, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Headers:      amqp.Table{"search_id": search.SearchID},
		Body:         body,
	}

	if err := r.channel.PublishWithContext(ctx, "", r.queueName, false, false, msg); err != nil {
		return fmt.Errorf("publish search %s: %w", search.SearchID, err)
	}

	r.logger.Debug("Published search", "queue", r.queueName, "searchID", search.SearchID)
	return nil
}
