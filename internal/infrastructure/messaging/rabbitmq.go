package messaging

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connection bundles an AMQP connection and the channel used by one worker
type Connection struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
}

// NewConnection dials the broker and opens a channel
func NewConnection(url string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &Connection{
		Conn:    conn,
		Channel: ch,
	}, nil
}

// DeclareQueue declares a durable, non-exclusive queue
func (c *Connection) DeclareQueue(name string) error {
	_, err := c.Channel.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	return nil
}

// Close closes the channel then the connection
func (c *Connection) Close() error {
	if c.Channel != nil {
		c.Channel.Close()
	}
	if c.Conn != nil {
		return c.Conn.Close()
	}
	return nil
}
