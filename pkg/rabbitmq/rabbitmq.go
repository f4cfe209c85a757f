package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"storeadmin/internal/models"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
)

// OrderStatusQueue receives one message per successful order status change.
const OrderStatusQueue = "order_status_queue"

// ErrRetryable marks a handler failure that may succeed on redelivery. Any
// other handler error drops the message instead of requeueing it.
var ErrRetryable = errors.New("retryable")

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // amqp.Channel is not safe for concurrent publishes
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// OrderStatusEvent is the body of an order status message.
type OrderStatusEvent struct {
	OrderID      string    `json:"orderId"`
	UserID       string    `json:"userId"`
	OrderStatus  string    `json:"orderStatus"`
	CustomerName string    `json:"customerName"`
	Total        string    `json:"total"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewClient connects to RabbitMQ, opens a channel and declares the order status queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Printf("RabbitMQ client connected and %s declared.", OrderStatusQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

func declareQueue(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		OrderStatusQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", OrderStatusQueue, err)
	}
	return q, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// NewOrderStatusEvent builds the message body for an updated order.
func NewOrderStatusEvent(order models.OrderProjection, at time.Time) OrderStatusEvent {
	return OrderStatusEvent{
		OrderID:      order.ID,
		UserID:       order.UserID,
		OrderStatus:  order.OrderStatus,
		CustomerName: order.Customer.Name,
		Total:        order.Totals.Total.StringFixed(2),
		UpdatedAt:    at.UTC(),
	}
}

// PublishOrderStatusUpdated publishes a persistent JSON message for an order
// whose status has changed.
func (c *Client) PublishOrderStatusUpdated(order models.OrderProjection) error {
	body, err := json.Marshal(NewOrderStatusEvent(order, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to marshal order status event: %w", err)
	}
	return c.Publish("", OrderStatusQueue, body)
}

// Publish sends body to exchange with routingKey.
func (c *Client) Publish(exchange, routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.New().String(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf(" [x] Sent %s event: %s", routingKey, body)
	return nil
}

// ConsumeOrderEvents starts a goroutine that hands every order status message
// to messageHandler. Messages are acked on success and requeued on error.
func (c *Client) ConsumeOrderEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareQueue(c.channel)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for order status events")

	go func() {
		for msg := range msgs {
			settle(msg, messageHandler(msg))
		}
	}()

	return nil
}

// settle acks a handled message. Failed messages are requeued only when the
// error wraps ErrRetryable; anything else would fail again on every delivery.
func settle(msg amqp.Delivery, err error) {
	if err == nil {
		if ackErr := msg.Ack(false); ackErr != nil {
			log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
		}
		return
	}

	requeue := errors.Is(err, ErrRetryable)
	log.Printf("Error processing message %d (requeue=%t): %v", msg.DeliveryTag, requeue, err)
	if nackErr := msg.Nack(false, requeue); nackErr != nil {
		log.Printf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
	}
}

// HandleOrderStatusMessage decodes and logs an order status message. A body
// that is not an OrderStatusEvent is rejected.
func HandleOrderStatusMessage(msg amqp.Delivery) error {
	var event OrderStatusEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("failed to decode order status event: %w", err)
	}
	log.Printf("Order %s of user %s is now %s", event.OrderID, event.UserID, event.OrderStatus)
	return nil
}
