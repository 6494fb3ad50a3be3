package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/vendororders/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/order"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var validate = validator.New()

// service represents the service layer interface.
type service interface {
	Ingest(ctx context.Context, orders []order.Order) ([]order.Order, error)
}

// Consumer receives newly placed vendor orders from RabbitMQ.
type Consumer struct {
	client      *rabbitmq.Client
	service     service
	queue       amqp.Queue
	concurrency int
	stop        chan struct{}
	done        chan struct{}
}

// NewConsumer creates a new Consumer and declares its queue.
func NewConsumer(client *rabbitmq.Client, service service) *Consumer {
	queueName := viper.GetString("rabbitmq.queue")
	if queueName == "" {
		panic("rabbitmq.queue is not set in config")
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueName,
		Durable: viper.GetBool("rabbitmq.durable"),
	})
	if err != nil {
		panic(err)
	}

	concurrency := viper.GetInt("rabbitmq.concurrency")
	if concurrency <= 0 {
		concurrency = 10
	}

	return &Consumer{
		client:      client,
		service:     service,
		queue:       queue,
		concurrency: concurrency,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Run consumes messages until Shutdown is called or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	consumerTag := viper.GetString("rabbitmq.consumer_tag")
	if consumerTag == "" {
		consumerTag = "vendor-orders"
	}

	msgs, err := c.client.Consume(rabbitmq.ConsumeConfig{
		Queue:    c.queue.Name,
		Consumer: consumerTag,
	})
	if err != nil {
		return err
	}

	slog.Info("Consumer started", "queue", c.queue.Name, "consumer_tag", consumerTag)

	return c.serve(ctx, msgs)
}

func (c *Consumer) serve(ctx context.Context, msgs <-chan amqp.Delivery) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

loop:
	for {
		select {
		case <-c.stop:
			slog.Info("Stopping consumer")

			break loop
		case <-gctx.Done():
			break loop
		case msg, ok := <-msgs:
			if !ok {
				slog.Info("Message channel closed")

				break loop
			}

			g.Go(func() error {
				return c.processMessage(gctx, msg)
			})
		}
	}

	err := g.Wait()
	close(c.done)
	if err != nil {
		slog.Error("Error processing messages", "error", err)
	}

	return err
}

// processMessage stores a single order-created event.
// Malformed events are dropped, storage failures are requeued.
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx, span := otel.Tracer("consumer").Start(ctx, "Consumer.processMessage")
	defer span.End()

	event, err := decodeEvent(msg.Body)
	if err != nil {
		slog.Error("Failed to decode order event", "delivery_tag", msg.DeliveryTag, "error", err)
		span.RecordError(err)

		return nack(msg, false)
	}
	span.SetAttributes(
		attribute.String("message.id", event.MessageID),
		attribute.String("order.id", event.Order.ID),
	)

	if _, err := c.service.Ingest(ctx, []order.Order{event.Order}); err != nil {
		slog.Error("Failed to ingest order", "order_id", event.Order.ID, "message_id", event.MessageID, "error", err)
		span.RecordError(err)

		return nack(msg, true)
	}

	if err := msg.Ack(false); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", event.MessageID, err)
	}

	slog.Info("Order event processed", "order_id", event.Order.ID, "message_id", event.MessageID)

	return nil
}

func nack(msg amqp.Delivery, requeue bool) error {
	if err := msg.Nack(false, requeue); err != nil {
		return fmt.Errorf("failed to nack message: %w", err)
	}

	return nil
}

// decodeEvent parses and validates an order-created message body.
func decodeEvent(body []byte) (order.CreatedEvent, error) {
	var event order.CreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return order.CreatedEvent{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if err := validate.Struct(event); err != nil {
		return order.CreatedEvent{}, fmt.Errorf("invalid event: %w", err)
	}

	if event.MessageID == "" {
		event.MessageID = uuid.NewString()
	}

	return event, nil
}

// Shutdown gracefully shuts down the consumer.
func (c *Consumer) Shutdown() error {
	slog.Info("Shutting down consumer")
	close(c.stop)

	select {
	case <-c.done:
		slog.Info("Consumer stopped successfully")
	case <-time.After(10 * time.Second):
		slog.Warn("Consumer shutdown timeout")
	}

	return nil
}
