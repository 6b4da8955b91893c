package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/pkg/config"
)

const (
	defaultExchange   = "evstation.events"
	rabbitPublishWait = 5 * time.Second
)

var errRabbitUnavailable = errors.New("rabbitmq: channel not available")

type rabbitSubscription struct {
	subject string
	handler func(data []byte) error
}

// RabbitMQQueue publishes every subject on one durable topic exchange, using
// the subject as routing key. Subscriptions are replayed after a reconnect.
type RabbitMQQueue struct {
	url           string
	exchange      string
	reconnectWait time.Duration
	log           *zap.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	subs    []rabbitSubscription
	closed  bool
}

func NewRabbitMQQueue(cfg config.QueueConfig, log *zap.Logger) (MessageQueue, error) {
	q := &RabbitMQQueue{
		url:           cfg.RabbitMQURL,
		exchange:      cfg.Exchange,
		reconnectWait: cfg.Reconnect,
		log:           log,
	}
	if q.exchange == "" {
		q.exchange = defaultExchange
	}
	if q.reconnectWait <= 0 {
		q.reconnectWait = 5 * time.Second
	}

	conn, ch, err := q.dial()
	if err != nil {
		return nil, err
	}
	q.conn, q.channel = conn, ch

	go q.watch(conn)

	log.Info("Connected to RabbitMQ", zap.String("exchange", q.exchange))
	return q, nil
}

// dial opens a connection and a channel and declares the exchange.
func (q *RabbitMQQueue) dial() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(q.url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	if err := ch.ExchangeDeclare(q.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange %s: %w", q.exchange, err)
	}
	return conn, ch, nil
}

func (q *RabbitMQQueue) Publish(subject string, data []byte) error {
	q.mu.RLock()
	ch := q.channel
	q.mu.RUnlock()
	if ch == nil {
		return errRabbitUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), rabbitPublishWait)
	defer cancel()
	err := ch.PublishWithContext(ctx, q.exchange, subject, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         data,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", subject, err)
	}
	return nil
}

// Subscribe binds an exclusive auto-delete queue to subject. Every API instance
// gets its own copy of each event.
func (q *RabbitMQQueue) Subscribe(subject string, handler func(data []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.channel == nil {
		return errRabbitUnavailable
	}
	if err := q.consume(q.channel, subject, handler); err != nil {
		return err
	}
	q.subs = append(q.subs, rabbitSubscription{subject: subject, handler: handler})
	return nil
}

func (q *RabbitMQQueue) consume(ch *amqp.Channel, subject string, handler func([]byte) error) error {
	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue: %w", err)
	}
	if err := ch.QueueBind(queue.Name, subject, q.exchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind %s: %w", subject, err)
	}
	deliveries, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume %s: %w", subject, err)
	}

	go func() {
		for d := range deliveries {
			if err := handler(d.Body); err != nil {
				q.log.Error("Failed to handle RabbitMQ delivery",
					zap.String("routing_key", d.RoutingKey),
					zap.Error(err),
				)
			}
		}
	}()
	q.log.Info("Subscribed to RabbitMQ", zap.String("routing_key", subject))
	return nil
}

func (q *RabbitMQQueue) Ping() error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.conn == nil || q.conn.IsClosed() {
		return errors.New("rabbitmq: connection closed")
	}
	return nil
}

func (q *RabbitMQQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

// watch redials after the broker drops the connection, then replays the subscriptions.
func (q *RabbitMQQueue) watch(conn *amqp.Connection) {
	for {
		reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		if !ok || reason == nil {
			return
		}
		q.log.Warn("RabbitMQ connection lost", zap.String("reason", reason.Reason))

		q.mu.Lock()
		q.channel = nil
		q.mu.Unlock()

		for {
			time.Sleep(q.reconnectWait)

			q.mu.RLock()
			closed := q.closed
			q.mu.RUnlock()
			if closed {
				return
			}

			next, ch, err := q.dial()
			if err != nil {
				q.log.Error("Failed to reconnect to RabbitMQ", zap.Error(err))
				continue
			}

			q.mu.Lock()
			q.conn, q.channel = next, ch
			for _, s := range q.subs {
				if err := q.consume(ch, s.subject, s.handler); err != nil {
					q.log.Error("Failed to restore RabbitMQ subscription", zap.String("routing_key", s.subject), zap.Error(err))
				}
			}
			q.mu.Unlock()

			q.log.Info("Reconnected to RabbitMQ", zap.Int("subscriptions", len(q.subs)))
			conn = next
			break
		}
	}
}
