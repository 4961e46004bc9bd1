// Package rabbitmq publishes ledger events to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RoutingKeyPrefix is prepended to the operation name, e.g. "ledger.deposit".
const RoutingKeyPrefix = "ledger."

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// EventPublisher publishes LedgerEvents as persistent JSON messages.
type EventPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  channel
	reopen   func() (channel, error)
	exchange string
	logger   *slog.Logger
}

var _ portssvc.EventPublisher = (*EventPublisher)(nil)

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewEventPublisher dials RabbitMQ and declares the durable topic exchange.
func NewEventPublisher(amqpURL, exchange string, logger *slog.Logger) (*EventPublisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	open := func() (channel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	}

	p, err := newEventPublisher(open, exchange, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newEventPublisher(open func() (channel, error), exchange string, logger *slog.Logger) (*EventPublisher, error) {
	ch, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := declare(ch, exchange); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &EventPublisher{channel: ch, reopen: open, exchange: exchange, logger: logger}, nil
}

func declare(ch channel, exchange string) error {
	return ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
}

// PublishLedgerEvent sends one event. A failed publish reopens the channel and retries once.
func (p *EventPublisher) PublishLedgerEvent(ctx context.Context, event domain.LedgerEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.Reference + ":" + event.AccountID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}
	key := RoutingKeyPrefix + string(event.Operation)

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	if err == nil {
		return nil
	}

	p.logger.Warn("Publish failed; reopening channel",
		slog.String("routing_key", key),
		slog.String("error", err.Error()))

	ch, chErr := p.reopen()
	if chErr != nil {
		return errors.Join(err, chErr)
	}
	if decErr := declare(ch, p.exchange); decErr != nil {
		ch.Close()
		return errors.Join(err, decErr)
	}
	p.channel.Close()
	p.channel = ch

	return p.channel.PublishWithContext(ctx, p.exchange, key, false, false, msg)
}

// Close closes the channel and the connection.
func (p *EventPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// LogPublisher is used when no broker is configured. Events are only logged.
type LogPublisher struct {
	Logger *slog.Logger
}

var _ portssvc.EventPublisher = LogPublisher{}

func (p LogPublisher) PublishLedgerEvent(ctx context.Context, event domain.LedgerEvent) error {
	p.Logger.DebugContext(ctx, "Ledger event",
		slog.String("operation", string(event.Operation)),
		slog.String("reference", event.Reference),
		slog.String("account_id", event.AccountID),
		slog.String("amount", event.Amount.String()),
		slog.String("balance_after", event.BalanceAfter.String()))
	return nil
}
