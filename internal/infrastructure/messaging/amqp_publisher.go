// Package messaging publishes warranty and password reset notifications to
// the mail relay over AMQP.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	appasset "github.com/assetreg/backend/internal/application/asset"
	appidentity "github.com/assetreg/backend/internal/application/identity"
	"github.com/assetreg/backend/internal/infrastructure/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// MessageTypeWarrantyExpiry tags warranty expiry notifications
	MessageTypeWarrantyExpiry = "warranty.expiry"
	// MessageTypePasswordReset tags one-time password reset codes
	MessageTypePasswordReset = "password.reset"

	defaultPublishTimeout = 5 * time.Second
)

// ErrPublisherClosed is returned when publishing on a closed publisher
var ErrPublisherClosed = errors.New("amqp publisher is closed")

// channel is the part of an AMQP channel the publisher uses
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes notifications on a durable direct exchange.
// The routing key is the queue name.
type AMQPPublisher struct {
	mu             sync.Mutex
	conn           *amqp.Connection
	ch             channel
	exchangeName   string
	queueName      string
	publishTimeout time.Duration
	logger         *zap.Logger
	closed         bool
}

// NewAMQPPublisher dials the broker and declares the exchange, the queue and
// their binding
func NewAMQPPublisher(cfg config.AMQPConfig, logger *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(ch, cfg.ExchangeName, cfg.QueueName); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	p := newPublisher(ch, cfg, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, cfg config.AMQPConfig, logger *zap.Logger) *AMQPPublisher {
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &AMQPPublisher{
		ch:             ch,
		exchangeName:   cfg.ExchangeName,
		queueName:      cfg.QueueName,
		publishTimeout: timeout,
		logger:         logger.Named("amqp"),
	}
}

func declareTopology(ch *amqp.Channel, exchangeName, queueName string) error {
	if err := ch.ExchangeDeclare(
		exchangeName, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(queueName, queueName, exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// PublishWarrantyNotification publishes one persistent JSON message
func (p *AMQPPublisher) PublishWarrantyNotification(ctx context.Context, n appasset.WarrantyNotification) error {
	if err := p.publish(ctx, MessageTypeWarrantyExpiry, n.PurchaseID.String(), n); err != nil {
		return err
	}
	p.logger.Info("Published warranty notification",
		zap.String("purchase_id", n.PurchaseID.String()),
		zap.String("exchange", p.exchangeName),
		zap.String("queue", p.queueName),
	)
	return nil
}

// PublishPasswordReset publishes a reset code for the mail relay. The message
// expires with the code.
func (p *AMQPPublisher) PublishPasswordReset(ctx context.Context, n appidentity.PasswordResetNotification) error {
	ttl := time.Until(n.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("password reset code %s already expired", n.CodeID)
	}
	if err := p.publish(ctx, MessageTypePasswordReset, n.CodeID.String(), n, withExpiration(ttl)); err != nil {
		return err
	}
	p.logger.Info("Published password reset code",
		zap.String("code_id", n.CodeID.String()),
		zap.String("user_id", n.UserID.String()),
	)
	return nil
}

type publishOption func(*amqp.Publishing)

func withExpiration(ttl time.Duration) publishOption {
	return func(msg *amqp.Publishing) {
		msg.Expiration = strconv.FormatInt(ttl.Milliseconds(), 10)
	}
}

func (p *AMQPPublisher) publish(ctx context.Context, messageType, messageID string, payload any, opts ...publishOption) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", messageType, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}

	ctx, cancel := context.WithTimeout(ctx, p.publishTimeout)
	defer cancel()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         messageType,
		MessageId:    messageID,
		Body:         body,
	}
	for _, opt := range opts {
		opt(&msg)
	}

	err = p.ch.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		p.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Close closes the channel and the connection. Safe to call multiple times.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

var (
	_ appasset.NotificationPublisher    = (*AMQPPublisher)(nil)
	_ appidentity.PasswordResetNotifier = (*AMQPPublisher)(nil)
)
