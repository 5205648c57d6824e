// Package events ingests balance credits from upstream services. Deposits,
// bonuses and withdrawals originate outside the wagering engine and arrive
// over AMQP; each message becomes one ledger entry.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"casino-engine-backend/internal/config"
	"casino-engine-backend/internal/models"
	"casino-engine-backend/internal/services"
)

const (
	reconnectDelay       = 5 * time.Second
	maxReconnectAttempts = 10
	processTimeout       = 30 * time.Second
)

// CreditMessage is the wire shape of an external balance adjustment.
// Withdrawals arrive with a negative amount.
type CreditMessage struct {
	UserID    int64   `json:"user_id"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"` // deposit, withdraw, bonus
	Reference string  `json:"reference"`
}

type Consumer struct {
	cfg    config.AMQPConfig
	ledger *services.Ledger
	log    *logrus.Logger

	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewConsumer(cfg config.AMQPConfig, ledger *services.Ledger, log *logrus.Logger) (*Consumer, error) {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Consumer{
		cfg:    cfg,
		ledger: ledger,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}

	if err := c.connect(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return c, nil
}

func (c *Consumer) connect() error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to dial AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		c.cfg.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = ch
	c.mu.Unlock()

	c.log.WithField("queue", c.cfg.Queue).Info("connected to AMQP broker")

	go c.monitorConnection()

	return nil
}

func (c *Consumer) monitorConnection() {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return
	}

	notifyClose := conn.NotifyClose(make(chan *amqp.Error))

	select {
	case err := <-notifyClose:
		if err != nil {
			c.log.WithError(err).Error("AMQP connection closed unexpectedly")
			c.reconnect()
		}
	case <-c.ctx.Done():
		return
	}
}

func (c *Consumer) reconnect() {
	c.mu.Lock()
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		if err := c.connect(); err == nil {
			c.log.Info("reconnected to AMQP broker")
			go func() {
				if err := c.Start(c.ctx); err != nil && c.ctx.Err() == nil {
					c.log.WithError(err).Error("failed to restart credit consumer")
				}
			}()
			return
		}

		delay := reconnectDelay * time.Duration(attempt)
		c.log.WithFields(logrus.Fields{
			"attempt": attempt,
			"delay":   delay,
		}).Warn("reconnection failed, retrying")

		select {
		case <-time.After(delay):
		case <-c.ctx.Done():
			return
		}
	}

	c.log.Error("max reconnection attempts reached, giving up")
}

// Start consumes until ctx is cancelled. Each worker applies credits
// serially; ordering across workers is irrelevant because every message is
// an independent ledger entry.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.RLock()
	channel := c.channel
	c.mu.RUnlock()

	if channel == nil {
		return fmt.Errorf("channel is not initialized")
	}

	msgs, err := channel.Consume(
		c.cfg.Queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.log.WithField("workers", c.cfg.Workers).Info("starting credit workers")

	for i := 0; i < c.cfg.Workers; i++ {
		c.wg.Add(1)
		go c.worker(ctx, msgs)
	}

	<-ctx.Done()
	c.wg.Wait()
	return nil
}

func (c *Consumer) worker(ctx context.Context, msgs <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			c.processMessage(ctx, msg)
		}
	}
}

func creditType(s string) (models.TransactionType, error) {
	switch strings.ToLower(s) {
	case "deposit":
		return models.TransactionTypeDeposit, nil
	case "withdraw":
		return models.TransactionTypeWithdraw, nil
	case "bonus":
		return models.TransactionTypeBonus, nil
	default:
		return "", fmt.Errorf("unknown credit type %q", s)
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) {
	ctx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()

	var payload CreditMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.log.WithError(err).WithField("body", string(msg.Body)).Error("malformed credit message")
		_ = msg.Nack(false, false)
		return
	}

	typ, err := creditType(payload.Type)
	if err != nil || payload.UserID == 0 || payload.Amount == 0 || payload.Reference == "" {
		c.log.WithFields(logrus.Fields{
			"user_id":   payload.UserID,
			"type":      payload.Type,
			"reference": payload.Reference,
		}).Error("invalid credit message")
		_ = msg.Nack(false, false)
		return
	}

	if _, err := c.ledger.Credit(ctx, payload.UserID, payload.Amount, typ, payload.Reference); err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"user_id":   payload.UserID,
			"reference": payload.Reference,
		}).Error("failed to apply credit")
		// Only transient failures requeue; the ledger write is transactional
		// so a retry cannot double-apply a partially committed entry.
		// Permanent rejections would otherwise loop forever.
		_ = msg.Nack(false, requeueable(err))
		return
	}

	_ = msg.Ack(false)
}

// requeueable reports whether a redelivery could ever succeed. An unknown
// user or an over-drawing withdrawal stays wrong no matter how often it is
// retried.
func requeueable(err error) bool {
	return !errors.Is(err, gorm.ErrRecordNotFound) &&
		!errors.Is(err, services.ErrInsufficientFunds)
}

func (c *Consumer) Close() {
	c.cancel()
	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	c.log.Info("credit consumer closed")
}
