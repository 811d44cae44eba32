// Package kafka consumes payment provider notifications from Kafka and feeds
// them to the order lifecycle.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	outkafka "takeout/internal/adapters/out/kafka"
	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PaymentConfirmedMessage is the provider's success notification.
type PaymentConfirmedMessage struct {
	OrderNumber string `json:"orderNumber"`
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type paymentConfirmer interface {
	Handle(ctx context.Context, cmd commands.ConfirmPaymentCommand) error
}

// PaymentConfirmedConsumer reads payment notifications and confirms the orders.
//
// Offsets are committed once a message is handled or known to be unprocessable
// (bad payload, unknown order, cancelled order). Any other failure is retried
// on the same message with exponential backoff; nothing behind it is fetched
// or committed until it goes through or the consumer stops.
type PaymentConfirmedConsumer struct {
	reader  messageReader
	handler paymentConfirmer
	logger  *zap.Logger

	retryInitial time.Duration
	retryMax     time.Duration
}

const (
	defaultRetryInitial = 200 * time.Millisecond
	defaultRetryMax     = 30 * time.Second
)

// NewReader builds a consumer-group reader for topic.
func NewReader(brokers []string, groupID, topic string, logger *zap.Logger) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MaxBytes:    10e6,
		Logger:      outkafka.NewLogger(logger),
		ErrorLogger: outkafka.NewLogger(logger),
	})
}

func NewPaymentConfirmedConsumer(reader messageReader, handler paymentConfirmer, logger *zap.Logger) *PaymentConfirmedConsumer {
	return &PaymentConfirmedConsumer{
		reader:       reader,
		handler:      handler,
		logger:       logger.With(zap.String("component", "payment_confirmed_consumer")),
		retryInitial: defaultRetryInitial,
		retryMax:     defaultRetryMax,
	}
}

// WithRetryBackOff sets the first and the largest delay between attempts on a
// failing message.
func (c *PaymentConfirmedConsumer) WithRetryBackOff(initial, maxDelay time.Duration) *PaymentConfirmedConsumer {
	c.retryInitial = initial
	c.retryMax = maxDelay
	return c
}

// Run consumes until ctx is cancelled.
func (c *PaymentConfirmedConsumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopped")
				return nil
			}
			return fmt.Errorf("fetch payment notification: %w", err)
		}

		if err = c.processWithRetry(ctx, msg); err != nil {
			c.logger.Info("consumer stopped",
				zap.Int64("uncommitted_offset", msg.Offset), zap.Error(err))
			return nil
		}

		if err = c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Warn("commit offset failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func (c *PaymentConfirmedConsumer) Close() error {
	return c.reader.Close()
}

// processWithRetry keeps processing msg until it succeeds. It only fails when
// ctx is done, leaving the offset uncommitted.
func (c *PaymentConfirmedConsumer) processWithRetry(ctx context.Context, msg kafka.Message) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInitial
	b.MaxInterval = c.retryMax
	b.MaxElapsedTime = 0

	attempt := 0
	return backoff.RetryNotify(
		func() error {
			attempt++
			return c.process(ctx, msg)
		},
		backoff.WithContext(b, ctx),
		func(err error, next time.Duration) {
			c.logger.Error("payment notification not processed, retrying",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Int("attempt", attempt),
				zap.Duration("next_attempt_in", next),
				zap.Error(err),
			)
		},
	)
}

// process returns an error only for failures worth a retry.
func (c *PaymentConfirmedConsumer) process(ctx context.Context, msg kafka.Message) error {
	var payload PaymentConfirmedMessage
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		c.logger.Warn("dropping malformed payment notification", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}

	number := strings.TrimSpace(payload.OrderNumber)
	if number == "" {
		number = strings.TrimSpace(string(msg.Key))
	}

	cmd, err := commands.NewConfirmPaymentCommand(number)
	if err != nil {
		c.logger.Warn("dropping payment notification with bad order number",
			zap.String("order_number", number), zap.Error(err))
		return nil
	}

	err = c.handler.Handle(ctx, cmd)
	switch {
	case err == nil:
		c.logger.Debug("payment confirmed", zap.String("order_number", number))
		return nil
	case errors.Is(err, errs.ErrObjectNotFound), errors.Is(err, errs.ErrInvalidStateTransition):
		c.logger.Warn("payment notification rejected", zap.String("order_number", number), zap.Error(err))
		return nil
	default:
		return err
	}
}
