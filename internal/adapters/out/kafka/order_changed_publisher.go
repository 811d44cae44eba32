package kafka

import (
	"context"
	"time"

	"takeout/internal/core/ports"

	"go.uber.org/zap"
)

// OrderChangedMessage is the payload on the order-changed topic.
type OrderChangedMessage struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	At          time.Time `json:"at"`
}

// OrderChangedPublisher implements ports.EventPublisher.
type OrderChangedPublisher struct {
	writer messageWriter
}

func NewOrderChangedPublisher(writer messageWriter) *OrderChangedPublisher {
	return &OrderChangedPublisher{writer: writer}
}

func (p *OrderChangedPublisher) PublishOrderChanged(ctx context.Context, event ports.OrderChanged) error {
	return publishJSON(ctx, p.writer, event.Number.String(), OrderChangedMessage{
		OrderID:     event.OrderID.String(),
		OrderNumber: event.Number.String(),
		From:        event.From.String(),
		To:          event.To.String(),
		At:          event.At.UTC(),
	})
}

func (p *OrderChangedPublisher) Close() error {
	return p.writer.Close()
}

// NoopEventPublisher drops events; used when Kafka is disabled.
type NoopEventPublisher struct {
	logger *zap.Logger
}

func NewNoopEventPublisher(logger *zap.Logger) NoopEventPublisher {
	return NoopEventPublisher{logger: logger}
}

func (p NoopEventPublisher) PublishOrderChanged(_ context.Context, event ports.OrderChanged) error {
	p.logger.Debug("order changed (messaging disabled)",
		zap.String("order_number", event.Number.String()),
		zap.Stringer("from", event.From),
		zap.Stringer("to", event.To),
	)
	return nil
}
