package kafka

import (
	"context"

	"takeout/internal/core/ports"

	"go.uber.org/zap"
)

// RefundRequestedMessage is the payload on the refund-requested topic.
type RefundRequestedMessage struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Amount      string `json:"amount"`
	Reason      string `json:"reason"`
}

// RefundGateway asks the payment service for refunds over Kafka.
type RefundGateway struct {
	writer messageWriter
}

func NewRefundGateway(writer messageWriter) *RefundGateway {
	return &RefundGateway{writer: writer}
}

func (g *RefundGateway) RequestRefund(ctx context.Context, req ports.RefundRequest) error {
	return publishJSON(ctx, g.writer, req.Number.String(), RefundRequestedMessage{
		OrderID:     req.OrderID.String(),
		OrderNumber: req.Number.String(),
		Amount:      req.Amount.String(),
		Reason:      req.Reason,
	})
}

func (g *RefundGateway) Close() error {
	return g.writer.Close()
}

// NoopRefundGateway only logs; used when Kafka is disabled.
type NoopRefundGateway struct {
	logger *zap.Logger
}

func NewNoopRefundGateway(logger *zap.Logger) NoopRefundGateway {
	return NoopRefundGateway{logger: logger}
}

func (g NoopRefundGateway) RequestRefund(_ context.Context, req ports.RefundRequest) error {
	g.logger.Info("refund requested (messaging disabled)",
		zap.String("order_number", req.Number.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("reason", req.Reason),
	)
	return nil
}
