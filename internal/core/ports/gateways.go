package ports

import (
	"context"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
)

// RefundRequest asks the payment gateway to return the money paid for an order.
type RefundRequest struct {
	OrderID kernel.UUID
	Number  order.Number
	Amount  kernel.Money
	Reason  string
}

// PaymentGateway is the outbound side of the external payment provider.
type PaymentGateway interface {
	RequestRefund(ctx context.Context, req RefundRequest) error
}

// OrderChanged describes one committed lifecycle transition.
type OrderChanged struct {
	OrderID kernel.UUID
	Number  order.Number
	From    order.Status
	To      order.Status
	At      time.Time
}

// EventPublisher announces committed transitions to other services.
type EventPublisher interface {
	PublishOrderChanged(ctx context.Context, event OrderChanged) error
}

// SweepLock is a best-effort lease that keeps replicas from sweeping the same
// bucket at the same time.
type SweepLock interface {
	// TryLock takes the lease for key. It returns false when someone else holds it.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Unlock releases a lease taken by this process. Leases held elsewhere are left alone.
	Unlock(ctx context.Context, key string) error
}
