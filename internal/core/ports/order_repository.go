// Package ports defines the contracts between the order lifecycle core and
// its infrastructure: persistence, the payment gateway and event publishing.
package ports

import (
	"context"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are never deleted; the only write after Add is Transition.
type OrderRepository interface {
	// Add persists a new order together with its line items.
	Add(ctx context.Context, actor kernel.Actor, aggregate *order.Order) error

	// Get retrieves an order with its line items by id.
	// Returns *errs.ObjectNotFoundError when nothing matches.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its external number.
	GetByNumber(ctx context.Context, number order.Number) (*order.Order, error)

	// Transition writes the aggregate's lifecycle fields with a conditional update:
	//
	//	UPDATE orders SET ... WHERE id = ? AND status = expected
	//
	// When no row matches it returns *errs.ConcurrentStateChangeError and
	// nothing is written. status and pay_status always change together.
	Transition(ctx context.Context, actor kernel.Actor, aggregate *order.Order, expected order.Status) error

	// FindIDsByStatusBefore lists orders in status placed strictly before the
	// given time, oldest first.
	FindIDsByStatusBefore(ctx context.Context, status order.Status, before time.Time) ([]kernel.UUID, error)
}
