package ports

import (
	"context"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
)

// CartRepository is the user's shopping cart as seen by the order core.
// Cart rows carry the same data as line items, so they are exchanged as such.
type CartRepository interface {
	// Items returns the cart contents in insertion order. An empty cart is
	// not an error.
	Items(ctx context.Context, userID int64) ([]order.LineItem, error)

	// Put appends items to the cart.
	Put(ctx context.Context, actor kernel.Actor, userID int64, items []order.LineItem) error

	// Take locks the user's cart rows, removes them and returns them in
	// insertion order. Concurrent callers wait for the lock holder; once it
	// commits they see only rows added since. An empty cart is not an error.
	Take(ctx context.Context, userID int64) ([]order.LineItem, error)
}

// AddressRepository is the read side of the user's address book.
type AddressRepository interface {
	// Get returns the address snapshot for one of the user's address book entries.
	// Returns *errs.ObjectNotFoundError when the entry does not exist or
	// belongs to someone else.
	Get(ctx context.Context, userID, addressID int64) (order.Address, error)
}
