// Package commands contains the operations that change order state.
// Every handler validates its command, runs inside one unit of work and
// reports what it committed.
package commands

import (
	"context"

	"takeout/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CartRepoFactory provides access to the cart within a transaction.
	CartRepoFactory interface {
		CartRepository() ports.CartRepository
	}

	// AddressRepoFactory provides access to the address book within a transaction.
	AddressRepoFactory interface {
		AddressRepository() ports.AddressRepository
	}

	// ChangeLog reports the transitions written by the last commit.
	ChangeLog interface {
		Changes() []ports.OrderChanged
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		ChangeLog
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW spans the order, the cart and the address book, for order
	// submission and re-ordering.
	UoW interface {
		TxManager
		OrderRepoFactory
		CartRepoFactory
		AddressRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
