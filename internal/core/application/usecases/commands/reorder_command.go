package commands

import (
	"errors"

	"takeout/internal/core/domain/model/kernel"
)

var ErrReorderCommandIsNotConstructed = errors.New(
	"ReorderCommand must be created via NewReorderCommand constructor",
)

// ReorderCommand copies a past order's items back into the customer's cart.
type ReorderCommand struct {
	orderRef
}

func NewReorderCommand(orderID kernel.UUID, userID int64) (ReorderCommand, error) {
	ref, err := newOrderRef(orderID, userID)
	if err != nil {
		return ReorderCommand{}, err
	}
	return ReorderCommand{orderRef: ref}, nil
}

func (c ReorderCommand) Validate() error {
	return c.guard.Validate(ErrReorderCommandIsNotConstructed)
}

func (c ReorderCommand) UserID() int64 {
	return c.actor.UserID()
}
