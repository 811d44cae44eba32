package commands

import (
	"errors"

	"takeout/internal/core/domain/model/kernel"
)

var ErrUserCancelOrderCommandIsNotConstructed = errors.New(
	"UserCancelOrderCommand must be created via NewUserCancelOrderCommand constructor",
)

// UserCancelOrderCommand is a customer cancelling their own order.
type UserCancelOrderCommand struct {
	orderRef
}

func NewUserCancelOrderCommand(orderID kernel.UUID, userID int64) (UserCancelOrderCommand, error) {
	ref, err := newOrderRef(orderID, userID)
	if err != nil {
		return UserCancelOrderCommand{}, err
	}
	return UserCancelOrderCommand{orderRef: ref}, nil
}

func (c UserCancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrUserCancelOrderCommandIsNotConstructed)
}

// UserID is the customer who must own the order.
func (c UserCancelOrderCommand) UserID() int64 {
	return c.actor.UserID()
}
