package commands

import (
	"errors"

	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand records the payment provider's success notification
// for an order number.
type ConfirmPaymentCommand struct { //nolint:recvcheck //using for validation
	number order.Number

	guard guard.ConstructorGuard
}

// NewConfirmPaymentCommand parses the order number sent by the provider.
func NewConfirmPaymentCommand(number string) (ConfirmPaymentCommand, error) {
	n, err := order.NumberFromString(number)
	if err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return ConfirmPaymentCommand{
		number: n,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

func (c ConfirmPaymentCommand) Number() order.Number {
	return c.number
}
