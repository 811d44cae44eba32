package commands

import (
	"errors"
	"fmt"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"
	"takeout/internal/pkg/guard"
)

var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderCommand turns the user's shopping cart into a new order.
//
// Example:
//
//	cmd, err := NewSubmitOrderCommand(userID, addressID, order.WeChatPay, kernel.MustParseMoney("2"), "no chili", 1)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	summary, err := handler.Handle(ctx, cmd)
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	userID         int64
	addressID      int64
	payMethod      order.PayMethod
	packagingFee   kernel.Money
	remark         string
	tablewareCount int

	guard guard.ConstructorGuard
}

// NewSubmitOrderCommand validates the request fields. The cart and the
// address are read by the handler.
func NewSubmitOrderCommand(
	userID, addressID int64,
	payMethod order.PayMethod,
	packagingFee kernel.Money,
	remark string,
	tablewareCount int,
) (SubmitOrderCommand, error) {
	cmd := SubmitOrderCommand{
		packagingFee: packagingFee,
		remark:       remark,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setAddressID(addressID),
		cmd.setPayMethod(payMethod),
		cmd.setTablewareCount(tablewareCount),
	); err != nil {
		return SubmitOrderCommand{}, err
	}

	return cmd, nil
}

func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

func (c SubmitOrderCommand) UserID() int64 {
	return c.userID
}

func (c SubmitOrderCommand) AddressID() int64 {
	return c.addressID
}

func (c SubmitOrderCommand) PayMethod() order.PayMethod {
	return c.payMethod
}

func (c SubmitOrderCommand) PackagingFee() kernel.Money {
	return c.packagingFee
}

func (c SubmitOrderCommand) Remark() string {
	return c.remark
}

func (c SubmitOrderCommand) TablewareCount() int {
	return c.tablewareCount
}

func (c *SubmitOrderCommand) setUserID(userID int64) error {
	if userID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("user id", fmt.Errorf("%d is not greater than 0", userID))
	}

	c.userID = userID
	return nil
}

func (c *SubmitOrderCommand) setAddressID(addressID int64) error {
	if addressID <= 0 {
		return errs.NewValueIsRequiredError("address id")
	}

	c.addressID = addressID
	return nil
}

func (c *SubmitOrderCommand) setPayMethod(payMethod order.PayMethod) error {
	if err := payMethod.Validate(); err != nil {
		return err
	}

	c.payMethod = payMethod
	return nil
}

func (c *SubmitOrderCommand) setTablewareCount(count int) error {
	if count < 0 {
		return errs.NewValueIsInvalidErrorWithCause("tableware count", fmt.Errorf("%d is negative", count))
	}

	c.tablewareCount = count
	return nil
}
