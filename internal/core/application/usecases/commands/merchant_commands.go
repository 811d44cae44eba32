package commands

import (
	"errors"
	"strings"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/errs"
)

var (
	ErrMerchantConfirmCommandIsNotConstructed = errors.New(
		"MerchantConfirmCommand must be created via NewMerchantConfirmCommand constructor",
	)
	ErrMerchantRejectCommandIsNotConstructed = errors.New(
		"MerchantRejectCommand must be created via NewMerchantRejectCommand constructor",
	)
	ErrMerchantCancelCommandIsNotConstructed = errors.New(
		"MerchantCancelCommand must be created via NewMerchantCancelCommand constructor",
	)
	ErrStartDeliveryCommandIsNotConstructed = errors.New(
		"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
	)
	ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
		"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
	)
)

// MerchantConfirmCommand accepts a paid order.
type MerchantConfirmCommand struct {
	orderRef
}

// NewMerchantConfirmCommand takes the order and the employee confirming it.
func NewMerchantConfirmCommand(orderID kernel.UUID, employeeID int64) (MerchantConfirmCommand, error) {
	ref, err := newOrderRef(orderID, employeeID)
	if err != nil {
		return MerchantConfirmCommand{}, err
	}
	return MerchantConfirmCommand{orderRef: ref}, nil
}

func (c MerchantConfirmCommand) Validate() error {
	return c.guard.Validate(ErrMerchantConfirmCommandIsNotConstructed)
}

// MerchantRejectCommand declines a paid order that has not been accepted yet.
type MerchantRejectCommand struct {
	orderRef
	reason string
}

func NewMerchantRejectCommand(orderID kernel.UUID, employeeID int64, reason string) (MerchantRejectCommand, error) {
	ref, refErr := newOrderRef(orderID, employeeID)
	reason, reasonErr := requireReason("rejection reason", reason)
	if err := errors.Join(refErr, reasonErr); err != nil {
		return MerchantRejectCommand{}, err
	}
	return MerchantRejectCommand{orderRef: ref, reason: reason}, nil
}

func (c MerchantRejectCommand) Validate() error {
	return c.guard.Validate(ErrMerchantRejectCommandIsNotConstructed)
}

func (c MerchantRejectCommand) Reason() string {
	return c.reason
}

// MerchantCancelCommand cancels an accepted order before it leaves the shop.
type MerchantCancelCommand struct {
	orderRef
	reason string
}

func NewMerchantCancelCommand(orderID kernel.UUID, employeeID int64, reason string) (MerchantCancelCommand, error) {
	ref, refErr := newOrderRef(orderID, employeeID)
	reason, reasonErr := requireReason("cancel reason", reason)
	if err := errors.Join(refErr, reasonErr); err != nil {
		return MerchantCancelCommand{}, err
	}
	return MerchantCancelCommand{orderRef: ref, reason: reason}, nil
}

func (c MerchantCancelCommand) Validate() error {
	return c.guard.Validate(ErrMerchantCancelCommandIsNotConstructed)
}

func (c MerchantCancelCommand) Reason() string {
	return c.reason
}

// StartDeliveryCommand hands an accepted order to the rider.
type StartDeliveryCommand struct {
	orderRef
}

func NewStartDeliveryCommand(orderID kernel.UUID, employeeID int64) (StartDeliveryCommand, error) {
	ref, err := newOrderRef(orderID, employeeID)
	if err != nil {
		return StartDeliveryCommand{}, err
	}
	return StartDeliveryCommand{orderRef: ref}, nil
}

func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}

// CompleteDeliveryCommand marks an order as delivered.
type CompleteDeliveryCommand struct {
	orderRef
}

func NewCompleteDeliveryCommand(orderID kernel.UUID, employeeID int64) (CompleteDeliveryCommand, error) {
	ref, err := newOrderRef(orderID, employeeID)
	if err != nil {
		return CompleteDeliveryCommand{}, err
	}
	return CompleteDeliveryCommand{orderRef: ref}, nil
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

func requireReason(param, reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", errs.NewValueIsRequiredError(param)
	}
	return reason, nil
}
