package commands

import (
	"context"
	"time"

	"takeout/internal/core/domain/model/order"
)

// MerchantCommandHandler runs the merchant side of the lifecycle:
// confirm, reject, cancel, start and complete delivery. Reject and cancel
// request a refund after they commit.
type MerchantCommandHandler struct {
	lifecycle *Lifecycle
}

func NewMerchantCommandHandler(lifecycle *Lifecycle) MerchantCommandHandler {
	return MerchantCommandHandler{lifecycle: lifecycle}
}

// Confirm moves TO_BE_CONFIRMED -> CONFIRMED.
func (h *MerchantCommandHandler) Confirm(ctx context.Context, cmd MerchantConfirmCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.lifecycle.transition(ctx, "merchant_confirm", cmd.Actor(), byID(cmd.OrderID()),
		func(o *order.Order, _ time.Time) error {
			return o.Confirm()
		},
	)
}

// Reject moves TO_BE_CONFIRMED -> CANCELLED with the rejection reason.
func (h *MerchantCommandHandler) Reject(ctx context.Context, cmd MerchantRejectCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.lifecycle.transition(ctx, "merchant_reject", cmd.Actor(), byID(cmd.OrderID()),
		func(o *order.Order, now time.Time) error {
			return o.Reject(cmd.Reason(), now)
		},
	)
}

// Cancel moves CONFIRMED -> CANCELLED with the merchant's reason.
func (h *MerchantCommandHandler) Cancel(ctx context.Context, cmd MerchantCancelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.lifecycle.transition(ctx, "merchant_cancel", cmd.Actor(), byID(cmd.OrderID()),
		func(o *order.Order, now time.Time) error {
			return o.CancelByMerchant(cmd.Reason(), now)
		},
	)
}

// StartDelivery moves CONFIRMED -> DELIVERY_IN_PROGRESS.
func (h *MerchantCommandHandler) StartDelivery(ctx context.Context, cmd StartDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.lifecycle.transition(ctx, "start_delivery", cmd.Actor(), byID(cmd.OrderID()),
		func(o *order.Order, _ time.Time) error {
			return o.StartDelivery()
		},
	)
}

// CompleteDelivery moves DELIVERY_IN_PROGRESS -> COMPLETED.
func (h *MerchantCommandHandler) CompleteDelivery(ctx context.Context, cmd CompleteDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.lifecycle.transition(ctx, "complete_delivery", cmd.Actor(), byID(cmd.OrderID()),
		func(o *order.Order, now time.Time) error {
			return o.CompleteDelivery(now)
		},
	)
}
