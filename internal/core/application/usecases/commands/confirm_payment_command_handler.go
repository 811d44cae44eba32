package commands

import (
	"context"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"
)

// ConfirmPaymentCommandHandler moves a PENDING_PAYMENT order to TO_BE_CONFIRMED.
//
// Repeated notifications are harmless: an order that already moved past
// PENDING_PAYMENT is left untouched and Handle returns nil. A cancelled order
// is the exception; it yields an invalid state transition so a payment that
// arrives after the timeout cancel does not bring the order back. When that
// order was cancelled unpaid the money is handed back through a refund request.
type ConfirmPaymentCommandHandler struct {
	lifecycle *Lifecycle
}

func NewConfirmPaymentCommandHandler(lifecycle *Lifecycle) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{lifecycle: lifecycle}
}

func (h *ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var late *order.Order
	err := h.lifecycle.transition(ctx, "confirm_payment", kernel.SystemActor, byNumber(cmd.Number()),
		func(o *order.Order, now time.Time) error {
			switch o.Status() {
			case order.PendingPayment:
				return o.ConfirmPayment(now)
			case order.Cancelled:
				// A paid cancellation already carries its own refund.
				if o.PayStatus() == order.Unpaid {
					late = o
				}
				return errs.NewInvalidStateTransitionError(o.Status(), order.ToBeConfirmed)
			default:
				return errAlreadyApplied
			}
		},
	)
	if late != nil {
		h.lifecycle.refundLatePayment(context.WithoutCancel(ctx), late)
	}
	return err
}
