package commands

import (
	"context"
	"time"

	"takeout/internal/core/domain/model/order"
)

// UserCancelOrderCommandHandler cancels an order before the merchant accepts
// it. A paid order is refunded after the cancellation commits. Orders that
// belong to someone else are reported as not found.
type UserCancelOrderCommandHandler struct {
	lifecycle *Lifecycle
}

func NewUserCancelOrderCommandHandler(lifecycle *Lifecycle) UserCancelOrderCommandHandler {
	return UserCancelOrderCommandHandler{lifecycle: lifecycle}
}

func (h *UserCancelOrderCommandHandler) Handle(ctx context.Context, cmd UserCancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.lifecycle.transition(ctx, "user_cancel", cmd.Actor(), ownedBy(cmd.OrderID(), cmd.UserID()),
		func(o *order.Order, now time.Time) error {
			return o.CancelByUser(now)
		},
	)
}
