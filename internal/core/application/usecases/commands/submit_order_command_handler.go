package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"

	"go.uber.org/zap"
)

// OrderSummary is what the customer gets back after submitting.
type OrderSummary struct {
	ID        kernel.UUID
	Number    order.Number
	OrderTime time.Time
	Amount    kernel.Money
}

// SubmitOrderCommandHandler snapshots the cart and the address into a new
// order in PENDING_PAYMENT. The order insert and the cart clear commit together.
type SubmitOrderCommandHandler struct {
	uowFactory UoWFactory
	logger     *zap.Logger
	now        func() time.Time
}

func NewSubmitOrderCommandHandler(uowFactory UoWFactory, logger *zap.Logger) SubmitOrderCommandHandler {
	return SubmitOrderCommandHandler{
		uowFactory: uowFactory,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock returns a copy that reads time from now.
func (h SubmitOrderCommandHandler) WithClock(now func() time.Time) SubmitOrderCommandHandler {
	h.now = now
	return h
}

// Handle returns ErrAddressMissing when the address book entry is unknown
// and ErrCartEmpty when there is nothing to order.
func (h *SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (OrderSummary, error) {
	if err := cmd.Validate(); err != nil {
		return OrderSummary{}, err
	}

	actor, err := kernel.UserActor(cmd.UserID())
	if err != nil {
		return OrderSummary{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return OrderSummary{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	address, err := uow.AddressRepository().Get(ctx, cmd.UserID(), cmd.AddressID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return OrderSummary{}, fmt.Errorf("%w: %d", ErrAddressMissing, cmd.AddressID())
		}
		return OrderSummary{}, err
	}

	items, err := uow.CartRepository().Take(ctx, cmd.UserID())
	if err != nil {
		return OrderSummary{}, err
	}
	if len(items) == 0 {
		return OrderSummary{}, ErrCartEmpty
	}

	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewNumber(),
		cmd.UserID(),
		address,
		items,
		order.Checkout{
			PayMethod:      cmd.PayMethod(),
			PackagingFee:   cmd.PackagingFee(),
			Remark:         cmd.Remark(),
			TablewareCount: cmd.TablewareCount(),
		},
		h.now(),
	)
	if err != nil {
		return OrderSummary{}, err
	}

	if err = uow.OrderRepository().Add(ctx, actor, o); err != nil {
		return OrderSummary{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderSummary{}, err
	}

	h.logger.Info("order submitted",
		zap.String("order_number", o.Number().String()),
		zap.Int64("user_id", o.UserID()),
		zap.Stringer("amount", o.Amount()),
	)

	return OrderSummary{
		ID:        o.ID(),
		Number:    o.Number(),
		OrderTime: o.OrderTime(),
		Amount:    o.Amount(),
	}, nil
}
