package commands

import (
	"context"
)

// ReorderCommandHandler appends the line items of one of the user's orders
// to their cart. The order itself is not touched.
type ReorderCommandHandler struct {
	uowFactory UoWFactory
}

func NewReorderCommandHandler(uowFactory UoWFactory) ReorderCommandHandler {
	return ReorderCommandHandler{uowFactory: uowFactory}
}

func (h *ReorderCommandHandler) Handle(ctx context.Context, cmd ReorderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := ownedBy(cmd.OrderID(), cmd.UserID())(ctx, uow.OrderRepository())
	if err != nil {
		return err
	}

	if err = uow.CartRepository().Put(ctx, cmd.Actor(), cmd.UserID(), o.LineItems()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
