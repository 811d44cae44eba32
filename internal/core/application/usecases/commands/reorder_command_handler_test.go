package commands_test

import (
	"testing"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReorderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, order.Completed)
	actor, _ := kernel.UserActor(7)
	cmd, err := commands.NewReorderCommand(o.ID(), 7)
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	cart := new(MockCartRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("CartRepository").Return(cart).Once(),
		cart.On("Put", ctx, actor, int64(7), o.LineItems()).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewReorderCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Completed, o.Status())
	orders.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	orders.AssertExpectations(t)
	cart.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestReorderCommandHandler_Handle_OtherUsersOrder(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, order.Completed)
	cmd, _ := commands.NewReorderCommand(o.ID(), 8)

	orders := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewReorderCommandHandler(factory)
	err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "CartRepository")
	uow.AssertExpectations(t)
}

func TestReorderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockUoWFactory)
	h := commands.NewReorderCommandHandler(factory)

	err := h.Handle(t.Context(), commands.ReorderCommand{})

	require.ErrorIs(t, err, commands.ErrReorderCommandIsNotConstructed)
}
