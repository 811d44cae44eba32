package commands_test

import (
	"context"
	"testing"
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"
	"takeout/internal/pkg/metrics"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, actor kernel.Actor, o *order.Order) error {
	args := m.Called(ctx, actor, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, number order.Number) (*order.Order, error) {
	args := m.Called(ctx, number)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Transition(
	ctx context.Context,
	actor kernel.Actor,
	o *order.Order,
	expected order.Status,
) error {
	args := m.Called(ctx, actor, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) FindIDsByStatusBefore(
	ctx context.Context,
	status order.Status,
	before time.Time,
) ([]kernel.UUID, error) {
	args := m.Called(ctx, status, before)
	if ids, ok := args.Get(0).([]kernel.UUID); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCartRepository struct{ mock.Mock }

func (m *MockCartRepository) Items(ctx context.Context, userID int64) ([]order.LineItem, error) {
	args := m.Called(ctx, userID)
	if items, ok := args.Get(0).([]order.LineItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepository) Put(ctx context.Context, actor kernel.Actor, userID int64, items []order.LineItem) error {
	args := m.Called(ctx, actor, userID, items)
	return args.Error(0)
}

func (m *MockCartRepository) Take(ctx context.Context, userID int64) ([]order.LineItem, error) {
	args := m.Called(ctx, userID)
	if items, ok := args.Get(0).([]order.LineItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAddressRepository struct{ mock.Mock }

func (m *MockAddressRepository) Get(ctx context.Context, userID, addressID int64) (order.Address, error) {
	args := m.Called(ctx, userID, addressID)
	return args.Get(0).(order.Address), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) Changes() []ports.OrderChanged {
	args := m.Called()
	if changes, ok := args.Get(0).([]ports.OrderChanged); ok {
		return changes
	}
	return nil
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CartRepository() ports.CartRepository {
	args := m.Called()
	return args.Get(0).(ports.CartRepository)
}

func (m *MockUoW) AddressRepository() ports.AddressRepository {
	args := m.Called()
	return args.Get(0).(ports.AddressRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) RequestRefund(ctx context.Context, req ports.RefundRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishOrderChanged(ctx context.Context, event ports.OrderChanged) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newAddress(t *testing.T) order.Address {
	t.Helper()
	a, err := order.NewAddress("Li Lei", "13800000000", "Zhejiang Hangzhou Xihu 1 Wensan Rd")
	require.NoError(t, err)
	return a
}

func newItems(t *testing.T) []order.LineItem {
	t.Helper()
	chicken, err := order.NewLineItem("Kung Pao Chicken", order.Product{DishID: 1}, kernel.MustParseMoney("20.00"), 2)
	require.NoError(t, err)
	rice, err := order.NewLineItem("Rice", order.Product{DishID: 2}, kernel.MustParseMoney("5.00"), 1)
	require.NoError(t, err)
	return []order.LineItem{chicken, rice}
}

// orderIn builds an order owned by user 7 and walks it to status.
// Cancelled orders are cancelled before payment.
func orderIn(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewNumber(),
		7,
		newAddress(t),
		newItems(t),
		order.Checkout{PayMethod: order.WeChatPay, PackagingFee: kernel.MustParseMoney("2.00"), TablewareCount: 1},
		fixedNow.Add(-time.Hour),
	)
	require.NoError(t, err)

	steps := map[order.Status][]func() error{
		order.PendingPayment:     nil,
		order.ToBeConfirmed:      {func() error { return o.ConfirmPayment(fixedNow) }},
		order.Confirmed:          {func() error { return o.ConfirmPayment(fixedNow) }, o.Confirm},
		order.DeliveryInProgress: {func() error { return o.ConfirmPayment(fixedNow) }, o.Confirm, o.StartDelivery},
		order.Completed: {
			func() error { return o.ConfirmPayment(fixedNow) }, o.Confirm, o.StartDelivery,
			func() error { return o.CompleteDelivery(fixedNow) },
		},
		order.Cancelled: {func() error { return o.CancelByUser(fixedNow) }},
	}
	for _, step := range steps[status] {
		require.NoError(t, step())
	}
	require.Equal(t, status, o.Status())
	return o
}

// changeOf is what the unit of work reports after committing o from -> to.
func changeOf(o *order.Order, from, to order.Status) []ports.OrderChanged {
	return []ports.OrderChanged{{
		OrderID: o.ID(),
		Number:  o.Number(),
		From:    from,
		To:      to,
		At:      fixedNow,
	}}
}

func newLifecycle(
	factory commands.OrderUoWFactory,
	gateway ports.PaymentGateway,
	publisher ports.EventPublisher,
	m *metrics.Metrics,
) *commands.Lifecycle {
	return commands.NewLifecycle(factory, gateway, publisher, m, zap.NewNop()).
		WithClock(func() time.Time { return fixedNow })
}
