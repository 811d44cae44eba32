package queries

import (
	"errors"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/guard"
)

var ErrGetOrderDetailQueryIsNotConstructed = errors.New(
	"GetOrderDetailQuery must be created via NewGetOrderDetailQuery constructor",
)

// GetOrderDetailQuery reads one order with its line items. When userID is
// set the order must belong to that user.
type GetOrderDetailQuery struct {
	orderID kernel.UUID
	userID  int64

	guard guard.ConstructorGuard
}

// NewGetOrderDetailQuery is the admin view of any order.
func NewGetOrderDetailQuery(orderID kernel.UUID) (GetOrderDetailQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderDetailQuery{}, err
	}
	return GetOrderDetailQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// NewGetUserOrderDetailQuery restricts the lookup to userID's orders.
func NewGetUserOrderDetailQuery(orderID kernel.UUID, userID int64) (GetOrderDetailQuery, error) {
	q, err := NewGetOrderDetailQuery(orderID)
	if err != nil {
		return GetOrderDetailQuery{}, err
	}
	q.userID = userID
	return q, nil
}

func (q GetOrderDetailQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDetailQueryIsNotConstructed)
}

func (q GetOrderDetailQuery) OrderID() kernel.UUID {
	return q.orderID
}

// UserID is zero for the admin view.
func (q GetOrderDetailQuery) UserID() int64 {
	return q.userID
}

// OrderDetail is an order together with its items.
type OrderDetail struct {
	OrderView
	LineItems []LineItemView
}
