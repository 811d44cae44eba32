// Package queries contains the read side of the order service: statistics,
// order detail and search. Handlers read the tables directly and return
// read models; they never load aggregates.
package queries

import (
	"fmt"
	"strings"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderView is an order as the admin console and the customer app list it.
type OrderView struct {
	ID              kernel.UUID
	Number          string
	UserID          int64
	Status          order.Status
	PayStatus       order.PayStatus
	PayMethod       order.PayMethod
	Amount          kernel.Money
	PackagingFee    kernel.Money
	Consignee       string
	Phone           string
	Address         string
	Remark          string
	TablewareCount  int
	OrderTime       time.Time
	CheckoutTime    *time.Time
	CancelTime      *time.Time
	DeliveryTime    *time.Time
	CancelReason    string
	RejectionReason string

	// DishSummary renders the items as "name*quantity;" pairs.
	DishSummary string
}

// LineItemView is one line of an order detail.
type LineItemView struct {
	Name      string
	Image     string
	DishID    *int64
	SetmealID *int64
	Flavor    string
	UnitPrice kernel.Money
	Quantity  int
	Subtotal  kernel.Money
}

const orderColumns = `
	id, number, user_id, status, pay_status, pay_method, amount, packaging_fee,
	consignee, phone, address, remark, tableware_count, order_time,
	checkout_time, cancel_time, delivery_time, cancel_reason, rejection_reason`

type orderRow struct {
	ID              uuid.UUID
	Number          string
	UserID          int64
	Status          int
	PayStatus       int
	PayMethod       int
	Amount          int64
	PackagingFee    int64
	Consignee       string
	Phone           string
	Address         string
	Remark          string
	TablewareCount  int
	OrderTime       time.Time
	CheckoutTime    *time.Time
	CancelTime      *time.Time
	DeliveryTime    *time.Time
	CancelReason    string
	RejectionReason string
}

type lineItemRow struct {
	OrderID   uuid.UUID
	Name      string
	Image     string
	DishID    *int64
	SetmealID *int64
	Flavor    string
	UnitPrice int64
	Quantity  int
}

func (r orderRow) toView() (OrderView, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return OrderView{}, err
	}
	amount, err := kernel.NewMoney(r.Amount)
	if err != nil {
		return OrderView{}, err
	}
	fee, err := kernel.NewMoney(r.PackagingFee)
	if err != nil {
		return OrderView{}, err
	}

	return OrderView{
		ID:              id,
		Number:          strings.TrimSpace(r.Number),
		UserID:          r.UserID,
		Status:          order.Status(r.Status),
		PayStatus:       order.PayStatus(r.PayStatus),
		PayMethod:       order.PayMethod(r.PayMethod),
		Amount:          amount,
		PackagingFee:    fee,
		Consignee:       r.Consignee,
		Phone:           r.Phone,
		Address:         r.Address,
		Remark:          r.Remark,
		TablewareCount:  r.TablewareCount,
		OrderTime:       r.OrderTime,
		CheckoutTime:    r.CheckoutTime,
		CancelTime:      r.CancelTime,
		DeliveryTime:    r.DeliveryTime,
		CancelReason:    r.CancelReason,
		RejectionReason: r.RejectionReason,
	}, nil
}

func (r lineItemRow) toView() (LineItemView, error) {
	price, err := kernel.NewMoney(r.UnitPrice)
	if err != nil {
		return LineItemView{}, err
	}

	return LineItemView{
		Name:      r.Name,
		Image:     r.Image,
		DishID:    r.DishID,
		SetmealID: r.SetmealID,
		Flavor:    r.Flavor,
		UnitPrice: price,
		Quantity:  r.Quantity,
		Subtotal:  price.Times(r.Quantity),
	}, nil
}

func dishSummary(items []lineItemRow) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s*%d;", item.Name, item.Quantity)
	}
	return b.String()
}
