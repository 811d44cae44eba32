// Package orderrepo persists order aggregates and their line items with gorm.
package orderrepo

import (
	"errors"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders table. The (status, order_time) index serves the
// timeout sweep.
type OrderDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number          string    `gorm:"type:char(32);uniqueIndex;not null"`
	UserID          int64     `gorm:"index;not null"`
	Status          int       `gorm:"index:idx_orders_status_order_time,priority:1;not null"`
	PayStatus       int       `gorm:"not null"`
	PayMethod       int       `gorm:"not null"`
	Amount          int64     `gorm:"not null"`
	PackagingFee    int64     `gorm:"not null"`
	Consignee       string    `gorm:"size:50;not null"`
	Phone           string    `gorm:"size:20;index;not null"`
	Address         string    `gorm:"size:255;not null"`
	Remark          string    `gorm:"size:255"`
	TablewareCount  int
	OrderTime       time.Time `gorm:"index:idx_orders_status_order_time,priority:2;not null"`
	CheckoutTime    *time.Time
	CancelTime      *time.Time
	DeliveryTime    *time.Time
	CancelReason    string `gorm:"size:255"`
	RejectionReason string `gorm:"size:255"`

	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	CreatedBy int64
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
	UpdatedBy int64

	LineItems []LineItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one row of order_line_items. Position keeps the cart order.
type LineItemDTO struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Position  int       `gorm:"not null"`
	Name      string    `gorm:"size:64;not null"`
	Image     string    `gorm:"size:255"`
	DishID    *int64
	SetmealID *int64
	Flavor    string `gorm:"size:64"`
	UnitPrice int64  `gorm:"not null"`
	Quantity  int    `gorm:"not null"`
}

func (LineItemDTO) TableName() string {
	return "order_line_items"
}

func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Bytes()
	items := o.LineItems()
	lineItems := make([]LineItemDTO, 0, len(items))
	for i, item := range items {
		lineItems = append(lineItems, lineItemFromDomain(id, i, item))
	}

	return OrderDTO{
		ID:              id,
		Number:          o.Number().String(),
		UserID:          o.UserID(),
		Status:          int(o.Status()),
		PayStatus:       int(o.PayStatus()),
		PayMethod:       int(o.Checkout().PayMethod),
		Amount:          o.Amount().Fen(),
		PackagingFee:    o.Checkout().PackagingFee.Fen(),
		Consignee:       o.Address().Consignee(),
		Phone:           o.Address().Phone(),
		Address:         o.Address().Detail(),
		Remark:          o.Checkout().Remark,
		TablewareCount:  o.Checkout().TablewareCount,
		OrderTime:       o.OrderTime(),
		CheckoutTime:    o.CheckoutTime(),
		CancelTime:      o.CancelTime(),
		DeliveryTime:    o.DeliveryTime(),
		CancelReason:    o.CancelReason(),
		RejectionReason: o.RejectionReason(),
		LineItems:       lineItems,
	}
}

func lineItemFromDomain(orderID uuid.UUID, position int, item order.LineItem) LineItemDTO {
	p := item.Product()
	return LineItemDTO{
		OrderID:   orderID,
		Position:  position,
		Name:      item.Name(),
		Image:     p.Image,
		DishID:    optionalID(p.DishID),
		SetmealID: optionalID(p.SetmealID),
		Flavor:    p.Flavor,
		UnitPrice: item.UnitPrice().Fen(),
		Quantity:  item.Quantity(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	number, err := order.NumberFromString(dto.Number)
	if err != nil {
		return nil, err
	}

	address, err := order.NewAddress(dto.Consignee, dto.Phone, dto.Address)
	if err != nil {
		return nil, err
	}

	amount, amountErr := kernel.NewMoney(dto.Amount)
	fee, feeErr := kernel.NewMoney(dto.PackagingFee)
	if err = errors.Join(amountErr, feeErr); err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.LineItems))
	for _, itemDTO := range dto.LineItems {
		item, itemErr := lineItemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:        id,
		Number:    number,
		UserID:    dto.UserID,
		Status:    order.Status(dto.Status),
		PayStatus: order.PayStatus(dto.PayStatus),
		Checkout: order.Checkout{
			PayMethod:      order.PayMethod(dto.PayMethod),
			PackagingFee:   fee,
			Remark:         dto.Remark,
			TablewareCount: dto.TablewareCount,
		},
		Amount:          amount,
		Address:         address,
		LineItems:       items,
		OrderTime:       dto.OrderTime,
		CheckoutTime:    dto.CheckoutTime,
		CancelTime:      dto.CancelTime,
		DeliveryTime:    dto.DeliveryTime,
		CancelReason:    dto.CancelReason,
		RejectionReason: dto.RejectionReason,
	})
}

func lineItemToDomain(dto LineItemDTO) (order.LineItem, error) {
	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.LineItem{}, err
	}

	return order.NewLineItem(dto.Name, order.Product{
		DishID:    derefID(dto.DishID),
		SetmealID: derefID(dto.SetmealID),
		Flavor:    dto.Flavor,
		Image:     dto.Image,
	}, price, dto.Quantity)
}

func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
