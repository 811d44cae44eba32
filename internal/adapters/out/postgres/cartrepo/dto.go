// Package cartrepo reads and writes the shopping cart inside the order
// transaction, so submitting an order and clearing the cart commit together.
package cartrepo

import (
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
)

// CartItemDTO is one row of the shopping_cart table.
type CartItemDTO struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    int64  `gorm:"index;not null"`
	Name      string `gorm:"size:64;not null"`
	Image     string `gorm:"size:255"`
	DishID    *int64
	SetmealID *int64
	Flavor    string `gorm:"size:64"`
	Quantity  int    `gorm:"not null"`
	UnitPrice int64  `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	CreatedBy int64
}

func (CartItemDTO) TableName() string {
	return "shopping_cart"
}

func fromDomain(userID int64, item order.LineItem) CartItemDTO {
	p := item.Product()
	dto := CartItemDTO{
		UserID:    userID,
		Name:      item.Name(),
		Image:     p.Image,
		Flavor:    p.Flavor,
		Quantity:  item.Quantity(),
		UnitPrice: item.UnitPrice().Fen(),
	}
	if p.DishID > 0 {
		dishID := p.DishID
		dto.DishID = &dishID
	}
	if p.SetmealID > 0 {
		setmealID := p.SetmealID
		dto.SetmealID = &setmealID
	}
	return dto
}

func toDomain(dto CartItemDTO) (order.LineItem, error) {
	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.LineItem{}, err
	}

	product := order.Product{Flavor: dto.Flavor, Image: dto.Image}
	if dto.DishID != nil {
		product.DishID = *dto.DishID
	}
	if dto.SetmealID != nil {
		product.SetmealID = *dto.SetmealID
	}
	return order.NewLineItem(dto.Name, product, price, dto.Quantity)
}
