package queries

import (
	"context"

	"takeout/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderDetailQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderDetailQueryHandler(db *gorm.DB) GetOrderDetailQueryHandler {
	return GetOrderDetailQueryHandler{db: db}
}

// Handle returns *errs.ObjectNotFoundError when the order does not exist or
// belongs to another user.
func (h GetOrderDetailQueryHandler) Handle(ctx context.Context, query GetOrderDetailQuery) (OrderDetail, error) {
	if err := query.Validate(); err != nil {
		return OrderDetail{}, err
	}

	db := h.db.WithContext(ctx)
	id := query.OrderID().Bytes()

	stmt := db.Table("orders").Select(orderColumns).Where("id = ?", id)
	if query.UserID() != 0 {
		stmt = stmt.Where("user_id = ?", query.UserID())
	}

	var rows []orderRow
	if err := stmt.Limit(1).Scan(&rows).Error; err != nil {
		return OrderDetail{}, err
	}
	if len(rows) == 0 {
		return OrderDetail{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	view, err := rows[0].toView()
	if err != nil {
		return OrderDetail{}, err
	}

	var items []lineItemRow
	err = db.Table("order_line_items").
		Select("order_id, name, image, dish_id, setmeal_id, flavor, unit_price, quantity").
		Where("order_id = ?", id).
		Order("position").
		Scan(&items).Error
	if err != nil {
		return OrderDetail{}, err
	}

	detail := OrderDetail{OrderView: view, LineItems: make([]LineItemView, 0, len(items))}
	detail.DishSummary = dishSummary(items)
	for _, item := range items {
		itemView, itemErr := item.toView()
		if itemErr != nil {
			return OrderDetail{}, itemErr
		}
		detail.LineItems = append(detail.LineItems, itemView)
	}

	return detail, nil
}
