package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SearchOrdersQueryHandler struct {
	db *gorm.DB
}

func NewSearchOrdersQueryHandler(db *gorm.DB) SearchOrdersQueryHandler {
	return SearchOrdersQueryHandler{db: db}
}

func (h SearchOrdersQueryHandler) Handle(ctx context.Context, query SearchOrdersQuery) (OrderPage, error) {
	if err := query.Validate(); err != nil {
		return OrderPage{}, err
	}

	db := h.db.WithContext(ctx)
	stmt := filtered(db.Table("orders"), query.Filter())

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return OrderPage{}, err
	}

	page := OrderPage{Total: total, Orders: make([]OrderView, 0)}
	if total == 0 {
		return page, nil
	}

	var rows []orderRow
	err := filtered(db.Table("orders"), query.Filter()).
		Select(orderColumns).
		Order("order_time DESC").
		Offset((query.Page() - 1) * query.PageSize()).
		Limit(query.PageSize()).
		Scan(&rows).Error
	if err != nil {
		return OrderPage{}, err
	}
	if len(rows) == 0 {
		return page, nil
	}

	items, err := h.itemsByOrder(db, rows)
	if err != nil {
		return OrderPage{}, err
	}

	for _, row := range rows {
		view, viewErr := row.toView()
		if viewErr != nil {
			return OrderPage{}, viewErr
		}
		view.DishSummary = dishSummary(items[row.ID])
		page.Orders = append(page.Orders, view)
	}

	return page, nil
}

func (h SearchOrdersQueryHandler) itemsByOrder(db *gorm.DB, rows []orderRow) (map[uuid.UUID][]lineItemRow, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var items []lineItemRow
	err := db.Table("order_line_items").
		Select("order_id, name, quantity").
		Where("order_id IN ?", ids).
		Order("order_id, position").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	byOrder := make(map[uuid.UUID][]lineItemRow, len(rows))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	return byOrder, nil
}

func filtered(stmt *gorm.DB, f OrderFilter) *gorm.DB {
	if f.UserID != 0 {
		stmt = stmt.Where("user_id = ?", f.UserID)
	}
	if f.Status != 0 {
		stmt = stmt.Where("status = ?", int(f.Status))
	}
	if f.Number != "" {
		stmt = stmt.Where("number LIKE ?", "%"+f.Number+"%")
	}
	if f.Phone != "" {
		stmt = stmt.Where("phone LIKE ?", "%"+f.Phone+"%")
	}
	if f.Begin != nil {
		stmt = stmt.Where("order_time >= ?", *f.Begin)
	}
	if f.End != nil {
		stmt = stmt.Where("order_time <= ?", *f.End)
	}
	return stmt
}
