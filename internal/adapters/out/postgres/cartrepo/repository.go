package cartrepo

import (
	"context"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements ports.CartRepository using GORM.
type GormCartRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db, now: time.Now}
}

// Items returns the user's cart rows oldest first.
func (r *GormCartRepository) Items(ctx context.Context, userID int64) ([]order.LineItem, error) {
	var dtos []CartItemDTO
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toItems(dtos)
}

// Take reads the user's rows with SELECT ... FOR UPDATE and deletes exactly
// those rows. Run it inside the order transaction: a second submit blocks on
// the row locks and, once the first commits, finds nothing left to order.
func (r *GormCartRepository) Take(ctx context.Context, userID int64) ([]order.LineItem, error) {
	var dtos []CartItemDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return []order.LineItem{}, nil
	}

	ids := make([]uint64, len(dtos))
	for i, dto := range dtos {
		ids[i] = dto.ID
	}
	if err = r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&CartItemDTO{}).Error; err != nil {
		return nil, err
	}
	return toItems(dtos)
}

func toItems(dtos []CartItemDTO) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(dtos))
	for _, dto := range dtos {
		item, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Put appends items as new cart rows.
func (r *GormCartRepository) Put(ctx context.Context, actor kernel.Actor, userID int64, items []order.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	now := r.now()
	dtos := make([]CartItemDTO, 0, len(items))
	for _, item := range items {
		dto := fromDomain(userID, item)
		dto.CreatedAt, dto.CreatedBy = now, actor.UserID()
		dtos = append(dtos, dto)
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}
