package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"
	"takeout/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker changeTracker
	now     func() time.Time
}

// changeTracker collects transitions so they can be published once the transaction commits.
type changeTracker interface {
	TrackChange(change ports.OrderChanged)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker changeTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
		now:     time.Now,
	}
}

// Add saves a new order and its line items.
func (r *GormOrderRepository) Add(ctx context.Context, actor kernel.Actor, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	now := r.now()
	dto.CreatedAt, dto.CreatedBy = now, actor.UserID()
	dto.UpdatedAt, dto.UpdatedBy = now, actor.UserID()

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return fmt.Errorf("insert order %s: %w", aggregate.Number(), err)
	}
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return r.first(ctx, id.String(), "id = ?", id.Bytes())
}

// GetByNumber retrieves an order by its external number.
func (r *GormOrderRepository) GetByNumber(ctx context.Context, number order.Number) (*order.Order, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}

	return r.first(ctx, number.String(), "number = ?", number.String())
}

// Transition persists the lifecycle fields only if the row is still in expected.
func (r *GormOrderRepository) Transition(
	ctx context.Context,
	actor kernel.Actor,
	aggregate *order.Order,
	expected order.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	now := r.now()
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", aggregate.ID().Bytes(), int(expected)).
		Updates(map[string]any{
			"status":           int(aggregate.Status()),
			"pay_status":       int(aggregate.PayStatus()),
			"checkout_time":    aggregate.CheckoutTime(),
			"cancel_time":      aggregate.CancelTime(),
			"delivery_time":    aggregate.DeliveryTime(),
			"cancel_reason":    aggregate.CancelReason(),
			"rejection_reason": aggregate.RejectionReason(),
			"updated_at":       now,
			"updated_by":       actor.UserID(),
		})
	if result.Error != nil {
		return fmt.Errorf("update order %s: %w", aggregate.Number(), result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrentStateChangeError(aggregate.ID().String(), expected)
	}

	r.tracker.TrackChange(ports.OrderChanged{
		OrderID: aggregate.ID(),
		Number:  aggregate.Number(),
		From:    expected,
		To:      aggregate.Status(),
		At:      now,
	})
	return nil
}

// FindIDsByStatusBefore lists ids of orders in status placed before the given time.
func (r *GormOrderRepository) FindIDsByStatusBefore(
	ctx context.Context,
	status order.Status,
	before time.Time,
) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("status = ? AND order_time < ?", int(status), before).
		Order("order_time").
		Pluck("id", &raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, id := range raw {
		kid, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, kid)
	}
	return ids, nil
}

func (r *GormOrderRepository) first(ctx context.Context, key, query string, args ...any) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where(query, args...).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", key)
		}
		return nil, err
	}

	return toDomain(dto)
}
