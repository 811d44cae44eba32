package addressrepo

import (
	"context"
	"errors"

	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAddressRepository implements ports.AddressRepository using GORM.
type GormAddressRepository struct {
	db *gorm.DB
}

func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// Get loads the entry only when it belongs to userID.
func (r *GormAddressRepository) Get(ctx context.Context, userID, addressID int64) (order.Address, error) {
	var dto AddressBookDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ? AND user_id = ?", addressID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.Address{}, errs.NewObjectNotFoundError("address", addressID)
		}
		return order.Address{}, err
	}

	return toDomain(dto)
}
