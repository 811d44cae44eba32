// Package addressrepo reads the user's address book.
package addressrepo

import (
	"strings"

	"takeout/internal/core/domain/model/order"
)

// AddressBookDTO is one row of the address_book table.
type AddressBookDTO struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	UserID       int64  `gorm:"index;not null"`
	Consignee    string `gorm:"size:50;not null"`
	Phone        string `gorm:"size:20;not null"`
	ProvinceName string `gorm:"size:32"`
	CityName     string `gorm:"size:32"`
	DistrictName string `gorm:"size:32"`
	Detail       string `gorm:"size:200;not null"`
	Label        string `gorm:"size:100"`
	IsDefault    bool
}

func (AddressBookDTO) TableName() string {
	return "address_book"
}

// toDomain flattens the entry into the snapshot stored on the order.
func toDomain(dto AddressBookDTO) (order.Address, error) {
	parts := make([]string, 0, 4)
	for _, p := range []string{dto.ProvinceName, dto.CityName, dto.DistrictName, dto.Detail} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return order.NewAddress(dto.Consignee, dto.Phone, strings.Join(parts, " "))
}
