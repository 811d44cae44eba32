package order

import (
	"errors"
	"strings"

	"takeout/internal/pkg/errs"
)

// Address is the delivery address copied from the address book when the
// order is submitted. Later address book edits never reach a placed order.
type Address struct {
	consignee string
	phone     string
	detail    string
}

// NewAddress validates and builds an address snapshot. detail is the full
// printable address (province, city, district and street joined).
func NewAddress(consignee, phone, detail string) (Address, error) {
	consignee = strings.TrimSpace(consignee)
	phone = strings.TrimSpace(phone)
	detail = strings.TrimSpace(detail)

	var errList []error
	if consignee == "" {
		errList = append(errList, errs.NewValueIsRequiredError("consignee"))
	}
	if phone == "" {
		errList = append(errList, errs.NewValueIsRequiredError("phone"))
	}
	if detail == "" {
		errList = append(errList, errs.NewValueIsRequiredError("address"))
	}
	if err := errors.Join(errList...); err != nil {
		return Address{}, err
	}

	return Address{consignee: consignee, phone: phone, detail: detail}, nil
}

func (a Address) Consignee() string { return a.consignee }
func (a Address) Phone() string { return a.phone }
func (a Address) Detail() string { return a.detail }

func (a Address) IsZero() bool {
	return a == Address{}
}
