package order

import (
	"errors"
	"fmt"
	"strings"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/errs"
)

// Product points at the catalog entry a line item was bought from. Exactly
// one of DishID and SetmealID is set.
type Product struct {
	DishID    int64
	SetmealID int64
	Flavor    string
	Image     string
}

func (p Product) validate() error {
	if (p.DishID > 0) == (p.SetmealID > 0) {
		return errs.NewValueIsInvalidErrorWithCause("product", errors.New("exactly one of dish and setmeal must be set"))
	}
	return nil
}

// LineItem is a priced snapshot of one cart row. It is fixed at creation.
type LineItem struct {
	name      string
	product   Product
	unitPrice kernel.Money
	quantity  int
}

func NewLineItem(name string, product Product, unitPrice kernel.Money, quantity int) (LineItem, error) {
	name = strings.TrimSpace(name)

	var errList []error
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	errList = append(errList, product.validate())
	if err := errors.Join(errList...); err != nil {
		return LineItem{}, err
	}

	return LineItem{name: name, product: product, unitPrice: unitPrice, quantity: quantity}, nil
}

func (li LineItem) Name() string { return li.name }
func (li LineItem) Product() Product { return li.product }
func (li LineItem) UnitPrice() kernel.Money { return li.unitPrice }
func (li LineItem) Quantity() int { return li.quantity }
func (li LineItem) Subtotal() kernel.Money { return li.unitPrice.Times(li.quantity) }
