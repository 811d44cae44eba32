package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/errs"
)

const (
	// UserCancelReason is recorded when a customer cancels on their own.
	UserCancelReason = "user canceled order"

	// PaymentTimeoutReason is recorded when the sweep cancels an unpaid order.
	PaymentTimeoutReason = "payment timed out, auto-cancelled"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Checkout carries the options chosen by the customer at submission.
type Checkout struct {
	PayMethod      PayMethod
	PackagingFee   kernel.Money
	Remark         string
	TablewareCount int
}

// Order is the aggregate root of the order lifecycle.
//
// Order follows these invariants:
//   - status only moves along the edges documented on Status
//   - payStatus is always one Status.AllowsPayStatus accepts
//   - amount = sum of line item subtotals + packaging fee, fixed at creation
//   - checkoutTime, cancelTime and deliveryTime are written at most once
//   - at most one of cancelReason and rejectionReason is set
//
// The struct uses private fields; state changes go through the transition methods.
type Order struct {
	id        kernel.UUID
	number    Number
	userID    int64
	status    Status
	payStatus PayStatus
	checkout  Checkout
	amount    kernel.Money
	address   Address
	lineItems []LineItem

	orderTime    time.Time
	checkoutTime *time.Time
	cancelTime   *time.Time
	deliveryTime *time.Time

	cancelReason    string
	rejectionReason string

	isConstructed bool
}

// NewOrder creates an order in PendingPayment/Unpaid from the cart snapshot.
//
// The line items are copied; the amount is computed here and never again.
//
// Example:
//
//	item, _ := order.NewLineItem("Kung Pao Chicken", order.Product{DishID: 12}, kernel.MustParseMoney("22.50"), 2)
//	o, err := order.NewOrder(kernel.NewUUID(), order.NewNumber(), userID, address,
//	    []order.LineItem{item}, order.Checkout{PayMethod: order.WeChatPay, PackagingFee: kernel.MustParseMoney("2")}, time.Now())
func NewOrder(
	id kernel.UUID,
	number Number,
	userID int64,
	address Address,
	items []LineItem,
	checkout Checkout,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        PendingPayment,
		payStatus:     Unpaid,
		orderTime:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setUserID(userID),
		o.setAddress(address),
		o.setLineItems(items),
		o.setCheckout(checkout),
		o.setOrderTime(now),
	); err != nil {
		return nil, err
	}

	o.amount = computeAmount(o.lineItems, checkout.PackagingFee)
	return o, nil
}

// Snapshot is the full persisted state of an order, used by repositories to
// rebuild the aggregate.
type Snapshot struct {
	ID              kernel.UUID
	Number          Number
	UserID          int64
	Status          Status
	PayStatus       PayStatus
	Checkout        Checkout
	Amount          kernel.Money
	Address         Address
	LineItems       []LineItem
	OrderTime       time.Time
	CheckoutTime    *time.Time
	CancelTime      *time.Time
	DeliveryTime    *time.Time
	CancelReason    string
	RejectionReason string
}

// RestoreOrder rebuilds an order from storage and rejects rows that break
// the aggregate invariants (for example COMPLETED with UNPAID).
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		status:          s.Status,
		payStatus:       s.PayStatus,
		amount:          s.Amount,
		checkoutTime:    s.CheckoutTime,
		cancelTime:      s.CancelTime,
		deliveryTime:    s.DeliveryTime,
		cancelReason:    s.CancelReason,
		rejectionReason: s.RejectionReason,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setUserID(s.UserID),
		o.setAddress(s.Address),
		o.setLineItems(s.LineItems),
		o.setCheckout(s.Checkout),
		o.setOrderTime(s.OrderTime),
		s.Status.Validate(),
		s.PayStatus.Validate(),
	); err != nil {
		return nil, err
	}

	if !s.Status.AllowsPayStatus(s.PayStatus) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"pay status is invalid",
			fmt.Errorf("%s is not consistent with %s", s.PayStatus, s.Status),
		)
	}
	if s.CancelReason != "" && s.RejectionReason != "" {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"reason is invalid",
			errors.New("cancel and rejection reasons are mutually exclusive"),
		)
	}

	return o, nil
}

// Validate ensures the Order instance was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) Number() Number { return o.number }
func (o *Order) UserID() int64 { return o.userID }
func (o *Order) Status() Status { return o.status }
func (o *Order) PayStatus() PayStatus { return o.payStatus }
func (o *Order) Checkout() Checkout { return o.checkout }
func (o *Order) Amount() kernel.Money { return o.amount }
func (o *Order) Address() Address { return o.address }
func (o *Order) OrderTime() time.Time { return o.orderTime }
func (o *Order) CheckoutTime() *time.Time { return o.checkoutTime }
func (o *Order) CancelTime() *time.Time { return o.cancelTime }
func (o *Order) DeliveryTime() *time.Time { return o.deliveryTime }
func (o *Order) CancelReason() string { return o.cancelReason }
func (o *Order) RejectionReason() string { return o.rejectionReason }

// LineItems returns a copy of the items.
func (o *Order) LineItems() []LineItem {
	items := make([]LineItem, len(o.lineItems))
	copy(items, o.lineItems)
	return items
}

// IsOwnedBy reports whether userID placed the order.
func (o *Order) IsOwnedBy(userID int64) bool {
	return o.userID == userID
}

// RequiresRefund reports whether the order was cancelled after payment.
func (o *Order) RequiresRefund() bool {
	return o.status == Cancelled && o.payStatus == Refund
}

// DishSummary renders the items as "name*quantity;" pairs, e.g. "Rice*2;Tea*1;".
func (o *Order) DishSummary() string {
	var b strings.Builder
	for _, item := range o.lineItems {
		fmt.Fprintf(&b, "%s*%d;", item.Name(), item.Quantity())
	}
	return b.String()
}

// ConfirmPayment moves PendingPayment -> ToBeConfirmed, marks the order paid
// and records the checkout time.
func (o *Order) ConfirmPayment(now time.Time) error {
	next, err := o.status.TransitionTo(ToBeConfirmed)
	if err != nil {
		return err
	}

	o.status = next
	o.payStatus = Paid
	o.checkoutTime = stamp(now)
	return nil
}

// Confirm records the merchant accepting the order: ToBeConfirmed -> Confirmed.
func (o *Order) Confirm() error {
	if err := o.expect(ToBeConfirmed, Confirmed); err != nil {
		return err
	}

	o.status = Confirmed
	return nil
}

// Reject records the merchant declining a paid order. The order is
// cancelled with a rejection reason and the payment is marked for refund.
func (o *Order) Reject(reason string, now time.Time) error {
	if err := o.expect(ToBeConfirmed, Cancelled); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("rejection reason")
	}

	o.cancel(now)
	o.rejectionReason = reason
	return nil
}

// CancelByUser is the self-service cancel. It is only allowed before the
// merchant accepts; later cancellations need the merchant.
func (o *Order) CancelByUser(now time.Time) error {
	if o.status != PendingPayment && o.status != ToBeConfirmed {
		return errs.NewInvalidStateTransitionError(o.status, Cancelled)
	}

	o.cancel(now)
	o.cancelReason = UserCancelReason
	return nil
}

// CancelByMerchant cancels an accepted order with the merchant's reason.
func (o *Order) CancelByMerchant(reason string, now time.Time) error {
	if err := o.expect(Confirmed, Cancelled); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("cancel reason")
	}

	o.cancel(now)
	o.cancelReason = reason
	return nil
}

// CancelForPaymentTimeout cancels an order that was never paid.
func (o *Order) CancelForPaymentTimeout(now time.Time) error {
	if err := o.expect(PendingPayment, Cancelled); err != nil {
		return err
	}

	o.cancel(now)
	o.cancelReason = PaymentTimeoutReason
	return nil
}

// StartDelivery moves Confirmed -> DeliveryInProgress.
func (o *Order) StartDelivery() error {
	if err := o.expect(Confirmed, DeliveryInProgress); err != nil {
		return err
	}

	o.status = DeliveryInProgress
	return nil
}

// CompleteDelivery moves DeliveryInProgress -> Completed and records the delivery time.
func (o *Order) CompleteDelivery(now time.Time) error {
	if err := o.expect(DeliveryInProgress, Completed); err != nil {
		return err
	}

	o.status = Completed
	o.deliveryTime = stamp(now)
	return nil
}

// expect fails unless the order is in from and from -> to is a lifecycle edge.
func (o *Order) expect(from, to Status) error {
	if o.status != from || !from.CanTransitionTo(to) {
		return errs.NewInvalidStateTransitionError(o.status, to)
	}
	return nil
}

func (o *Order) cancel(now time.Time) {
	if o.payStatus == Paid {
		o.payStatus = Refund
	}
	o.status = Cancelled
	o.cancelTime = stamp(now)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number Number) error {
	if err := number.Validate(); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setUserID(userID int64) error {
	if userID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("user id is invalid", fmt.Errorf("%d is not greater than 0", userID))
	}
	o.userID = userID
	return nil
}

func (o *Order) setAddress(address Address) error {
	if address.IsZero() {
		return errs.NewValueIsRequiredError("address")
	}
	o.address = address
	return nil
}

func (o *Order) setLineItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("line items")
	}
	o.lineItems = make([]LineItem, len(items))
	copy(o.lineItems, items)
	return nil
}

func (o *Order) setCheckout(checkout Checkout) error {
	if err := checkout.PayMethod.Validate(); err != nil {
		return err
	}
	if checkout.TablewareCount < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"tableware count is invalid",
			fmt.Errorf("%d is negative", checkout.TablewareCount),
		)
	}
	checkout.Remark = strings.TrimSpace(checkout.Remark)
	o.checkout = checkout
	return nil
}

func (o *Order) setOrderTime(t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError("order time")
	}
	o.orderTime = t
	return nil
}

func computeAmount(items []LineItem, packagingFee kernel.Money) kernel.Money {
	total := packagingFee
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func stamp(now time.Time) *time.Time {
	t := now
	return &t
}
