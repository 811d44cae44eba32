package commands

import (
	"errors"
	"fmt"
	"time"

	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"
	"takeout/internal/pkg/guard"
)

var ErrSweepTimedOutOrdersCommandIsNotConstructed = errors.New(
	"SweepTimedOutOrdersCommand must be created via NewSweepUnpaidOrdersCommand or NewSweepDeliveriesCommand",
)

// Sweep jobs, also used as metric labels.
const (
	SweepUnpaid   = "unpaid"
	SweepDelivery = "delivery"
)

// SweepTimedOutOrdersCommand selects one bucket of stale orders: those in a
// status placed before the cutoff.
type SweepTimedOutOrdersCommand struct { //nolint:recvcheck //using for validation
	job    string
	status order.Status
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewSweepUnpaidOrdersCommand targets PENDING_PAYMENT orders placed before cutoff.
func NewSweepUnpaidOrdersCommand(cutoff time.Time) (SweepTimedOutOrdersCommand, error) {
	return newSweepCommand(SweepUnpaid, order.PendingPayment, cutoff)
}

// NewSweepDeliveriesCommand targets DELIVERY_IN_PROGRESS orders placed before cutoff.
func NewSweepDeliveriesCommand(cutoff time.Time) (SweepTimedOutOrdersCommand, error) {
	return newSweepCommand(SweepDelivery, order.DeliveryInProgress, cutoff)
}

func newSweepCommand(job string, status order.Status, cutoff time.Time) (SweepTimedOutOrdersCommand, error) {
	if cutoff.IsZero() {
		return SweepTimedOutOrdersCommand{}, errs.NewValueIsRequiredError("cutoff")
	}
	if cutoff.After(time.Now()) {
		return SweepTimedOutOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"cutoff", fmt.Errorf("%s is in the future", cutoff.Format(time.RFC3339)),
		)
	}

	return SweepTimedOutOrdersCommand{
		job:    job,
		status: status,
		cutoff: cutoff,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c SweepTimedOutOrdersCommand) Validate() error {
	return c.guard.Validate(ErrSweepTimedOutOrdersCommandIsNotConstructed)
}

func (c SweepTimedOutOrdersCommand) Job() string {
	return c.job
}

func (c SweepTimedOutOrdersCommand) Status() order.Status {
	return c.status
}

func (c SweepTimedOutOrdersCommand) Cutoff() time.Time {
	return c.cutoff
}
