package order

import (
	"fmt"

	"takeout/internal/pkg/errs"
)

// Status is the lifecycle state of an order. The numeric values are the
// persisted codes.
//
// Transitions:
//
//	PendingPayment     -> ToBeConfirmed, Cancelled
//	ToBeConfirmed      -> Confirmed, Cancelled
//	Confirmed          -> DeliveryInProgress, Cancelled
//	DeliveryInProgress -> Completed
//	Completed, Cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// PendingPayment is the initial state: submitted, not yet paid.
	PendingPayment

	// ToBeConfirmed means paid and waiting for the merchant.
	ToBeConfirmed

	// Confirmed means the merchant accepted the order.
	Confirmed

	// DeliveryInProgress means the order left the kitchen.
	DeliveryInProgress

	// Completed is terminal: delivered.
	Completed

	// Cancelled is terminal: cancelled by the user, the merchant or the timeout sweep.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:            "UNKNOWN",
		PendingPayment:     "PENDING_PAYMENT",
		ToBeConfirmed:      "TO_BE_CONFIRMED",
		Confirmed:          "CONFIRMED",
		DeliveryInProgress: "DELIVERY_IN_PROGRESS",
		Completed:          "COMPLETED",
		Cancelled:          "CANCELLED",
	}
}

// getTransitions lists, for every non-terminal state, the states it may move to.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown states have no outgoing edges
	return map[Status][]Status{
		PendingPayment:     {ToBeConfirmed, Cancelled},
		ToBeConfirmed:      {Confirmed, Cancelled},
		Confirmed:          {DeliveryInProgress, Cancelled},
		DeliveryInProgress: {Completed},
	}
}

// Validate rejects Unknown and any out-of-range value, typically read from storage.
func (s Status) Validate() error {
	if s < PendingPayment || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// ParseStatus maps a name such as "CONFIRMED" back to its Status.
func ParseStatus(name string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == name && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", name))
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target when the edge s -> target exists, or an
// *errs.InvalidStateTransitionError otherwise.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return Unknown, errs.NewInvalidStateTransitionError(s, target)
	}
	return target, nil
}

// AllowsPayStatus reports whether p is a legal companion of s:
// unpaid before payment, paid while the order is live, and unpaid or
// refunded once cancelled.
func (s Status) AllowsPayStatus(p PayStatus) bool {
	switch s {
	case PendingPayment:
		return p == Unpaid
	case ToBeConfirmed, Confirmed, DeliveryInProgress, Completed:
		return p == Paid
	case Cancelled:
		return p == Unpaid || p == Refund
	default:
		return false
	}
}
