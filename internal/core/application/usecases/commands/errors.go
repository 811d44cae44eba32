package commands

import (
	"errors"
)

var (
	// ErrAddressMissing is returned by SubmitOrder when the address book entry does not exist.
	ErrAddressMissing = errors.New("address book entry is missing")

	// ErrCartEmpty is returned by SubmitOrder when there is nothing to order.
	ErrCartEmpty = errors.New("shopping cart is empty")

	// ErrRefundRequestFailed marks refund failures in logs. Handlers never return it;
	// refunds are requested after commit and a failure does not undo the cancellation.
	ErrRefundRequestFailed = errors.New("refund request failed")
)
