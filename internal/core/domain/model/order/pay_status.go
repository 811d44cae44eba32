package order

import (
	"fmt"

	"takeout/internal/pkg/errs"
)

// PayStatus tracks money movement for an order. Values are the persisted codes.
type PayStatus int

const (
	Unpaid PayStatus = iota
	Paid
	Refund
)

func (p PayStatus) String() string {
	switch p {
	case Unpaid:
		return "UNPAID"
	case Paid:
		return "PAID"
	case Refund:
		return "REFUND"
	default:
		return "UNKNOWN"
	}
}

func (p PayStatus) Validate() error {
	if p < Unpaid || p > Refund {
		return errs.NewValueIsInvalidErrorWithCause("pay status is invalid", fmt.Errorf("%d is not a valid pay status", p))
	}
	return nil
}

// PayMethod is the payment channel chosen at submission.
type PayMethod int

const (
	WeChatPay PayMethod = iota + 1
	Alipay
)

func (m PayMethod) Validate() error {
	if m != WeChatPay && m != Alipay {
		return errs.NewValueIsInvalidErrorWithCause("pay method is invalid", fmt.Errorf("%d is not a valid pay method", m))
	}
	return nil
}

func (m PayMethod) String() string {
	switch m {
	case WeChatPay:
		return "WECHAT"
	case Alipay:
		return "ALIPAY"
	default:
		return "UNKNOWN"
	}
}
