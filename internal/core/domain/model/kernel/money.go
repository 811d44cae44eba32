package kernel

import (
	"fmt"
	"strconv"
	"strings"

	"takeout/internal/pkg/errs"
)

// Money is an amount in fen (1/100 yuan). Amounts are never negative.
type Money struct {
	fen int64
}

// Zero is the zero amount.
var Zero = Money{}

// NewMoney builds an amount from fen.
func NewMoney(fen int64) (Money, error) {
	if fen < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", fen, 0, "unbounded")
	}
	return Money{fen: fen}, nil
}

// ParseMoney parses a decimal yuan amount with at most two fraction digits,
// e.g. "45", "45.5" or "45.00".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, errs.NewValueIsRequiredError("amount")
	}
	if strings.HasPrefix(s, "-") {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", s, 0, "unbounded")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%q has bad precision", s))
	}
	for len(frac) < 2 {
		frac += "0"
	}

	yuan, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	fen, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || strings.HasPrefix(frac, "-") || strings.HasPrefix(frac, "+") {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%q is not a decimal", s))
	}

	return NewMoney(yuan*100 + fen)
}

// MustParseMoney is ParseMoney for literals; it panics on bad input.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Fen() int64 {
	return m.fen
}

func (m Money) Add(other Money) Money {
	return Money{fen: m.fen + other.fen}
}

// Times multiplies by a non-negative quantity.
func (m Money) Times(quantity int) Money {
	if quantity < 0 {
		quantity = 0
	}
	return Money{fen: m.fen * int64(quantity)}
}

func (m Money) IsZero() bool {
	return m.fen == 0
}

func (m Money) IsEqual(other Money) bool {
	return m.fen == other.fen
}

// String renders yuan with two decimals, e.g. "47.00".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.fen/100, m.fen%100)
}
