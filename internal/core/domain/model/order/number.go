package order

import (
	"fmt"
	"strings"

	"takeout/internal/pkg/errs"

	"github.com/google/uuid"
)

// Number is the external order token quoted to the payment gateway and the
// customer: 32 lowercase hex characters.
type Number string

// NewNumber generates a fresh, random order number.
func NewNumber() Number {
	return Number(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// NumberFromString validates s as an order number.
func NumberFromString(s string) (Number, error) {
	n := Number(strings.ToLower(strings.TrimSpace(s)))
	if err := n.Validate(); err != nil {
		return "", err
	}
	return n, nil
}

func (n Number) Validate() error {
	if n == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	if len(n) != 32 {
		return errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q is not 32 characters", string(n)))
	}
	for _, r := range n {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q is not hex", string(n)))
		}
	}
	return nil
}

func (n Number) String() string {
	return string(n)
}
