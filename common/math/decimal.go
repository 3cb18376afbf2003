package math

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MonetaryScale is the number of fractional digits kept for every monetary
// and quantity value
const MonetaryScale int32 = 8

// ErrDivideByZero is returned when a divisor is zero
var ErrDivideByZero = errors.New("divide by zero")

// Truncate drops every digit past MonetaryScale, rounding toward zero
func Truncate(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(MonetaryScale)
}

// TruncatedDivide returns a/b cut at MonetaryScale digits toward zero.
// Repeated truncation is path dependent so rounding must never be used here
func TruncatedDivide(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivideByZero
	}
	q, _ := a.QuoRem(b, MonetaryScale)
	return q, nil
}
