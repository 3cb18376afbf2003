package trader

import (
	"fmt"

	"github.com/shopspring/decimal"
	gctmath "github.com/turbo/newton/common/math"
)

// New returns a trader holding the whole seed in the quote asset
func New(seedQuoteValue, price decimal.Decimal) (Trader, error) {
	if !seedQuoteValue.IsPositive() {
		return Trader{}, fmt.Errorf("%w: %s", ErrInvalidSeed, seedQuoteValue)
	}
	if !price.IsPositive() {
		return Trader{}, fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	return Trader{
		seedQuoteValue: seedQuoteValue,
		basePosition:   0,
		quotePosition:  PositionDenominator,
		baseBalance:    decimal.Zero,
		quoteBalance:   gctmath.Truncate(seedQuoteValue),
		currentPrice:   price,
	}, nil
}

// SeedQuoteValue returns the starting value in the quote asset
func (t Trader) SeedQuoteValue() decimal.Decimal { return t.seedQuoteValue }

// BasePosition returns the base part of the target allocation
func (t Trader) BasePosition() int64 { return t.basePosition }

// QuotePosition returns the quote part of the target allocation
func (t Trader) QuotePosition() int64 { return t.quotePosition }

// BaseBalance returns the held base quantity
func (t Trader) BaseBalance() decimal.Decimal { return t.baseBalance }

// QuoteBalance returns the held quote quantity
func (t Trader) QuoteBalance() decimal.Decimal { return t.quoteBalance }

// CurrentPrice returns the last price the trader was valued at
func (t Trader) CurrentPrice() decimal.Decimal { return t.currentPrice }

// TargetFraction returns the target allocation as base over base+quote
func (t Trader) TargetFraction() (numerator, denominator int64) {
	return t.basePosition, t.basePosition + t.quotePosition
}

// SameFraction reports whether base1/(base1+quote1) equals
// base2/(base2+quote2) exactly
func SameFraction(base1, quote1, base2, quote2 int64) bool {
	return base1*(base2+quote2) == base2*(base1+quote1)
}

// TotalValue returns the holdings valued in the quote asset at the current
// price
func (t Trader) TotalValue() decimal.Decimal {
	return totalValue(t.baseBalance, t.quoteBalance, t.currentPrice)
}

// ROI returns the total value as a multiple of the seed value
func (t Trader) ROI() (decimal.Decimal, error) {
	return gctmath.TruncatedDivide(t.TotalValue(), t.seedQuoteValue)
}

// WithPrice returns a copy of the trader valued at the price
func (t Trader) WithPrice(price decimal.Decimal) (Trader, error) {
	if !price.IsPositive() {
		return t, fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	t.currentPrice = price
	return t, nil
}

// Rebalance moves the holdings to the new target allocation at the new price
// without changing the total value beyond truncation. When the target fraction
// is unchanged only the price is updated
func (t Trader) Rebalance(newBase, newQuote int64, newPrice decimal.Decimal) (Trader, error) {
	if newBase < 0 || newQuote < 0 || newBase+newQuote != PositionDenominator {
		return t, fmt.Errorf("%w: %d/%d", ErrInvalidPosition, newBase, newQuote)
	}
	if !newPrice.IsPositive() {
		return t, fmt.Errorf("%w: %s", ErrInvalidPrice, newPrice)
	}
	if SameFraction(t.basePosition, t.quotePosition, newBase, newQuote) {
		t.basePosition, t.quotePosition = newBase, newQuote
		t.currentPrice = newPrice
		return t, nil
	}
	// the total stays exact, truncation happens once on the division
	total := t.baseBalance.Mul(newPrice).Add(t.quoteBalance)
	desiredBase, err := gctmath.TruncatedDivide(
		total.Mul(decimal.NewFromInt(newBase)),
		decimal.NewFromInt(newBase+newQuote).Mul(newPrice))
	if err != nil {
		return t, err
	}
	baseDelta := desiredBase.Sub(t.baseBalance)
	t.baseBalance = desiredBase
	t.quoteBalance = gctmath.Truncate(t.quoteBalance.Sub(baseDelta.Mul(newPrice)))
	t.basePosition, t.quotePosition = newBase, newQuote
	t.currentPrice = newPrice
	return t, nil
}

// Delta returns the balance changes from prev to next
func Delta(prev, next Trader) Trade {
	return Trade{
		Base:  next.baseBalance.Sub(prev.baseBalance),
		Quote: next.quoteBalance.Sub(prev.quoteBalance),
	}
}

// String implements fmt.Stringer
func (t Trader) String() string {
	return fmt.Sprintf("position %d/%d base %s quote %s price %s",
		t.basePosition, t.quotePosition, t.baseBalance, t.quoteBalance, t.currentPrice)
}

func totalValue(base, quote, price decimal.Decimal) decimal.Decimal {
	return gctmath.Truncate(base.Mul(price).Add(quote))
}
