package trader

import (
	"errors"

	"github.com/shopspring/decimal"
)

// PositionDenominator is the number of parts an allocation is split into
const PositionDenominator = 10

var (
	// ErrInvalidPosition is returned when an allocation has a negative part or
	// does not add up to PositionDenominator
	ErrInvalidPosition = errors.New("invalid position")
	// ErrInvalidPrice is returned for non-positive prices
	ErrInvalidPrice = errors.New("price must be greater than zero")
	// ErrInvalidSeed is returned for non-positive seed values
	ErrInvalidSeed = errors.New("seed quote value must be greater than zero")
)

// Trader is an immutable snapshot of holdings and the target allocation
// between the base and quote asset. Every change produces a new Trader
type Trader struct {
	seedQuoteValue decimal.Decimal
	basePosition   int64
	quotePosition  int64
	baseBalance    decimal.Decimal
	quoteBalance   decimal.Decimal
	currentPrice   decimal.Decimal
}

// Trade holds the change in balances between two trader snapshots
type Trade struct {
	Base  decimal.Decimal
	Quote decimal.Decimal
}
