package signal

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Trend is the direction read from an indicator value
type Trend int8

// Trend values
const (
	Bearish Trend = -1
	Neutral Trend = 0
	Bullish Trend = 1
)

// ErrUnmappedSignalTriple is the panic value for a triple outside {-1,0,1}³
var ErrUnmappedSignalTriple = errors.New("unmapped signal triple")

// Triple holds the short, mid and long term trends
type Triple struct {
	Short Trend
	Mid   Trend
	Long  Trend
}

// Position is a target allocation of base and quote parts out of ten
type Position struct {
	Base  int64
	Quote int64
}

// String implements fmt.Stringer
func (t Trend) String() string {
	switch t {
	case Bearish:
		return "bearish"
	case Neutral:
		return "neutral"
	case Bullish:
		return "bullish"
	default:
		return fmt.Sprintf("trend(%d)", int8(t))
	}
}

// String implements fmt.Stringer
func (t Triple) String() string {
	return fmt.Sprintf("%s/%s/%s", t.Short, t.Mid, t.Long)
}

// String implements fmt.Stringer
func (p Position) String() string {
	return fmt.Sprintf("%d/%d", p.Base, p.Quote)
}

// TrendSignal is bearish when value is below both thresholds and bullish when
// it is above both, otherwise neutral
func TrendSignal(value, low, high decimal.Decimal) Trend {
	switch {
	case value.LessThan(low) && value.LessThan(high):
		return Bearish
	case value.GreaterThan(low) && value.GreaterThan(high):
		return Bullish
	default:
		return Neutral
	}
}

// positions is indexed by (short+1)*9 + (mid+1)*3 + (long+1). The short term
// trend dominates, the mid term trend grades it and the long term is unused
var positions = [27]Position{
	// short bearish
	{0, 10}, {0, 10}, {0, 10},
	{2, 8}, {2, 8}, {2, 8},
	{4, 6}, {4, 6}, {4, 6},
	// short neutral
	{5, 5}, {5, 5}, {5, 5},
	{5, 5}, {5, 5}, {5, 5},
	{5, 5}, {5, 5}, {5, 5},
	// short bullish
	{6, 4}, {6, 4}, {6, 4},
	{8, 2}, {8, 2}, {8, 2},
	{10, 0}, {10, 0}, {10, 0},
}

// MapToPosition returns the target allocation for the trend triple. A trend
// outside {-1,0,1} is a programming error and panics
func MapToPosition(t Triple) Position {
	if !t.Short.valid() || !t.Mid.valid() || !t.Long.valid() {
		panic(fmt.Errorf("%w: %s", ErrUnmappedSignalTriple, t))
	}
	return positions[int(t.Short+1)*9+int(t.Mid+1)*3+int(t.Long+1)]
}

func (t Trend) valid() bool {
	return t >= Bearish && t <= Bullish
}
