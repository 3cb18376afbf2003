package chart

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/gct-ta/indicators"
	gctmath "github.com/turbo/newton/common/math"
)

// FastOscillator returns the raw stochastic %K of the barCount closes ending
// at atIndex: 100 * (close - lowest) / (highest - lowest)
func (c *Chart) FastOscillator(barCount, atIndex int) (decimal.Decimal, error) {
	if barCount < 1 {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrInvalidBarCount, barCount)
	}
	start := atIndex - barCount + 1
	if start < 0 || atIndex >= c.Len() {
		return decimal.Zero, fmt.Errorf("%w: %d bars ending at %d of %d", ErrInsufficientData, barCount, atIndex, c.Len())
	}
	lowest := c.candles[start].Close
	highest := lowest
	for i := start + 1; i <= atIndex; i++ {
		lowest = decimal.Min(lowest, c.candles[i].Close)
		highest = decimal.Max(highest, c.candles[i].Close)
	}
	if highest.Equal(lowest) {
		return decimal.Zero, fmt.Errorf("%w: %d bars ending at %d", ErrFlatWindow, barCount, atIndex)
	}
	return gctmath.TruncatedDivide(
		oneHundred.Mul(c.candles[atIndex].Close.Sub(lowest)),
		highest.Sub(lowest))
}

// SlowOscillator returns the stochastic %D, the mean of smoothing fast values
// ending at atIndex
func (c *Chart) SlowOscillator(barCount, smoothing, atIndex int) (decimal.Decimal, error) {
	if smoothing < 1 {
		return decimal.Zero, fmt.Errorf("%w: smoothing %d", ErrInvalidBarCount, smoothing)
	}
	sum := decimal.Zero
	for i := atIndex - smoothing + 1; i <= atIndex; i++ {
		fast, err := c.FastOscillator(barCount, i)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(fast)
	}
	return gctmath.TruncatedDivide(sum, decimal.NewFromInt(int64(smoothing)))
}

// FastOscillatorSeries returns the fast oscillator for every index from the
// first complete window to the end of the chart. Flat windows are not valid
func (c *Chart) FastOscillatorSeries(barCount int) ([]decimal.NullDecimal, error) {
	return c.series(barCount-1, func(i int) (decimal.Decimal, error) {
		return c.FastOscillator(barCount, i)
	})
}

// SlowOscillatorSeries returns the slow oscillator for every index from the
// first complete window to the end of the chart. Flat windows are not valid
func (c *Chart) SlowOscillatorSeries(barCount, smoothing int) ([]decimal.NullDecimal, error) {
	return c.series(barCount+smoothing-2, func(i int) (decimal.Decimal, error) {
		return c.SlowOscillator(barCount, smoothing, i)
	})
}

func (c *Chart) series(first int, fn func(int) (decimal.Decimal, error)) ([]decimal.NullDecimal, error) {
	if first < 0 {
		return nil, ErrInvalidBarCount
	}
	if first >= c.Len() {
		return nil, fmt.Errorf("%w: need %d bars, have %d", ErrInsufficientData, first+1, c.Len())
	}
	resp := make([]decimal.NullDecimal, 0, c.Len()-first)
	for i := first; i < c.Len(); i++ {
		v, err := fn(i)
		switch {
		case err == nil:
			resp = append(resp, decimal.NullDecimal{Decimal: v, Valid: true})
		case isFlat(err):
			resp = append(resp, decimal.NullDecimal{})
		default:
			return nil, err
		}
	}
	return resp, nil
}

// RelativeStrength returns the relative strength index over the closes up to
// and including atIndex
func (c *Chart) RelativeStrength(period, atIndex int) (decimal.Decimal, error) {
	if period < 1 {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrInvalidBarCount, period)
	}
	if atIndex < period || atIndex >= c.Len() {
		return decimal.Zero, fmt.Errorf("%w: rsi period %d at %d of %d", ErrInsufficientData, period, atIndex, c.Len())
	}
	closes := make([]float64, atIndex+1)
	for i := range closes {
		closes[i] = c.candles[i].Close.InexactFloat64()
	}
	rsi := indicators.RSI(closes, period)
	if len(rsi) == 0 {
		return decimal.Zero, fmt.Errorf("%w: rsi period %d at %d", ErrInsufficientData, period, atIndex)
	}
	v := rsi[len(rsi)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%w: rsi period %d at %d", ErrFlatWindow, period, atIndex)
	}
	return gctmath.Truncate(decimal.NewFromFloat(v)), nil
}
