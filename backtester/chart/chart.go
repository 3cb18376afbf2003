package chart

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/turbo/newton/common"
	"github.com/turbo/newton/exchanges/kline"
)

// New creates a chart at the interval from a batch of candles. The batch is
// sorted by open time and appended one candle at a time
func New(interval kline.Interval, candles []Candle) (*Chart, error) {
	if err := interval.Validate(); err != nil {
		return nil, err
	}
	sorted := slices.Clone(candles)
	slices.SortStableFunc(sorted, func(a, b Candle) int {
		return a.OpenTime.Compare(b.OpenTime)
	})
	c := &Chart{
		interval: interval,
		candles:  make([]Candle, 0, len(sorted)),
	}
	for i := range sorted {
		if err := c.Append(sorted[i]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Append extends the chart by a single candle. A candle opening at the same
// time as the last candle replaces it, a candle opening at the last close
// time is appended. Anything else is rejected and the chart is unchanged
func (c *Chart) Append(candle Candle) error {
	if c == nil {
		return fmt.Errorf("%w chart", common.ErrNilPointer)
	}
	if !candle.CloseTime.After(candle.OpenTime) {
		return fmt.Errorf("%w open %v close %v", ErrInvalidCandle, candle.OpenTime, candle.CloseTime)
	}
	if len(c.candles) == 0 {
		c.candles = append(c.candles, candle)
		return nil
	}
	last := &c.candles[len(c.candles)-1]
	switch {
	case candle.OpenTime.Equal(last.OpenTime):
		*last = candle
	case candle.OpenTime.Equal(last.CloseTime):
		c.candles = append(c.candles, candle)
	default:
		return fmt.Errorf("%w: candle opening %v does not follow last candle %v-%v",
			ErrOutOfOrderCandle,
			candle.OpenTime.UTC().Format(common.SimpleTimeFormat),
			last.OpenTime.UTC().Format(common.SimpleTimeFormat),
			last.CloseTime.UTC().Format(common.SimpleTimeFormat))
	}
	return nil
}

// Len returns the number of candles held
func (c *Chart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.candles)
}

// Interval returns the candle resolution of the chart
func (c *Chart) Interval() kline.Interval {
	return c.interval
}

// At returns the candle at the index
func (c *Chart) At(i int) (Candle, error) {
	if i < 0 || i >= c.Len() {
		return Candle{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, c.Len())
	}
	return c.candles[i], nil
}

// Last returns the most recent candle
func (c *Chart) Last() (Candle, error) {
	return c.At(c.Len() - 1)
}

// Candles returns a copy of the held candles
func (c *Chart) Candles() []Candle {
	if c == nil {
		return nil
	}
	return slices.Clone(c.candles)
}

// Merge folds contiguous candles into a single candle spanning all of them
func Merge(candles ...Candle) (Candle, error) {
	if len(candles) == 0 {
		return Candle{}, ErrEmptyRange
	}
	merged := candles[0]
	for i := 1; i < len(candles); i++ {
		if !candles[i].OpenTime.Equal(candles[i-1].CloseTime) {
			return Candle{}, fmt.Errorf("%w at position %d", ErrNonContiguous, i)
		}
		merged.High = decimal.Max(merged.High, candles[i].High)
		merged.Low = decimal.Min(merged.Low, candles[i].Low)
		merged.Volume = merged.Volume.Add(candles[i].Volume)
		merged.QuoteVolume = merged.QuoteVolume.Add(candles[i].QuoteVolume)
		merged.Trades += candles[i].Trades
		merged.TakerBuyBaseVolume = merged.TakerBuyBaseVolume.Add(candles[i].TakerBuyBaseVolume)
		merged.TakerBuyQuoteVolume = merged.TakerBuyQuoteVolume.Add(candles[i].TakerBuyQuoteVolume)
	}
	last := candles[len(candles)-1]
	merged.Close = last.Close
	merged.CloseTime = last.CloseTime
	return merged, nil
}

// MergeRange folds the candles in [from, to) into one candle
func (c *Chart) MergeRange(from, to int) (Candle, error) {
	if from < 0 || to > c.Len() || from > to {
		return Candle{}, fmt.Errorf("%w: [%d, %d) of %d", ErrIndexOutOfRange, from, to, c.Len())
	}
	return Merge(c.candles[from:to]...)
}

// Aggregate builds a coarser chart of up to windowSize bars of the duration
// from the candles preceding endExclusive. Candles are grouped oldest first
// and a trailing group which cannot fill a whole bar is dropped.
//
// windowSize counts output bars, not base candles: the input range is the
// windowSize*(duration/interval) base candles before endExclusive, clamped at
// index 0. Counting base candles instead would leave a 60m term over a 1m
// chart with fewer bars than its oscillator needs for any practical window
func (c *Chart) Aggregate(duration kline.Interval, endExclusive, windowSize int) (*Chart, error) {
	if c == nil {
		return nil, fmt.Errorf("%w chart", common.ErrNilPointer)
	}
	chunk, err := duration.Multiple(c.interval)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidDuration, duration.Short(), err)
	}
	if endExclusive < 0 || endExclusive > len(c.candles) {
		return nil, fmt.Errorf("%w: end %d of %d", ErrIndexOutOfRange, endExclusive, len(c.candles))
	}
	if windowSize < 0 {
		return nil, fmt.Errorf("%w: window size %d", ErrInvalidBarCount, windowSize)
	}
	size := int(chunk)
	start := max(endExclusive-windowSize*size, 0)
	resp := &Chart{
		interval: duration,
		candles:  make([]Candle, 0, (endExclusive-start)/size),
	}
	for from := start; from+size <= endExclusive; from += size {
		merged, err := Merge(c.candles[from : from+size]...)
		if err != nil {
			return nil, err
		}
		resp.candles = append(resp.candles, merged)
	}
	return resp, nil
}

// Resample aggregates the whole chart into bars of the duration
func (c *Chart) Resample(duration kline.Interval) (*Chart, error) {
	return c.Aggregate(duration, c.Len(), c.Len())
}
