package chart

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/turbo/newton/exchanges/kline"
)

var (
	// ErrOutOfOrderCandle is returned when an appended candle neither replaces
	// nor directly follows the last candle of the chart
	ErrOutOfOrderCandle = errors.New("out of order candle")
	// ErrInvalidCandle is returned for candles whose close is not after their open
	ErrInvalidCandle = errors.New("invalid candle")
	// ErrEmptyRange is returned when merging no candles
	ErrEmptyRange = errors.New("empty candle range")
	// ErrNonContiguous is returned when merging candles with gaps between them
	ErrNonContiguous = errors.New("candles are not contiguous")
	// ErrInvalidDuration is returned when aggregating by a duration which is
	// not a positive multiple of the chart interval
	ErrInvalidDuration = errors.New("invalid aggregation duration")
	// ErrIndexOutOfRange is returned when an index falls outside the chart
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInsufficientData is returned when an indicator window extends beyond
	// the candles held by the chart
	ErrInsufficientData = errors.New("insufficient data")
	// ErrFlatWindow is returned when every close in an oscillator window is
	// the same price
	ErrFlatWindow = errors.New("flat oscillator window")
	// ErrInvalidBarCount is returned for non-positive window lengths
	ErrInvalidBarCount = errors.New("bar count must be positive")
)

var (
	oneHundred = decimal.NewFromInt(100)
)

// Candle is a single OHLCV bar. CloseTime is exclusive, it is equal to the
// OpenTime of the bar which follows it
type Candle struct {
	OpenTime            time.Time
	CloseTime           time.Time
	Open                decimal.Decimal
	High                decimal.Decimal
	Low                 decimal.Decimal
	Close               decimal.Decimal
	Volume              decimal.Decimal
	QuoteVolume         decimal.Decimal
	Trades              int64
	TakerBuyBaseVolume  decimal.Decimal
	TakerBuyQuoteVolume decimal.Decimal
}

// Chart holds an ordered gap free series of candles at a fixed interval
type Chart struct {
	interval kline.Interval
	candles  []Candle
}
