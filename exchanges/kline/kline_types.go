package kline

import (
	"errors"
	"time"
)

// Consts here define basic time intervals
const (
	OneMin     = Interval(time.Minute)
	ThreeMin   = 3 * OneMin
	FiveMin    = 5 * OneMin
	FifteenMin = 15 * OneMin
	ThirtyMin  = 30 * OneMin
	OneHour    = Interval(time.Hour)
	TwoHour    = 2 * OneHour
	FourHour   = 4 * OneHour
	SixHour    = 6 * OneHour
	EightHour  = 8 * OneHour
	TwelveHour = 12 * OneHour
	OneDay     = 24 * OneHour
	ThreeDay   = 3 * OneDay
	OneWeek    = 7 * OneDay
	OneMonth   = 31 * OneDay
	OneYear    = 365 * OneDay
)

var (
	// ErrInvalidInterval defines when an interval is invalid e.g. interval <= 0
	ErrInvalidInterval = errors.New("invalid/unset interval")
	// ErrUnsupportedInterval returns when the provided interval cannot be parsed
	ErrUnsupportedInterval = errors.New("unsupported interval")
	// ErrNotMultiple is returned when an interval cannot be built from another
	ErrNotMultiple = errors.New("interval is not a multiple of the base interval")
)

// Interval type for kline Interval usage
type Interval time.Duration

// exchangeIntervals maps the kline interval codes used by exchange APIs and
// kline dumps to their Interval
var exchangeIntervals = map[string]Interval{
	"1m":  OneMin,
	"3m":  ThreeMin,
	"5m":  FiveMin,
	"15m": FifteenMin,
	"30m": ThirtyMin,
	"1h":  OneHour,
	"2h":  TwoHour,
	"4h":  FourHour,
	"6h":  SixHour,
	"8h":  EightHour,
	"12h": TwelveHour,
	"1d":  OneDay,
	"3d":  ThreeDay,
	"1w":  OneWeek,
	"1M":  OneMonth,
}
