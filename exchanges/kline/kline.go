package kline

import (
	"fmt"
	"strings"
	"time"
)

// String returns numeric string
func (i Interval) String() string {
	return i.Duration().String()
}

// Duration returns interval casted as time.Duration for compatibility
func (i Interval) Duration() time.Duration {
	return time.Duration(i)
}

// Short returns short string version of interval
func (i Interval) Short() string {
	s := i.String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

// ExchangeCode returns the kline interval code used by exchange APIs, eg "15m"
// or "1d". An empty string is returned for intervals without a code
func (i Interval) ExchangeCode() string {
	for k, v := range exchangeIntervals {
		if v == i {
			return k
		}
	}
	return ""
}

// Validate ensures the interval is usable as a candle resolution
func (i Interval) Validate() error {
	if i <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// Multiple returns how many base intervals fit into i. It errors when i is not
// a positive whole multiple of base
func (i Interval) Multiple(base Interval) (int64, error) {
	if i <= 0 || base <= 0 {
		return 0, ErrInvalidInterval
	}
	if i%base != 0 {
		return 0, fmt.Errorf("%w: %s of %s", ErrNotMultiple, i.Short(), base.Short())
	}
	return int64(i / base), nil
}

// ParseInterval accepts either an exchange kline code ("1m", "1h", "1d") or a
// Go duration string ("15m0s", "90m")
func ParseInterval(s string) (Interval, error) {
	if i, ok := exchangeIntervals[s]; ok {
		return i, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrUnsupportedInterval, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w %q", ErrInvalidInterval, s)
	}
	return Interval(d), nil
}

// TotalCandlesPerInterval turns total candles per period for interval
func TotalCandlesPerInterval(start, end time.Time, interval Interval) int64 {
	if interval <= 0 {
		return 0
	}
	window := end.Sub(start)
	return int64(window) / int64(interval)
}
