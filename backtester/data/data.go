package data

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/turbo/newton/backtester/chart"
	"github.com/turbo/newton/common/cache"
	"github.com/turbo/newton/exchanges/kline"
)

// CheckRequest validates the common arguments of a candle request
func CheckRequest(symbol string, interval kline.Interval, limit int, start, end time.Time) error {
	if symbol == "" {
		return ErrInvalidSymbol
	}
	if err := interval.Validate(); err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidRange, limit)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("%w: end %v before start %v", ErrInvalidRange, end, start)
	}
	return nil
}

// Filter returns the candles opening within [start, end) sorted by open time,
// truncated to the first limit candles
func Filter(candles []chart.Candle, start, end time.Time, limit int) []chart.Candle {
	resp := make([]chart.Candle, 0, len(candles))
	for i := range candles {
		if !start.IsZero() && candles[i].OpenTime.Before(start) {
			continue
		}
		if !end.IsZero() && !candles[i].OpenTime.Before(end) {
			continue
		}
		resp = append(resp, candles[i])
	}
	slices.SortStableFunc(resp, func(a, b chart.Candle) int {
		return a.OpenTime.Compare(b.OpenTime)
	})
	if limit > 0 && len(resp) > limit {
		resp = resp[:limit]
	}
	return resp
}

// NormaliseCloseTime converts an inclusive exchange close time, one
// millisecond before the next open, into the exclusive close time used by
// charts. Any other close time is returned unchanged
func NormaliseCloseTime(open, closeTime time.Time, interval kline.Interval) time.Time {
	exclusive := open.Add(interval.Duration())
	if closeTime.Before(exclusive) && exclusive.Sub(closeTime) <= time.Millisecond {
		return exclusive
	}
	return closeTime
}

// FileName returns the name of the file holding the symbol's candles at the
// interval, eg BTCUSDT_1m.csv
func FileName(symbol string, interval kline.Interval, extension string) string {
	code := interval.ExchangeCode()
	if code == "" {
		code = interval.Short()
	}
	return fmt.Sprintf("%s_%s.%s", strings.ToUpper(symbol), code, strings.TrimPrefix(extension, "."))
}

// Upstream wraps err with ErrUpstreamUnavailable
func Upstream(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, source, err)
}

// ReadCached returns the candles parsed from path. A parse is reused while the
// file keeps the same size and modification time
func ReadCached(c *cache.LRU, path string, parse func(string) ([]chart.Candle, error)) ([]chart.Candle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := fileKey{path: path, modTime: info.ModTime().UnixNano(), size: info.Size()}
	if c != nil {
		if v, ok := c.Get(key); ok {
			if candles, ok := v.([]chart.Candle); ok {
				return candles, nil
			}
		}
	}
	candles, err := parse(path)
	if err != nil {
		return nil, err
	}
	if c != nil {
		c.Add(key, candles)
	}
	return candles, nil
}
