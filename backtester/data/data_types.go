package data

import (
	"context"
	"errors"
	"time"

	"github.com/turbo/newton/backtester/chart"
	"github.com/turbo/newton/exchanges/kline"
)

var (
	// ErrUpstreamUnavailable is returned when a candle source cannot serve
	// data, the cause is wrapped alongside it
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrInvalidRange is returned when the end of a requested range precedes
	// its start
	ErrInvalidRange = errors.New("invalid range")
	// ErrInvalidSymbol is returned when no symbol is requested
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// DefaultFileCacheSize is the number of parsed files a file backed source
// keeps in memory
const DefaultFileCacheSize = 16

type fileKey struct {
	path    string
	modTime int64
	size    int64
}

// CandleSource supplies historic candles. Zero start or end times are
// unbounded and a zero limit is unlimited. Candles are returned in open time
// order and cover [start, end)
type CandleSource interface {
	GetCandles(ctx context.Context, symbol string, interval kline.Interval, limit int, start, end time.Time) ([]chart.Candle, error)
}
